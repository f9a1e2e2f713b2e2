package attendance

import "time"

const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusLate    = "late"
	StatusHalfDay = "half_day"
)

var Statuses = []string{StatusPresent, StatusAbsent, StatusLate, StatusHalfDay}

// Record is one attendance row; at most one exists per employee and date,
// backed by a unique constraint.
type Record struct {
	ID         string     `json:"id"`
	CompanyID  string     `json:"companyId"`
	EmployeeID string     `json:"employeeId"`
	Date       time.Time  `json:"date"`
	Status     string     `json:"status"`
	CheckIn    *time.Time `json:"checkIn,omitempty"`
	CheckOut   *time.Time `json:"checkOut,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

type Filter struct {
	Date       *time.Time
	EmployeeID string
}
