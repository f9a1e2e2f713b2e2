package leave

import "time"

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

type LeaveType struct {
	ID          string    `json:"id"`
	CompanyID   string    `json:"companyId"`
	Name        string    `json:"name"`
	AllowedDays int       `json:"allowedDays"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Request starts at pending; approved and rejected are terminal.
type Request struct {
	ID          string    `json:"id"`
	CompanyID   string    `json:"companyId"`
	EmployeeID  string    `json:"employeeId"`
	LeaveTypeID string    `json:"leaveTypeId"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	Reason      string    `json:"reason"`
	Status      string    `json:"status"`
	ApprovedBy  string    `json:"approvedBy,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}
