package employee

import "time"

type Employee struct {
	ID             string     `json:"id"`
	CompanyID      string     `json:"companyId"`
	EmployeeID     string     `json:"employeeId"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone,omitempty"`
	DepartmentID   string     `json:"departmentId"`
	DesignationID  string     `json:"designationId"`
	EmployeeTypeID string     `json:"employeeTypeId"`
	ShiftID        string     `json:"shiftId"`
	LocationID     string     `json:"locationId"`
	DateOfJoining  time.Time  `json:"dateOfJoining"`
	DateOfBirth    *time.Time `json:"dateOfBirth,omitempty"`
	Address        string     `json:"address,omitempty"`
	NationalID     string     `json:"nationalId,omitempty"`
	BankAccount    string     `json:"bankAccount,omitempty"`
	IsActive       bool       `json:"isActive"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}
