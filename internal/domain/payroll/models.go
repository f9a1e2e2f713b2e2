package payroll

import "time"

// Salary is one record per employee, month, and year, backed by a unique
// constraint. The net amount is always derived server-side; see ComputeNet.
type Salary struct {
	ID                 string    `json:"id"`
	CompanyID          string    `json:"companyId"`
	EmployeeID         string    `json:"employeeId"`
	Month              int       `json:"month"`
	Year               int       `json:"year"`
	BasicSalary        float64   `json:"basicSalary"`
	HouseRent          float64   `json:"houseRent"`
	MedicalAllowance   float64   `json:"medicalAllowance"`
	TransportAllowance float64   `json:"transportAllowance"`
	Bonus              float64   `json:"bonus"`
	TaxDeduction       float64   `json:"taxDeduction"`
	ProvidentFund      float64   `json:"providentFund"`
	Insurance          float64   `json:"insurance"`
	LoanDeduction      float64   `json:"loanDeduction"`
	NetSalary          float64   `json:"netSalary"`
	CreatedAt          time.Time `json:"createdAt"`
}

type Filter struct {
	Month      int
	Year       int
	EmployeeID string
}
