package payroll

import "math"

// Gross is basic plus the four allowance components.
func Gross(s Salary) float64 {
	return s.BasicSalary + s.HouseRent + s.MedicalAllowance + s.TransportAllowance + s.Bonus
}

// Deductions is the sum of the four deduction components.
func Deductions(s Salary) float64 {
	return s.TaxDeduction + s.ProvidentFund + s.Insurance + s.LoanDeduction
}

// ComputeNet derives the net amount from the components, rounded to cents.
// Client-supplied net values are never trusted.
func ComputeNet(s Salary) float64 {
	return math.Round((Gross(s)-Deductions(s))*100) / 100
}
