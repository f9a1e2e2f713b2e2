package payroll

import "testing"

func TestComputeNet(t *testing.T) {
	sal := Salary{
		BasicSalary:        50000,
		HouseRent:          15000,
		MedicalAllowance:   2000,
		TransportAllowance: 3000,
		Bonus:              5000,
		TaxDeduction:       8000,
		ProvidentFund:      4000,
		Insurance:          1000,
		LoanDeduction:      2500,
	}

	if got := Gross(sal); got != 75000 {
		t.Errorf("Gross = %v, want 75000", got)
	}
	if got := Deductions(sal); got != 15500 {
		t.Errorf("Deductions = %v, want 15500", got)
	}
	if got := ComputeNet(sal); got != 59500 {
		t.Errorf("ComputeNet = %v, want 59500", got)
	}
}

func TestComputeNetRounding(t *testing.T) {
	sal := Salary{BasicSalary: 100.005}
	if got := ComputeNet(sal); got != 100.01 {
		t.Errorf("ComputeNet = %v, want 100.01", got)
	}
}

func TestComputeNetZero(t *testing.T) {
	if got := ComputeNet(Salary{}); got != 0 {
		t.Errorf("ComputeNet(zero) = %v, want 0", got)
	}
}

func TestComputeNetNegative(t *testing.T) {
	sal := Salary{BasicSalary: 1000, TaxDeduction: 1500}
	if got := ComputeNet(sal); got != -500 {
		t.Errorf("ComputeNet = %v, want -500", got)
	}
}
