package payroll

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// RenderPayslip builds a one-page payslip PDF for a salary record.
func RenderPayslip(sal Salary, employeeName string) ([]byte, error) {
	period := fmt.Sprintf("%s %d", time.Month(sal.Month).String(), sal.Year)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", employeeName))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s", period))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Earnings")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 12)
	writeAmount(pdf, "Basic salary", sal.BasicSalary)
	writeAmount(pdf, "House rent", sal.HouseRent)
	writeAmount(pdf, "Medical allowance", sal.MedicalAllowance)
	writeAmount(pdf, "Transport allowance", sal.TransportAllowance)
	writeAmount(pdf, "Bonus", sal.Bonus)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Deductions")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 12)
	writeAmount(pdf, "Tax", sal.TaxDeduction)
	writeAmount(pdf, "Provident fund", sal.ProvidentFund)
	writeAmount(pdf, "Insurance", sal.Insurance)
	writeAmount(pdf, "Loan", sal.LoanDeduction)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	writeAmount(pdf, "Net salary", sal.NetSalary)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeAmount(pdf *gofpdf.Fpdf, label string, amount float64) {
	pdf.Cell(90, 7, label)
	pdf.CellFormat(0, 7, fmt.Sprintf("%.2f", amount), "", 0, "R", false, 0, "")
	pdf.Ln(7)
}
