package reports

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"staffhub/internal/domain/employee"
)

// RenderEmployeeRoster produces the printable employee directory.
func RenderEmployeeRoster(companyName string, employees []employee.Employee) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Employee Roster", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Employee Roster")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, companyName)
	pdf.Ln(5)
	pdf.Cell(0, 6, "Generated "+time.Now().Format("2006-01-02"))
	pdf.Ln(10)

	headers := []string{"ID", "Name", "Email", "Joined", "Active"}
	widths := []float64{30, 70, 80, 30, 20}

	pdf.SetFont("Helvetica", "B", 9)
	for i, header := range headers {
		pdf.CellFormat(widths[i], 7, header, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, emp := range employees {
		active := "no"
		if emp.IsActive {
			active = "yes"
		}
		row := []string{
			emp.EmployeeID,
			emp.FirstName + " " + emp.LastName,
			emp.Email,
			emp.DateOfJoining.Format("2006-01-02"),
			active,
		}
		for i, cell := range row {
			pdf.CellFormat(widths[i], 6, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.Ln(4)
	pdf.Cell(0, 5, fmt.Sprintf("%d employees", len(employees)))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
