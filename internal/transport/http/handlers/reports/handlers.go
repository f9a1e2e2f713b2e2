package reportshandler

import (
	"encoding/csv"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"staffhub/internal/domain/attendance"
	"staffhub/internal/domain/auth"
	"staffhub/internal/domain/employee"
	"staffhub/internal/domain/payroll"
	"staffhub/internal/domain/reports"
	"staffhub/internal/requestctx"
	"staffhub/internal/transport/http/api"
	"staffhub/internal/transport/http/middleware"
	"staffhub/internal/transport/http/shared"
)

type Handler struct {
	Employees  *employee.Service
	Attendance *attendance.Service
	Payroll    *payroll.Service
	Auth       *auth.Store
}

func NewHandler(employees *employee.Service, att *attendance.Service, pay *payroll.Service, authStore *auth.Store) *Handler {
	return &Handler{Employees: employees, Attendance: att, Payroll: pay, Auth: authStore}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.With(middleware.RequireRole(auth.RoleHR)).Get("/employees.pdf", h.handleEmployeeRoster)
		r.With(middleware.RequireRole(auth.RoleHR)).Get("/attendance.csv", h.handleAttendanceCSV)
	})
	r.With(middleware.RequireRole(auth.RoleHR)).Get("/salaries/{id}/payslip.pdf", h.handlePayslip)
}

func (h *Handler) handleEmployeeRoster(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	employees, err := h.Employees.List(r.Context(), user.CompanyID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to load employees", requestctx.GetRequestID(r.Context()))
		return
	}
	companyName, err := h.Auth.GetCompanyName(r.Context(), user.CompanyID)
	if err != nil {
		companyName = ""
	}

	pdfBytes, err := reports.RenderEmployeeRoster(companyName, employees)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to render employee roster", requestctx.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="employees.pdf"`)
	_, _ = w.Write(pdfBytes)
}

func (h *Handler) handleAttendanceCSV(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var filter attendance.Filter
	if raw := r.URL.Query().Get("date"); raw != "" {
		date, err := shared.ParseDate(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_filter", "date must be in YYYY-MM-DD format", requestctx.GetRequestID(r.Context()))
			return
		}
		filter.Date = &date
	}
	filter.EmployeeID = r.URL.Query().Get("employeeId")

	records, err := h.Attendance.List(r.Context(), user.CompanyID, filter)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to load attendance", requestctx.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="attendance.csv"`)

	writer := csv.NewWriter(w)
	_ = writer.Write([]string{"employee_id", "date", "status", "check_in", "check_out"})
	for _, rec := range records {
		checkIn, checkOut := "", ""
		if rec.CheckIn != nil {
			checkIn = rec.CheckIn.Format("15:04")
		}
		if rec.CheckOut != nil {
			checkOut = rec.CheckOut.Format("15:04")
		}
		_ = writer.Write([]string{
			rec.EmployeeID,
			rec.Date.Format("2006-01-02"),
			rec.Status,
			checkIn,
			checkOut,
		})
	}
	writer.Flush()
}

func (h *Handler) handlePayslip(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	sal, err := h.Payroll.Get(r.Context(), user.CompanyID, chi.URLParam(r, "id"))
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "salary record not found", requestctx.GetRequestID(r.Context()))
		return
	}
	name, err := h.Employees.DisplayName(r.Context(), user.CompanyID, sal.EmployeeID)
	if err != nil {
		name = "Unknown"
	}

	pdfBytes, err := payroll.RenderPayslip(sal, name)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to render payslip", requestctx.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="payslip-`+strconv.Itoa(sal.Year)+`-`+strconv.Itoa(sal.Month)+`.pdf"`)
	_, _ = w.Write(pdfBytes)
}
