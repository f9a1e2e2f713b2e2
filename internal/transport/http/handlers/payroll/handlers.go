package payrollhandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"staffhub/internal/domain/audit"
	"staffhub/internal/domain/auth"
	"staffhub/internal/domain/employee"
	"staffhub/internal/domain/payroll"
	"staffhub/internal/requestctx"
	"staffhub/internal/transport/http/api"
	"staffhub/internal/transport/http/middleware"
	"staffhub/internal/transport/http/shared"
)

type Handler struct {
	Service   *payroll.Service
	Employees *employee.Service
	Audit     *audit.Service
}

func NewHandler(service *payroll.Service, employees *employee.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Employees: employees, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/salaries", func(r chi.Router) {
		r.With(middleware.RequireRole(auth.RoleHR)).Get("/", h.handleList)
		r.With(middleware.RequireRole(auth.RoleHR)).Post("/", h.handleCreate)
		r.With(middleware.RequireRole(auth.RoleHR)).Get("/{id}", h.handleGet)
		r.With(middleware.RequireRole(auth.RoleHR)).Put("/{id}", h.handleUpdate)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Delete("/{id}", h.handleDelete)
	})
}

type salaryPayload struct {
	EmployeeID         string  `json:"employeeId"`
	Month              int     `json:"month"`
	Year               int     `json:"year"`
	BasicSalary        float64 `json:"basicSalary"`
	HouseRent          float64 `json:"houseRent"`
	MedicalAllowance   float64 `json:"medicalAllowance"`
	TransportAllowance float64 `json:"transportAllowance"`
	Bonus              float64 `json:"bonus"`
	TaxDeduction       float64 `json:"taxDeduction"`
	ProvidentFund      float64 `json:"providentFund"`
	Insurance          float64 `json:"insurance"`
	LoanDeduction      float64 `json:"loanDeduction"`
}

// validate ignores any client-sent net amount; the service recomputes it.
func (p salaryPayload) validate(v *shared.Validator) (payroll.Salary, bool) {
	v.Required("employeeId", p.EmployeeID, "employee is required")
	if p.Month < 1 || p.Month > 12 {
		v.Add("month", "must be between 1 and 12")
	}
	if p.Year < 2000 || p.Year > 2100 {
		v.Add("year", "must be a plausible year")
	}
	if p.BasicSalary < 0 {
		v.Add("basicSalary", "must not be negative")
	}
	for field, amount := range map[string]float64{
		"houseRent":          p.HouseRent,
		"medicalAllowance":   p.MedicalAllowance,
		"transportAllowance": p.TransportAllowance,
		"bonus":              p.Bonus,
		"taxDeduction":       p.TaxDeduction,
		"providentFund":      p.ProvidentFund,
		"insurance":          p.Insurance,
		"loanDeduction":      p.LoanDeduction,
	} {
		if amount < 0 {
			v.Add(field, "must not be negative")
		}
	}

	sal := payroll.Salary{
		EmployeeID:         p.EmployeeID,
		Month:              p.Month,
		Year:               p.Year,
		BasicSalary:        p.BasicSalary,
		HouseRent:          p.HouseRent,
		MedicalAllowance:   p.MedicalAllowance,
		TransportAllowance: p.TransportAllowance,
		Bonus:              p.Bonus,
		TaxDeduction:       p.TaxDeduction,
		ProvidentFund:      p.ProvidentFund,
		Insurance:          p.Insurance,
		LoanDeduction:      p.LoanDeduction,
	}
	return sal, !v.HasIssues()
}

func failPayroll(w http.ResponseWriter, r *http.Request, err error, fallbackCode, fallbackMsg string) {
	reqID := requestctx.GetRequestID(r.Context())
	switch {
	case errors.Is(err, payroll.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "salary record not found", reqID)
	case errors.Is(err, payroll.ErrCompanyMismatch):
		api.Fail(w, http.StatusForbidden, "forbidden", "salary record belongs to another company", reqID)
	case errors.Is(err, payroll.ErrConflict):
		api.Fail(w, http.StatusBadRequest, "conflict", err.Error(), reqID)
	case errors.Is(err, payroll.ErrBadReference):
		api.Fail(w, http.StatusBadRequest, "reference_error", err.Error(), reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, fallbackCode, fallbackMsg, reqID)
	}
}

func (h *Handler) recordAudit(r *http.Request, user auth.UserContext, action, entityID, details string) {
	err := h.Audit.Record(r.Context(), user.CompanyID, user.UserID, action, "salary", entityID, details,
		requestctx.GetRequestID(r.Context()), shared.ClientIP(r))
	if err != nil {
		slog.Warn("audit "+action+" failed", "err", err)
	}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var filter payroll.Filter
	if raw := r.URL.Query().Get("month"); raw != "" {
		month, err := strconv.Atoi(raw)
		if err != nil || month < 1 || month > 12 {
			api.Fail(w, http.StatusBadRequest, "invalid_filter", "month must be between 1 and 12", requestctx.GetRequestID(r.Context()))
			return
		}
		filter.Month = month
	}
	if raw := r.URL.Query().Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_filter", "year must be numeric", requestctx.GetRequestID(r.Context()))
			return
		}
		filter.Year = year
	}
	filter.EmployeeID = r.URL.Query().Get("employeeId")

	salaries, err := h.Service.List(r.Context(), user.CompanyID, filter)
	if err != nil {
		failPayroll(w, r, err, "salaries_failed", "failed to list salaries")
		return
	}
	api.Success(w, salaries, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	sal, err := h.Service.Get(r.Context(), user.CompanyID, chi.URLParam(r, "id"))
	if err != nil {
		failPayroll(w, r, err, "salary_failed", "failed to load salary record")
		return
	}
	api.Success(w, sal, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload salaryPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	sal, ok := payload.validate(v)
	if !ok {
		shared.FailValidation(w, requestctx.GetRequestID(r.Context()), v.Issues())
		return
	}

	created, err := h.Service.Create(r.Context(), user.CompanyID, sal)
	if err != nil {
		failPayroll(w, r, err, "salary_create_failed", "failed to create salary record")
		return
	}
	h.recordAudit(r, user, "salary.create", created.ID, fmt.Sprintf("created salary for %d/%d", created.Month, created.Year))
	api.Created(w, created, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload salaryPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	sal, ok := payload.validate(v)
	if !ok {
		shared.FailValidation(w, requestctx.GetRequestID(r.Context()), v.Issues())
		return
	}

	updated, err := h.Service.Update(r.Context(), user.CompanyID, chi.URLParam(r, "id"), sal)
	if err != nil {
		failPayroll(w, r, err, "salary_update_failed", "failed to update salary record")
		return
	}
	h.recordAudit(r, user, "salary.update", updated.ID, fmt.Sprintf("updated salary for %d/%d", updated.Month, updated.Year))
	api.Success(w, updated, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	id := chi.URLParam(r, "id")
	if err := h.Service.Delete(r.Context(), user.CompanyID, id); err != nil {
		failPayroll(w, r, err, "salary_delete_failed", "failed to delete salary record")
		return
	}
	h.recordAudit(r, user, "salary.delete", id, "deleted salary record")
	api.Success(w, map[string]string{"status": "deleted"}, requestctx.GetRequestID(r.Context()))
}
