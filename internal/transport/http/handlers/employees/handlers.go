package employeeshandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"staffhub/internal/domain/audit"
	"staffhub/internal/domain/auth"
	"staffhub/internal/domain/employee"
	"staffhub/internal/requestctx"
	"staffhub/internal/transport/http/api"
	"staffhub/internal/transport/http/middleware"
	"staffhub/internal/transport/http/shared"
)

type Handler struct {
	Service *employee.Service
	Audit   *audit.Service
}

func NewHandler(service *employee.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.With(middleware.RequireRole(auth.RoleUser)).Get("/", h.handleList)
		r.With(middleware.RequireRole(auth.RoleHR)).Post("/", h.handleCreate)
		r.With(middleware.RequireRole(auth.RoleUser)).Get("/{id}", h.handleGet)
		r.With(middleware.RequireRole(auth.RoleHR)).Put("/{id}", h.handleUpdate)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Delete("/{id}", h.handleDelete)
	})
}

type employeePayload struct {
	EmployeeID     string `json:"employeeId"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	DepartmentID   string `json:"departmentId"`
	DesignationID  string `json:"designationId"`
	EmployeeTypeID string `json:"employeeTypeId"`
	ShiftID        string `json:"shiftId"`
	LocationID     string `json:"locationId"`
	DateOfJoining  string `json:"dateOfJoining"`
	DateOfBirth    string `json:"dateOfBirth"`
	Address        string `json:"address"`
	NationalID     string `json:"nationalId"`
	BankAccount    string `json:"bankAccount"`
	IsActive       *bool  `json:"isActive"`
}

func (p employeePayload) validate(v *shared.Validator) (employee.Employee, bool) {
	v.Required("employeeId", p.EmployeeID, "employee id is required")
	v.Required("firstName", p.FirstName, "first name is required")
	v.Required("lastName", p.LastName, "last name is required")
	v.Required("email", p.Email, "email is required")
	v.Required("departmentId", p.DepartmentID, "department is required")
	v.Required("designationId", p.DesignationID, "designation is required")
	v.Required("employeeTypeId", p.EmployeeTypeID, "employee type is required")
	v.Required("shiftId", p.ShiftID, "shift is required")
	v.Required("locationId", p.LocationID, "location is required")
	v.Required("dateOfJoining", p.DateOfJoining, "date of joining is required")

	emp := employee.Employee{
		EmployeeID:     strings.TrimSpace(p.EmployeeID),
		FirstName:      strings.TrimSpace(p.FirstName),
		LastName:       strings.TrimSpace(p.LastName),
		Email:          strings.TrimSpace(strings.ToLower(p.Email)),
		Phone:          strings.TrimSpace(p.Phone),
		DepartmentID:   p.DepartmentID,
		DesignationID:  p.DesignationID,
		EmployeeTypeID: p.EmployeeTypeID,
		ShiftID:        p.ShiftID,
		LocationID:     p.LocationID,
		Address:        p.Address,
		NationalID:     strings.TrimSpace(p.NationalID),
		BankAccount:    strings.TrimSpace(p.BankAccount),
		IsActive:       true,
	}
	if p.IsActive != nil {
		emp.IsActive = *p.IsActive
	}
	if p.DateOfJoining != "" {
		if joined, ok := v.Date("dateOfJoining", p.DateOfJoining); ok {
			emp.DateOfJoining = joined
		}
	}
	if p.DateOfBirth != "" {
		if born, ok := v.Date("dateOfBirth", p.DateOfBirth); ok {
			emp.DateOfBirth = &born
		}
	}
	return emp, !v.HasIssues()
}

func failEmployee(w http.ResponseWriter, r *http.Request, err error, fallbackCode, fallbackMsg string) {
	reqID := requestctx.GetRequestID(r.Context())
	switch {
	case errors.Is(err, employee.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
	case errors.Is(err, employee.ErrCompanyMismatch):
		api.Fail(w, http.StatusForbidden, "forbidden", "employee belongs to another company", reqID)
	case errors.Is(err, employee.ErrConflict):
		api.Fail(w, http.StatusBadRequest, "conflict", err.Error(), reqID)
	case errors.Is(err, employee.ErrBadReference):
		api.Fail(w, http.StatusBadRequest, "reference_error", err.Error(), reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, fallbackCode, fallbackMsg, reqID)
	}
}

func (h *Handler) recordAudit(r *http.Request, user auth.UserContext, action, entityID, details string) {
	err := h.Audit.Record(r.Context(), user.CompanyID, user.UserID, action, "employee", entityID, details,
		requestctx.GetRequestID(r.Context()), shared.ClientIP(r))
	if err != nil {
		slog.Warn("audit "+action+" failed", "err", err)
	}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	employees, err := h.Service.List(r.Context(), user.CompanyID)
	if err != nil {
		failEmployee(w, r, err, "employees_failed", "failed to list employees")
		return
	}
	api.Success(w, employees, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	emp, err := h.Service.Get(r.Context(), user.CompanyID, chi.URLParam(r, "id"))
	if err != nil {
		failEmployee(w, r, err, "employee_failed", "failed to load employee")
		return
	}
	api.Success(w, emp, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload employeePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	emp, ok := payload.validate(v)
	if !ok {
		shared.FailValidation(w, requestctx.GetRequestID(r.Context()), v.Issues())
		return
	}

	created, err := h.Service.Create(r.Context(), user.CompanyID, emp)
	if err != nil {
		failEmployee(w, r, err, "employee_create_failed", "failed to create employee")
		return
	}
	h.recordAudit(r, user, "employee.create", created.ID, "created employee "+created.FirstName+" "+created.LastName)
	api.Created(w, created, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload employeePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	emp, ok := payload.validate(v)
	if !ok {
		shared.FailValidation(w, requestctx.GetRequestID(r.Context()), v.Issues())
		return
	}

	updated, err := h.Service.Update(r.Context(), user.CompanyID, chi.URLParam(r, "id"), emp)
	if err != nil {
		failEmployee(w, r, err, "employee_update_failed", "failed to update employee")
		return
	}
	h.recordAudit(r, user, "employee.update", updated.ID, "updated employee "+updated.FirstName+" "+updated.LastName)
	api.Success(w, updated, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	id := chi.URLParam(r, "id")
	name, err := h.Service.DisplayName(r.Context(), user.CompanyID, id)
	if err != nil {
		name = "Unknown"
	}
	if err := h.Service.Delete(r.Context(), user.CompanyID, id); err != nil {
		failEmployee(w, r, err, "employee_delete_failed", "failed to delete employee")
		return
	}
	h.recordAudit(r, user, "employee.delete", id, "deleted employee "+name)
	api.Success(w, map[string]string{"status": "deleted"}, requestctx.GetRequestID(r.Context()))
}
