package leavehandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"staffhub/internal/domain/audit"
	"staffhub/internal/domain/auth"
	"staffhub/internal/domain/leave"
	"staffhub/internal/requestctx"
	"staffhub/internal/transport/http/api"
	"staffhub/internal/transport/http/middleware"
	"staffhub/internal/transport/http/shared"
)

type Handler struct {
	Service *leave.Service
	Audit   *audit.Service
}

func NewHandler(service *leave.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leave-types", func(r chi.Router) {
		r.With(middleware.RequireRole(auth.RoleUser)).Get("/", h.handleListTypes)
		r.With(middleware.RequireRole(auth.RoleHR)).Post("/", h.handleCreateType)
		r.With(middleware.RequireRole(auth.RoleUser)).Get("/{id}", h.handleGetType)
		r.With(middleware.RequireRole(auth.RoleHR)).Put("/{id}", h.handleUpdateType)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Delete("/{id}", h.handleDeleteType)
	})

	r.Route("/leaves", func(r chi.Router) {
		r.With(middleware.RequireRole(auth.RoleUser)).Get("/", h.handleListRequests)
		r.With(middleware.RequireRole(auth.RoleUser)).Post("/", h.handleCreateRequest)
		r.With(middleware.RequireRole(auth.RoleUser)).Get("/{id}", h.handleGetRequest)
		r.With(middleware.RequireRole(auth.RoleHR)).Put("/{id}/status", h.handleSetStatus)
		r.With(middleware.RequireRole(auth.RoleHR)).Delete("/{id}", h.handleDeleteRequest)
	})
}

type leaveTypePayload struct {
	Name        string `json:"name"`
	AllowedDays int    `json:"allowedDays"`
}

type leaveRequestPayload struct {
	EmployeeID  string `json:"employeeId"`
	LeaveTypeID string `json:"leaveTypeId"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Reason      string `json:"reason"`
}

type statusPayload struct {
	Status string `json:"status"`
}

func failLeave(w http.ResponseWriter, r *http.Request, err error, fallbackCode, fallbackMsg string) {
	reqID := requestctx.GetRequestID(r.Context())
	switch {
	case errors.Is(err, leave.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "resource not found", reqID)
	case errors.Is(err, leave.ErrCompanyMismatch):
		api.Fail(w, http.StatusForbidden, "forbidden", "resource belongs to another company", reqID)
	case errors.Is(err, leave.ErrConflict):
		api.Fail(w, http.StatusBadRequest, "conflict", err.Error(), reqID)
	case errors.Is(err, leave.ErrBadReference):
		api.Fail(w, http.StatusBadRequest, "reference_error", err.Error(), reqID)
	case errors.Is(err, leave.ErrValidation):
		api.Fail(w, http.StatusBadRequest, "validation_error", err.Error(), reqID)
	case errors.Is(err, leave.ErrInvalidStatus):
		api.Fail(w, http.StatusBadRequest, "invalid_status", err.Error(), reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, fallbackCode, fallbackMsg, reqID)
	}
}

func (h *Handler) recordAudit(r *http.Request, user auth.UserContext, action, entityType, entityID, details string) {
	err := h.Audit.Record(r.Context(), user.CompanyID, user.UserID, action, entityType, entityID, details,
		requestctx.GetRequestID(r.Context()), shared.ClientIP(r))
	if err != nil {
		slog.Warn("audit "+action+" failed", "err", err)
	}
}

func (h *Handler) handleListTypes(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	types, err := h.Service.ListTypes(r.Context(), user.CompanyID)
	if err != nil {
		failLeave(w, r, err, "leave_types_failed", "failed to list leave types")
		return
	}
	api.Success(w, types, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleGetType(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	typ, err := h.Service.GetType(r.Context(), user.CompanyID, chi.URLParam(r, "id"))
	if err != nil {
		failLeave(w, r, err, "leave_type_failed", "failed to load leave type")
		return
	}
	api.Success(w, typ, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateType(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload leaveTypePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	if payload.AllowedDays < 0 {
		v.Add("allowedDays", "must not be negative")
	}
	if v.Reject(w, requestctx.GetRequestID(r.Context())) {
		return
	}

	typ, err := h.Service.CreateType(r.Context(), user.CompanyID, strings.TrimSpace(payload.Name), payload.AllowedDays)
	if err != nil {
		failLeave(w, r, err, "leave_type_create_failed", "failed to create leave type")
		return
	}
	h.recordAudit(r, user, "leave_type.create", "leave_type", typ.ID, "created leave type "+typ.Name)
	api.Created(w, typ, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateType(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload leaveTypePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	if payload.AllowedDays < 0 {
		v.Add("allowedDays", "must not be negative")
	}
	if v.Reject(w, requestctx.GetRequestID(r.Context())) {
		return
	}

	typ, err := h.Service.UpdateType(r.Context(), user.CompanyID, chi.URLParam(r, "id"), strings.TrimSpace(payload.Name), payload.AllowedDays)
	if err != nil {
		failLeave(w, r, err, "leave_type_update_failed", "failed to update leave type")
		return
	}
	h.recordAudit(r, user, "leave_type.update", "leave_type", typ.ID, "updated leave type "+typ.Name)
	api.Success(w, typ, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteType(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	id := chi.URLParam(r, "id")
	if err := h.Service.DeleteType(r.Context(), user.CompanyID, id); err != nil {
		failLeave(w, r, err, "leave_type_delete_failed", "failed to delete leave type")
		return
	}
	h.recordAudit(r, user, "leave_type.delete", "leave_type", id, "deleted leave type")
	api.Success(w, map[string]string{"status": "deleted"}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleListRequests(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	status := r.URL.Query().Get("status")
	if status != "" {
		v := shared.NewValidator()
		v.Enum("status", status, []string{leave.StatusPending, leave.StatusApproved, leave.StatusRejected}, "must be one of pending, approved, rejected")
		if v.Reject(w, requestctx.GetRequestID(r.Context())) {
			return
		}
	}

	requests, err := h.Service.ListRequests(r.Context(), user.CompanyID, status, r.URL.Query().Get("employeeId"))
	if err != nil {
		failLeave(w, r, err, "leaves_failed", "failed to list leave requests")
		return
	}
	api.Success(w, requests, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	req, err := h.Service.GetRequest(r.Context(), user.CompanyID, chi.URLParam(r, "id"))
	if err != nil {
		failLeave(w, r, err, "leave_failed", "failed to load leave request")
		return
	}
	api.Success(w, req, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload leaveRequestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "employee is required")
	v.Required("leaveTypeId", payload.LeaveTypeID, "leave type is required")
	v.Required("startDate", payload.StartDate, "start date is required")
	v.Required("endDate", payload.EndDate, "end date is required")

	req := leave.Request{
		EmployeeID:  payload.EmployeeID,
		LeaveTypeID: payload.LeaveTypeID,
		Reason:      strings.TrimSpace(payload.Reason),
	}
	var startOK, endOK bool
	if payload.StartDate != "" {
		req.StartDate, startOK = v.Date("startDate", payload.StartDate)
	}
	if payload.EndDate != "" {
		req.EndDate, endOK = v.Date("endDate", payload.EndDate)
	}
	if startOK && endOK {
		v.DateOrder("startDate", req.StartDate, "endDate", req.EndDate)
	}
	if v.Reject(w, requestctx.GetRequestID(r.Context())) {
		return
	}

	created, err := h.Service.CreateRequest(r.Context(), user.CompanyID, req)
	if err != nil {
		failLeave(w, r, err, "leave_create_failed", "failed to create leave request")
		return
	}
	h.recordAudit(r, user, "leave.create", "leave_request", created.ID, "requested leave "+payload.StartDate+" to "+payload.EndDate)
	api.Created(w, created, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload statusPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Required("status", payload.Status, "status is required")
	v.Enum("status", payload.Status, []string{leave.StatusApproved, leave.StatusRejected}, "must be approved or rejected")
	if v.Reject(w, requestctx.GetRequestID(r.Context())) {
		return
	}

	updated, err := h.Service.SetStatus(r.Context(), user.CompanyID, chi.URLParam(r, "id"), payload.Status, user.UserID)
	if err != nil {
		failLeave(w, r, err, "leave_status_failed", "failed to update leave status")
		return
	}
	h.recordAudit(r, user, "leave."+updated.Status, "leave_request", updated.ID, "set leave request to "+updated.Status)
	api.Success(w, updated, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteRequest(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	id := chi.URLParam(r, "id")
	if err := h.Service.DeleteRequest(r.Context(), user.CompanyID, id); err != nil {
		failLeave(w, r, err, "leave_delete_failed", "failed to delete leave request")
		return
	}
	h.recordAudit(r, user, "leave.delete", "leave_request", id, "deleted leave request")
	api.Success(w, map[string]string{"status": "deleted"}, requestctx.GetRequestID(r.Context()))
}
