package attendancehandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"staffhub/internal/domain/attendance"
	"staffhub/internal/domain/audit"
	"staffhub/internal/domain/auth"
	"staffhub/internal/requestctx"
	"staffhub/internal/transport/http/api"
	"staffhub/internal/transport/http/middleware"
	"staffhub/internal/transport/http/shared"
)

type Handler struct {
	Service *attendance.Service
	Audit   *audit.Service
}

func NewHandler(service *attendance.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/attendance", func(r chi.Router) {
		r.With(middleware.RequireRole(auth.RoleUser)).Get("/", h.handleList)
		r.With(middleware.RequireRole(auth.RoleManager)).Post("/", h.handleCreate)
		r.With(middleware.RequireRole(auth.RoleUser)).Get("/{id}", h.handleGet)
		r.With(middleware.RequireRole(auth.RoleManager)).Put("/{id}", h.handleUpdate)
		r.With(middleware.RequireRole(auth.RoleHR)).Delete("/{id}", h.handleDelete)
	})
}

type attendancePayload struct {
	EmployeeID string `json:"employeeId"`
	Date       string `json:"date"`
	Status     string `json:"status"`
	CheckIn    string `json:"checkIn"`
	CheckOut   string `json:"checkOut"`
}

func (p attendancePayload) validate(v *shared.Validator) (attendance.Record, bool) {
	v.Required("employeeId", p.EmployeeID, "employee is required")
	v.Required("date", p.Date, "date is required")
	v.Required("status", p.Status, "status is required")
	v.Enum("status", p.Status, attendance.Statuses, "must be one of present, absent, late, half_day")

	rec := attendance.Record{
		EmployeeID: p.EmployeeID,
		Status:     p.Status,
	}
	if p.Date != "" {
		if date, ok := v.Date("date", p.Date); ok {
			rec.Date = date
		}
	}
	rec.CheckIn = parseTimestamp(v, "checkIn", p.CheckIn)
	rec.CheckOut = parseTimestamp(v, "checkOut", p.CheckOut)
	return rec, !v.HasIssues()
}

func parseTimestamp(v *shared.Validator, field, raw string) *time.Time {
	if raw == "" {
		return nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		v.Add(field, "must be an RFC3339 timestamp")
		return nil
	}
	return &parsed
}

func failAttendance(w http.ResponseWriter, r *http.Request, err error, fallbackCode, fallbackMsg string) {
	reqID := requestctx.GetRequestID(r.Context())
	switch {
	case errors.Is(err, attendance.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "attendance record not found", reqID)
	case errors.Is(err, attendance.ErrCompanyMismatch):
		api.Fail(w, http.StatusForbidden, "forbidden", "attendance record belongs to another company", reqID)
	case errors.Is(err, attendance.ErrConflict):
		api.Fail(w, http.StatusBadRequest, "conflict", err.Error(), reqID)
	case errors.Is(err, attendance.ErrBadReference):
		api.Fail(w, http.StatusBadRequest, "reference_error", err.Error(), reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, fallbackCode, fallbackMsg, reqID)
	}
}

func (h *Handler) recordAudit(r *http.Request, user auth.UserContext, action, entityID, details string) {
	err := h.Audit.Record(r.Context(), user.CompanyID, user.UserID, action, "attendance", entityID, details,
		requestctx.GetRequestID(r.Context()), shared.ClientIP(r))
	if err != nil {
		slog.Warn("audit "+action+" failed", "err", err)
	}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
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

	records, err := h.Service.List(r.Context(), user.CompanyID, filter)
	if err != nil {
		failAttendance(w, r, err, "attendance_failed", "failed to list attendance")
		return
	}
	api.Success(w, records, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	rec, err := h.Service.Get(r.Context(), user.CompanyID, chi.URLParam(r, "id"))
	if err != nil {
		failAttendance(w, r, err, "attendance_failed", "failed to load attendance record")
		return
	}
	api.Success(w, rec, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload attendancePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	rec, ok := payload.validate(v)
	if !ok {
		shared.FailValidation(w, requestctx.GetRequestID(r.Context()), v.Issues())
		return
	}

	created, err := h.Service.Create(r.Context(), user.CompanyID, rec)
	if err != nil {
		failAttendance(w, r, err, "attendance_create_failed", "failed to record attendance")
		return
	}
	h.recordAudit(r, user, "attendance.create", created.ID, "recorded "+created.Status+" for "+created.Date.Format("2006-01-02"))
	api.Created(w, created, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload attendancePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	rec, ok := payload.validate(v)
	if !ok {
		shared.FailValidation(w, requestctx.GetRequestID(r.Context()), v.Issues())
		return
	}

	updated, err := h.Service.Update(r.Context(), user.CompanyID, chi.URLParam(r, "id"), rec)
	if err != nil {
		failAttendance(w, r, err, "attendance_update_failed", "failed to update attendance record")
		return
	}
	h.recordAudit(r, user, "attendance.update", updated.ID, "updated attendance for "+updated.Date.Format("2006-01-02"))
	api.Success(w, updated, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	id := chi.URLParam(r, "id")
	if err := h.Service.Delete(r.Context(), user.CompanyID, id); err != nil {
		failAttendance(w, r, err, "attendance_delete_failed", "failed to delete attendance record")
		return
	}
	h.recordAudit(r, user, "attendance.delete", id, "deleted attendance record")
	api.Success(w, map[string]string{"status": "deleted"}, requestctx.GetRequestID(r.Context()))
}
