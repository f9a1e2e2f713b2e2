package eventshandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"staffhub/internal/domain/audit"
	"staffhub/internal/domain/auth"
	"staffhub/internal/domain/events"
	"staffhub/internal/requestctx"
	"staffhub/internal/transport/http/api"
	"staffhub/internal/transport/http/middleware"
	"staffhub/internal/transport/http/shared"
)

type Handler struct {
	Service *events.Service
	Audit   *audit.Service
}

func NewHandler(service *events.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/events", func(r chi.Router) {
		r.With(middleware.RequireRole(auth.RoleUser)).Get("/", h.handleList)
		r.With(middleware.RequireRole(auth.RoleHR)).Post("/", h.handleCreate)
		r.With(middleware.RequireRole(auth.RoleUser)).Get("/{id}", h.handleGet)
		r.With(middleware.RequireRole(auth.RoleHR)).Put("/{id}", h.handleUpdate)
		r.With(middleware.RequireRole(auth.RoleHR)).Delete("/{id}", h.handleDelete)
	})
}

type eventPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
}

func (p eventPayload) validate(v *shared.Validator) (events.Event, bool) {
	v.Required("title", p.Title, "title is required")
	v.Required("startDate", p.StartDate, "start date is required")
	v.Required("endDate", p.EndDate, "end date is required")

	e := events.Event{
		Title:       strings.TrimSpace(p.Title),
		Description: p.Description,
		StartTime:   strings.TrimSpace(p.StartTime),
		EndTime:     strings.TrimSpace(p.EndTime),
	}
	var startOK, endOK bool
	if p.StartDate != "" {
		e.StartDate, startOK = v.Date("startDate", p.StartDate)
	}
	if p.EndDate != "" {
		e.EndDate, endOK = v.Date("endDate", p.EndDate)
	}
	if startOK && endOK {
		v.DateOrder("startDate", e.StartDate, "endDate", e.EndDate)
	}
	return e, !v.HasIssues()
}

func failEvent(w http.ResponseWriter, r *http.Request, err error, fallbackCode, fallbackMsg string) {
	reqID := requestctx.GetRequestID(r.Context())
	switch {
	case errors.Is(err, events.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "event not found", reqID)
	case errors.Is(err, events.ErrCompanyMismatch):
		api.Fail(w, http.StatusForbidden, "forbidden", "event belongs to another company", reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, fallbackCode, fallbackMsg, reqID)
	}
}

func (h *Handler) recordAudit(r *http.Request, user auth.UserContext, action, entityID, details string) {
	err := h.Audit.Record(r.Context(), user.CompanyID, user.UserID, action, "event", entityID, details,
		requestctx.GetRequestID(r.Context()), shared.ClientIP(r))
	if err != nil {
		slog.Warn("audit "+action+" failed", "err", err)
	}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	list, err := h.Service.List(r.Context(), user.CompanyID)
	if err != nil {
		failEvent(w, r, err, "events_failed", "failed to list events")
		return
	}
	api.Success(w, list, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	event, err := h.Service.Get(r.Context(), user.CompanyID, chi.URLParam(r, "id"))
	if err != nil {
		failEvent(w, r, err, "event_failed", "failed to load event")
		return
	}
	api.Success(w, event, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload eventPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	event, ok := payload.validate(v)
	if !ok {
		shared.FailValidation(w, requestctx.GetRequestID(r.Context()), v.Issues())
		return
	}

	created, err := h.Service.Create(r.Context(), user.CompanyID, user.UserID, event)
	if err != nil {
		failEvent(w, r, err, "event_create_failed", "failed to create event")
		return
	}
	h.recordAudit(r, user, "event.create", created.ID, "created event "+created.Title)
	api.Created(w, created, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload eventPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	event, ok := payload.validate(v)
	if !ok {
		shared.FailValidation(w, requestctx.GetRequestID(r.Context()), v.Issues())
		return
	}

	updated, err := h.Service.Update(r.Context(), user.CompanyID, chi.URLParam(r, "id"), event)
	if err != nil {
		failEvent(w, r, err, "event_update_failed", "failed to update event")
		return
	}
	h.recordAudit(r, user, "event.update", updated.ID, "updated event "+updated.Title)
	api.Success(w, updated, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	id := chi.URLParam(r, "id")
	if err := h.Service.Delete(r.Context(), user.CompanyID, id); err != nil {
		failEvent(w, r, err, "event_delete_failed", "failed to delete event")
		return
	}
	h.recordAudit(r, user, "event.delete", id, "deleted event")
	api.Success(w, map[string]string{"status": "deleted"}, requestctx.GetRequestID(r.Context()))
}
