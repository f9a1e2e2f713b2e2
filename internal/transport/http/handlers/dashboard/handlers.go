package dashboardhandler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"staffhub/internal/domain/audit"
	"staffhub/internal/domain/auth"
	"staffhub/internal/domain/dashboard"
	"staffhub/internal/requestctx"
	"staffhub/internal/transport/http/api"
	"staffhub/internal/transport/http/middleware"
)

type Handler struct {
	Service *dashboard.Service
	Audit   *audit.Service
}

func NewHandler(service *dashboard.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/dashboard", func(r chi.Router) {
		r.Use(middleware.RequireRole(auth.RoleUser))
		r.Get("/stats", h.handleStats)
		r.Get("/department-distribution", h.handleDepartmentDistribution)
		r.Get("/recent-employees", h.handleRecentEmployees)
		r.Get("/activities", h.handleActivities)
	})
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	stats, err := h.Service.Stats(r.Context(), user.CompanyID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "stats_failed", "failed to compute dashboard stats", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, stats, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleDepartmentDistribution(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	shares, err := h.Service.DepartmentDistribution(r.Context(), user.CompanyID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "distribution_failed", "failed to compute department distribution", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, shares, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleRecentEmployees(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	limit := 5
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 50 {
			limit = v
		}
	}
	recent, err := h.Service.RecentEmployees(r.Context(), user.CompanyID, limit)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "recent_employees_failed", "failed to list recent employees", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, recent, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleActivities(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}
	entries, err := h.Audit.Recent(r.Context(), user.CompanyID, limit)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "activities_failed", "failed to list recent activity", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, entries, requestctx.GetRequestID(r.Context()))
}
