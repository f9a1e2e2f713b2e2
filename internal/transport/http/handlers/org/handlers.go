package orghandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"staffhub/internal/domain/audit"
	"staffhub/internal/domain/auth"
	"staffhub/internal/domain/org"
	"staffhub/internal/requestctx"
	"staffhub/internal/transport/http/api"
	"staffhub/internal/transport/http/middleware"
	"staffhub/internal/transport/http/shared"
)

type Handler struct {
	Service *org.Service
	Audit   *audit.Service
}

func NewHandler(service *org.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	writeGate := middleware.RequireRole(auth.RoleHR)
	deleteGate := middleware.RequireRole(auth.RoleAdmin)
	readGate := middleware.RequireRole(auth.RoleUser)

	r.Route("/departments", func(r chi.Router) {
		r.With(readGate).Get("/", h.handleListDepartments)
		r.With(writeGate).Post("/", h.handleCreateDepartment)
		r.With(readGate).Get("/{id}", h.handleGetDepartment)
		r.With(writeGate).Put("/{id}", h.handleUpdateDepartment)
		r.With(deleteGate).Delete("/{id}", h.handleDeleteDepartment)
	})

	r.Route("/designations", func(r chi.Router) {
		r.With(readGate).Get("/", h.handleListDesignations)
		r.With(writeGate).Post("/", h.handleCreateDesignation)
		r.With(readGate).Get("/{id}", h.handleGetDesignation)
		r.With(writeGate).Put("/{id}", h.handleUpdateDesignation)
		r.With(deleteGate).Delete("/{id}", h.handleDeleteDesignation)
	})

	r.Route("/employee-types", func(r chi.Router) {
		r.With(readGate).Get("/", h.handleListEmployeeTypes)
		r.With(writeGate).Post("/", h.handleCreateEmployeeType)
		r.With(readGate).Get("/{id}", h.handleGetEmployeeType)
		r.With(writeGate).Put("/{id}", h.handleUpdateEmployeeType)
		r.With(deleteGate).Delete("/{id}", h.handleDeleteEmployeeType)
	})

	r.Route("/shifts", func(r chi.Router) {
		r.With(readGate).Get("/", h.handleListShifts)
		r.With(writeGate).Post("/", h.handleCreateShift)
		r.With(readGate).Get("/{id}", h.handleGetShift)
		r.With(writeGate).Put("/{id}", h.handleUpdateShift)
		r.With(deleteGate).Delete("/{id}", h.handleDeleteShift)
	})

	r.Route("/locations", func(r chi.Router) {
		r.With(readGate).Get("/", h.handleListLocations)
		r.With(writeGate).Post("/", h.handleCreateLocation)
		r.With(readGate).Get("/{id}", h.handleGetLocation)
		r.With(writeGate).Put("/{id}", h.handleUpdateLocation)
		r.With(deleteGate).Delete("/{id}", h.handleDeleteLocation)
	})

	r.Route("/org-chart", func(r chi.Router) {
		r.With(readGate).Get("/", h.handleChartTree)
		r.With(readGate).Get("/nodes", h.handleListChartNodes)
		r.With(writeGate).Post("/nodes", h.handleCreateChartNode)
		r.With(readGate).Get("/nodes/{id}", h.handleGetChartNode)
		r.With(writeGate).Put("/nodes/{id}", h.handleUpdateChartNode)
		r.With(deleteGate).Delete("/nodes/{id}", h.handleDeleteChartNode)
	})
}

// failOrg maps the org domain errors onto the API envelope.
func failOrg(w http.ResponseWriter, r *http.Request, err error, fallbackCode, fallbackMsg string) {
	reqID := requestctx.GetRequestID(r.Context())
	switch {
	case errors.Is(err, org.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "resource not found", reqID)
	case errors.Is(err, org.ErrCompanyMismatch):
		api.Fail(w, http.StatusForbidden, "forbidden", "resource belongs to another company", reqID)
	case errors.Is(err, org.ErrConflict):
		api.Fail(w, http.StatusBadRequest, "conflict", err.Error(), reqID)
	case errors.Is(err, org.ErrBadReference):
		api.Fail(w, http.StatusBadRequest, "reference_error", err.Error(), reqID)
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

type departmentPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *Handler) handleListDepartments(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	departments, err := h.Service.ListDepartments(r.Context(), user.CompanyID)
	if err != nil {
		failOrg(w, r, err, "departments_failed", "failed to list departments")
		return
	}
	api.Success(w, departments, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleGetDepartment(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	department, err := h.Service.GetDepartment(r.Context(), user.CompanyID, chi.URLParam(r, "id"))
	if err != nil {
		failOrg(w, r, err, "department_failed", "failed to load department")
		return
	}
	api.Success(w, department, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateDepartment(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload departmentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	if v.Reject(w, requestctx.GetRequestID(r.Context())) {
		return
	}

	department, err := h.Service.CreateDepartment(r.Context(), user.CompanyID, strings.TrimSpace(payload.Name), payload.Description)
	if err != nil {
		failOrg(w, r, err, "department_create_failed", "failed to create department")
		return
	}
	h.recordAudit(r, user, "department.create", "department", department.ID, "created department "+department.Name)
	api.Created(w, department, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateDepartment(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload departmentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	if v.Reject(w, requestctx.GetRequestID(r.Context())) {
		return
	}

	department, err := h.Service.UpdateDepartment(r.Context(), user.CompanyID, chi.URLParam(r, "id"), strings.TrimSpace(payload.Name), payload.Description)
	if err != nil {
		failOrg(w, r, err, "department_update_failed", "failed to update department")
		return
	}
	h.recordAudit(r, user, "department.update", "department", department.ID, "updated department "+department.Name)
	api.Success(w, department, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteDepartment(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	id := chi.URLParam(r, "id")
	if err := h.Service.DeleteDepartment(r.Context(), user.CompanyID, id); err != nil {
		failOrg(w, r, err, "department_delete_failed", "failed to delete department")
		return
	}
	h.recordAudit(r, user, "department.delete", "department", id, "deleted department")
	api.Success(w, map[string]string{"status": "deleted"}, requestctx.GetRequestID(r.Context()))
}

type designationPayload struct {
	DepartmentID string `json:"departmentId"`
	Name         string `json:"name"`
}

func (h *Handler) handleListDesignations(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	designations, err := h.Service.ListDesignations(r.Context(), user.CompanyID)
	if err != nil {
		failOrg(w, r, err, "designations_failed", "failed to list designations")
		return
	}
	api.Success(w, designations, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleGetDesignation(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	designation, err := h.Service.GetDesignation(r.Context(), user.CompanyID, chi.URLParam(r, "id"))
	if err != nil {
		failOrg(w, r, err, "designation_failed", "failed to load designation")
		return
	}
	api.Success(w, designation, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateDesignation(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload designationPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	v.Required("departmentId", payload.DepartmentID, "department is required")
	if v.Reject(w, requestctx.GetRequestID(r.Context())) {
		return
	}

	designation, err := h.Service.CreateDesignation(r.Context(), user.CompanyID, payload.DepartmentID, strings.TrimSpace(payload.Name))
	if err != nil {
		failOrg(w, r, err, "designation_create_failed", "failed to create designation")
		return
	}
	h.recordAudit(r, user, "designation.create", "designation", designation.ID, "created designation "+designation.Name)
	api.Created(w, designation, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateDesignation(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload designationPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	v.Required("departmentId", payload.DepartmentID, "department is required")
	if v.Reject(w, requestctx.GetRequestID(r.Context())) {
		return
	}

	designation, err := h.Service.UpdateDesignation(r.Context(), user.CompanyID, chi.URLParam(r, "id"), payload.DepartmentID, strings.TrimSpace(payload.Name))
	if err != nil {
		failOrg(w, r, err, "designation_update_failed", "failed to update designation")
		return
	}
	h.recordAudit(r, user, "designation.update", "designation", designation.ID, "updated designation "+designation.Name)
	api.Success(w, designation, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteDesignation(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	id := chi.URLParam(r, "id")
	if err := h.Service.DeleteDesignation(r.Context(), user.CompanyID, id); err != nil {
		failOrg(w, r, err, "designation_delete_failed", "failed to delete designation")
		return
	}
	h.recordAudit(r, user, "designation.delete", "designation", id, "deleted designation")
	api.Success(w, map[string]string{"status": "deleted"}, requestctx.GetRequestID(r.Context()))
}

type namePayload struct {
	Name string `json:"name"`
}

func (h *Handler) handleListEmployeeTypes(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	types, err := h.Service.ListEmployeeTypes(r.Context(), user.CompanyID)
	if err != nil {
		failOrg(w, r, err, "employee_types_failed", "failed to list employee types")
		return
	}
	api.Success(w, types, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleGetEmployeeType(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	typ, err := h.Service.GetEmployeeType(r.Context(), user.CompanyID, chi.URLParam(r, "id"))
	if err != nil {
		failOrg(w, r, err, "employee_type_failed", "failed to load employee type")
		return
	}
	api.Success(w, typ, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateEmployeeType(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload namePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	if v.Reject(w, requestctx.GetRequestID(r.Context())) {
		return
	}

	typ, err := h.Service.CreateEmployeeType(r.Context(), user.CompanyID, strings.TrimSpace(payload.Name))
	if err != nil {
		failOrg(w, r, err, "employee_type_create_failed", "failed to create employee type")
		return
	}
	h.recordAudit(r, user, "employee_type.create", "employee_type", typ.ID, "created employee type "+typ.Name)
	api.Created(w, typ, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateEmployeeType(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload namePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	if v.Reject(w, requestctx.GetRequestID(r.Context())) {
		return
	}

	typ, err := h.Service.UpdateEmployeeType(r.Context(), user.CompanyID, chi.URLParam(r, "id"), strings.TrimSpace(payload.Name))
	if err != nil {
		failOrg(w, r, err, "employee_type_update_failed", "failed to update employee type")
		return
	}
	h.recordAudit(r, user, "employee_type.update", "employee_type", typ.ID, "updated employee type "+typ.Name)
	api.Success(w, typ, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteEmployeeType(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	id := chi.URLParam(r, "id")
	if err := h.Service.DeleteEmployeeType(r.Context(), user.CompanyID, id); err != nil {
		failOrg(w, r, err, "employee_type_delete_failed", "failed to delete employee type")
		return
	}
	h.recordAudit(r, user, "employee_type.delete", "employee_type", id, "deleted employee type")
	api.Success(w, map[string]string{"status": "deleted"}, requestctx.GetRequestID(r.Context()))
}

type shiftPayload struct {
	Name      string `json:"name"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

func (h *Handler) handleListShifts(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	shifts, err := h.Service.ListShifts(r.Context(), user.CompanyID)
	if err != nil {
		failOrg(w, r, err, "shifts_failed", "failed to list shifts")
		return
	}
	api.Success(w, shifts, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleGetShift(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	shift, err := h.Service.GetShift(r.Context(), user.CompanyID, chi.URLParam(r, "id"))
	if err != nil {
		failOrg(w, r, err, "shift_failed", "failed to load shift")
		return
	}
	api.Success(w, shift, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateShift(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload shiftPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	v.Required("startTime", payload.StartTime, "start time is required")
	v.Required("endTime", payload.EndTime, "end time is required")
	if v.Reject(w, requestctx.GetRequestID(r.Context())) {
		return
	}

	shift, err := h.Service.CreateShift(r.Context(), user.CompanyID, strings.TrimSpace(payload.Name), payload.StartTime, payload.EndTime)
	if err != nil {
		failOrg(w, r, err, "shift_create_failed", "failed to create shift")
		return
	}
	h.recordAudit(r, user, "shift.create", "shift", shift.ID, "created shift "+shift.Name)
	api.Created(w, shift, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateShift(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload shiftPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	v.Required("startTime", payload.StartTime, "start time is required")
	v.Required("endTime", payload.EndTime, "end time is required")
	if v.Reject(w, requestctx.GetRequestID(r.Context())) {
		return
	}

	shift, err := h.Service.UpdateShift(r.Context(), user.CompanyID, chi.URLParam(r, "id"), strings.TrimSpace(payload.Name), payload.StartTime, payload.EndTime)
	if err != nil {
		failOrg(w, r, err, "shift_update_failed", "failed to update shift")
		return
	}
	h.recordAudit(r, user, "shift.update", "shift", shift.ID, "updated shift "+shift.Name)
	api.Success(w, shift, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteShift(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	id := chi.URLParam(r, "id")
	if err := h.Service.DeleteShift(r.Context(), user.CompanyID, id); err != nil {
		failOrg(w, r, err, "shift_delete_failed", "failed to delete shift")
		return
	}
	h.recordAudit(r, user, "shift.delete", "shift", id, "deleted shift")
	api.Success(w, map[string]string{"status": "deleted"}, requestctx.GetRequestID(r.Context()))
}

type locationPayload struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

func (h *Handler) handleListLocations(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	locations, err := h.Service.ListLocations(r.Context(), user.CompanyID)
	if err != nil {
		failOrg(w, r, err, "locations_failed", "failed to list locations")
		return
	}
	api.Success(w, locations, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleGetLocation(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	location, err := h.Service.GetLocation(r.Context(), user.CompanyID, chi.URLParam(r, "id"))
	if err != nil {
		failOrg(w, r, err, "location_failed", "failed to load location")
		return
	}
	api.Success(w, location, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateLocation(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload locationPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	if v.Reject(w, requestctx.GetRequestID(r.Context())) {
		return
	}

	location, err := h.Service.CreateLocation(r.Context(), user.CompanyID, strings.TrimSpace(payload.Name), payload.Address)
	if err != nil {
		failOrg(w, r, err, "location_create_failed", "failed to create location")
		return
	}
	h.recordAudit(r, user, "location.create", "location", location.ID, "created location "+location.Name)
	api.Created(w, location, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateLocation(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload locationPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	if v.Reject(w, requestctx.GetRequestID(r.Context())) {
		return
	}

	location, err := h.Service.UpdateLocation(r.Context(), user.CompanyID, chi.URLParam(r, "id"), strings.TrimSpace(payload.Name), payload.Address)
	if err != nil {
		failOrg(w, r, err, "location_update_failed", "failed to update location")
		return
	}
	h.recordAudit(r, user, "location.update", "location", location.ID, "updated location "+location.Name)
	api.Success(w, location, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteLocation(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	id := chi.URLParam(r, "id")
	if err := h.Service.DeleteLocation(r.Context(), user.CompanyID, id); err != nil {
		failOrg(w, r, err, "location_delete_failed", "failed to delete location")
		return
	}
	h.recordAudit(r, user, "location.delete", "location", id, "deleted location")
	api.Success(w, map[string]string{"status": "deleted"}, requestctx.GetRequestID(r.Context()))
}

type chartNodePayload struct {
	Name       string `json:"name"`
	Title      string `json:"title"`
	Level      int    `json:"level"`
	Order      int    `json:"order"`
	ParentID   string `json:"parentId"`
	EmployeeID string `json:"employeeId"`
}

func (p chartNodePayload) toNode() org.ChartNode {
	return org.ChartNode{
		Name:       strings.TrimSpace(p.Name),
		Title:      strings.TrimSpace(p.Title),
		Level:      p.Level,
		Order:      p.Order,
		ParentID:   p.ParentID,
		EmployeeID: p.EmployeeID,
	}
}

func (h *Handler) handleChartTree(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	tree, err := h.Service.ChartTree(r.Context(), user.CompanyID)
	if err != nil {
		failOrg(w, r, err, "org_chart_failed", "failed to load org chart")
		return
	}
	api.Success(w, tree, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleListChartNodes(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	nodes, err := h.Service.ListChartNodes(r.Context(), user.CompanyID)
	if err != nil {
		failOrg(w, r, err, "org_chart_failed", "failed to list org chart nodes")
		return
	}
	api.Success(w, nodes, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleGetChartNode(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	node, err := h.Service.GetChartNode(r.Context(), user.CompanyID, chi.URLParam(r, "id"))
	if err != nil {
		failOrg(w, r, err, "org_chart_node_failed", "failed to load org chart node")
		return
	}
	api.Success(w, node, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateChartNode(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload chartNodePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	if v.Reject(w, requestctx.GetRequestID(r.Context())) {
		return
	}

	node, err := h.Service.CreateChartNode(r.Context(), user.CompanyID, payload.toNode())
	if err != nil {
		failOrg(w, r, err, "org_chart_node_create_failed", "failed to create org chart node")
		return
	}
	h.recordAudit(r, user, "org_chart.create", "org_chart_node", node.ID, "created chart node "+node.Name)
	api.Created(w, node, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateChartNode(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload chartNodePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	if v.Reject(w, requestctx.GetRequestID(r.Context())) {
		return
	}

	node, err := h.Service.UpdateChartNode(r.Context(), user.CompanyID, chi.URLParam(r, "id"), payload.toNode())
	if err != nil {
		failOrg(w, r, err, "org_chart_node_update_failed", "failed to update org chart node")
		return
	}
	h.recordAudit(r, user, "org_chart.update", "org_chart_node", node.ID, "updated chart node "+node.Name)
	api.Success(w, node, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteChartNode(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	id := chi.URLParam(r, "id")
	if err := h.Service.DeleteChartNode(r.Context(), user.CompanyID, id); err != nil {
		failOrg(w, r, err, "org_chart_node_delete_failed", "failed to delete org chart node")
		return
	}
	h.recordAudit(r, user, "org_chart.delete", "org_chart_node", id, "deleted chart node")
	api.Success(w, map[string]string{"status": "deleted"}, requestctx.GetRequestID(r.Context()))
}
