package payroll

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/attest-hq/attest/pkg/handlers"
	"github.com/attest-hq/attest/pkg/pagination"
	"github.com/attest-hq/attest/pkg/routes"
)

// Handler provides HTTP endpoints for payroll reconciliation operations.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// SearchRequest combines pagination and filter criteria for the search endpoint.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(
	sys System,
	logger *slog.Logger,
	pagination pagination.Config,
) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "payroll"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for payroll endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/payroll",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/employees", Handler: h.List},
			{Method: "GET", Pattern: "/employees/{id}", Handler: h.Find},
			{Method: "POST", Pattern: "/employees/search", Handler: h.Search},
			{Method: "GET", Pattern: "/variance/{employeeId}/{payrunId}", Handler: h.Variance},
			{Method: "POST", Pattern: "/reconcile/{employeeId}/{payrunId}", Handler: h.Reconcile},
			{Method: "GET", Pattern: "/variances/{payrunId}", Handler: h.Variances},
			{Method: "GET", Pattern: "/explanations", Handler: h.ListExplanations},
			{Method: "POST", Pattern: "/explanations", Handler: h.CreateExplanation},
		},
	}
}

// List returns a paginated list of employee audit records with optional
// query parameter filters. Timesheet and payslip lines are not included.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns a single employee audit record, with timesheet and payslip
// lines loaded, by its employee ID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	rec, err := h.sys.Find(r.Context(), r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, rec)
}

// Search accepts a JSON body with pagination and filter criteria and
// returns matching employee audit records.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	req.PageRequest.Normalize(h.pagination)

	result, err := h.sys.List(r.Context(), req.PageRequest, req.Filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Variance derives the reconciliation result for an employee and payrun
// without persisting it.
func (h *Handler) Variance(w http.ResponseWriter, r *http.Request) {
	v, err := h.sys.Variance(r.Context(), r.PathValue("employeeId"), r.PathValue("payrunId"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, v)
}

// Reconcile derives and persists the variance snapshot for an employee and
// payrun, raising findings for detected exceptions.
func (h *Handler) Reconcile(w http.ResponseWriter, r *http.Request) {
	v, err := h.sys.Reconcile(r.Context(), r.PathValue("employeeId"), r.PathValue("payrunId"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, v)
}

// Variances returns the persisted variance snapshots for a payrun.
func (h *Handler) Variances(w http.ResponseWriter, r *http.Request) {
	items, err := h.sys.Variances(r.Context(), r.PathValue("payrunId"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, items)
}

// CreateExplanation records an immutable variance explanation by decoding
// an ExplanationCommand JSON body. Returns 201 on success.
func (h *Handler) CreateExplanation(w http.ResponseWriter, r *http.Request) {
	var cmd ExplanationCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	ve, err := h.sys.CreateExplanation(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, ve)
}

// ListExplanations returns a paginated list of variance explanations with
// optional query parameter filters.
func (h *Handler) ListExplanations(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := ExplanationFiltersFromQuery(r.URL.Query())

	result, err := h.sys.ListExplanations(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
