package handlers

import (
	"net/http"
	"strconv"

	"github.com/fluxocx/fluxo/internal/api/middleware"
	"github.com/fluxocx/fluxo/internal/service"
)

type ReportsHandler struct {
	svc *service.ReportsService
}

func NewReportsHandler(svc *service.ReportsService) *ReportsHandler {
	return &ReportsHandler{svc: svc}
}

// reportScope pulls the query parameters every report shares.
func reportScope(w http.ResponseWriter, r *http.Request) (tenantID, companyID int64, start, end string, ok bool) {
	tenantID = middleware.TenantIDFromContext(r.Context())
	if tenantID == 0 {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "unauthorized", nil)
		return 0, 0, "", "", false
	}

	q := r.URL.Query()
	companyID, err := parseID(q.Get("company_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "company_id is required", nil)
		return 0, 0, "", "", false
	}
	return tenantID, companyID, q.Get("start"), q.Get("end"), true
}

func (h *ReportsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	tenantID, companyID, start, end, ok := reportScope(w, r)
	if !ok {
		return
	}

	result, err := h.svc.Summary(r.Context(), tenantID, companyID, start, end)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *ReportsHandler) Daily(w http.ResponseWriter, r *http.Request) {
	tenantID, companyID, start, end, ok := reportScope(w, r)
	if !ok {
		return
	}

	result, err := h.svc.Daily(r.Context(), tenantID, companyID, start, end)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *ReportsHandler) Context(w http.ResponseWriter, r *http.Request) {
	tenantID, companyID, start, end, ok := reportScope(w, r)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	result, err := h.svc.Context(r.Context(), tenantID, companyID, start, end, limit)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *ReportsHandler) TopCategories(w http.ResponseWriter, r *http.Request) {
	tenantID, companyID, start, end, ok := reportScope(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	if q.Get("limit") == "" {
		limit = 5
	}

	result, err := h.svc.TopCategories(r.Context(), tenantID, companyID, start, end, q.Get("metric"), limit)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
