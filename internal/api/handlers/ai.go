package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/fluxocx/fluxo/internal/api/middleware"
	"github.com/fluxocx/fluxo/internal/service"
	"go.uber.org/zap"
)

type AIHandler struct {
	suggest *service.SuggestService
	consult *service.ConsultService
	isProd  bool
	logger  *zap.Logger
}

func NewAIHandler(suggest *service.SuggestService, consult *service.ConsultService, isProd bool, logger *zap.Logger) *AIHandler {
	return &AIHandler{suggest: suggest, consult: consult, isProd: isProd, logger: logger}
}

func (h *AIHandler) SuggestCategories(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantIDFromContext(r.Context())
	if tenantID == 0 {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "unauthorized", nil)
		return
	}

	q := r.URL.Query()
	companyID, err := parseID(q.Get("company_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "company_id is required", nil)
		return
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	includeNoMatch, _ := strconv.ParseBool(q.Get("include_no_match"))

	result, err := h.suggest.Suggest(r.Context(), tenantID, companyID, q.Get("start"), q.Get("end"), limit, includeNoMatch)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type applySuggestionsRequest struct {
	CompanyID int64  `json:"company_id"`
	Start     string `json:"start,omitempty"`
	End       string `json:"end,omitempty"`
	Limit     int    `json:"limit,omitempty"`
	DryRun    bool   `json:"dry_run,omitempty"`
}

func (h *AIHandler) ApplySuggestions(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantIDFromContext(r.Context())
	if tenantID == 0 {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "unauthorized", nil)
		return
	}

	var req applySuggestionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid request body", nil)
		return
	}

	result, err := h.suggest.Apply(r.Context(), tenantID, req.CompanyID, req.Start, req.End, req.Limit, req.DryRun)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type consultRequest struct {
	CompanyID int64  `json:"company_id"`
	Start     string `json:"start,omitempty"`
	End       string `json:"end,omitempty"`
	Limit     int    `json:"limit,omitempty"`
	Question  string `json:"question,omitempty"`
}

// Consult runs the diagnostics pipeline. Internal failures come back under a
// stable code; the trace excerpt is attached outside production only.
func (h *AIHandler) Consult(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantIDFromContext(r.Context())
	if tenantID == 0 {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "unauthorized", nil)
		return
	}

	var req consultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid request body", nil)
		return
	}

	result, err := h.consult.Consult(r.Context(), tenantID, req.CompanyID, req.Start, req.End, req.Limit, req.Question)
	if err != nil {
		var diagErr *service.DiagnosticsError
		if errors.As(err, &diagErr) {
			h.logger.Error("consult failed",
				zap.Int64("tenant_id", tenantID),
				zap.Int64("company_id", req.CompanyID),
				zap.Error(diagErr.Err),
			)
			extra := map[string]any{}
			if !h.isProd {
				extra["trace"] = diagErr.Trace
			}
			writeError(w, http.StatusInternalServerError, diagErr.Code, "diagnostics pipeline failed", extra)
			return
		}
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
