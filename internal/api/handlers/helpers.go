package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fluxocx/fluxo/internal/domain"
	"github.com/fluxocx/fluxo/internal/service"
)

// Stable error codes surfaced to clients.
const (
	codeUnauthorized  = "UNAUTHORIZED"
	codeForbidden     = "FORBIDDEN"
	codeNotFound      = "NOT_FOUND"
	codeConflict      = "CONFLICT"
	codeValidation    = "VALIDATION_ERROR"
	codeInvalidDate   = "INVALID_DATE"
	codeInvalidPeriod = "INVALID_PERIOD"
	codeInvalidMetric = "INVALID_METRIC"
	codeTooManyItems  = "TOO_MANY_ITEMS"
	codeConsultFailed = "AI_CONSULT_FAILED"
	codeInternal      = "INTERNAL_ERROR"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError emits the uniform error envelope: {error_code, message, ...extra}.
func writeError(w http.ResponseWriter, status int, code, msg string, extra map[string]any) {
	body := map[string]any{
		"error_code": code,
		"message":    msg,
	}
	for k, v := range extra {
		body[k] = v
	}
	writeJSON(w, status, body)
}

// handleServiceError maps cross-cutting service and domain errors to HTTP
// responses. Handlers call it in their default branch so typed period,
// metric and batch errors behave identically on every route.
func handleServiceError(w http.ResponseWriter, err error) {
	var dateErr *domain.InvalidDateError
	var periodErr *domain.InvalidPeriodError
	var metricErr *domain.InvalidMetricError
	var tooMany *domain.TooManyItemsError
	var diagErr *service.DiagnosticsError

	switch {
	case errors.As(err, &dateErr):
		writeError(w, http.StatusBadRequest, codeInvalidDate, dateErr.Error(), map[string]any{
			"field": dateErr.Field,
			"value": dateErr.Value,
		})
	case errors.As(err, &periodErr):
		writeError(w, http.StatusBadRequest, codeInvalidPeriod, periodErr.Error(), nil)
	case errors.As(err, &metricErr):
		writeError(w, http.StatusBadRequest, codeInvalidMetric, metricErr.Error(), map[string]any{
			"value": metricErr.Value,
		})
	case errors.As(err, &tooMany):
		writeError(w, http.StatusBadRequest, codeTooManyItems, tooMany.Error(), map[string]any{
			"count": tooMany.Count,
			"limit": domain.MaxBulkItems,
		})
	case errors.As(err, &diagErr):
		writeError(w, http.StatusInternalServerError, codeConsultFailed, "diagnostics pipeline failed", nil)
	case errors.Is(err, service.ErrCompanyNotFound),
		errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrTransactionNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, err.Error(), nil)
	default:
		writeError(w, http.StatusInternalServerError, codeInternal, "internal error", nil)
	}
}
