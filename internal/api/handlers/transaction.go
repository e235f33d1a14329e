package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/fluxocx/fluxo/internal/api/middleware"
	"github.com/fluxocx/fluxo/internal/domain"
	"github.com/fluxocx/fluxo/internal/service"
	"github.com/go-chi/chi/v5"
)

type TransactionHandler struct {
	svc *service.TransactionService
}

func NewTransactionHandler(svc *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{svc: svc}
}

type createTransactionRequest struct {
	CompanyID   int64   `json:"company_id"`
	Kind        string  `json:"kind"`
	AmountCents int64   `json:"amount_cents"`
	Description string  `json:"description"`
	CategoryID  *int64  `json:"category_id,omitempty"`
	OccurredAt  *string `json:"occurred_at,omitempty"`
}

func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantIDFromContext(r.Context())
	if tenantID == 0 {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "unauthorized", nil)
		return
	}

	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid request body", nil)
		return
	}

	tx := &domain.Transaction{
		TenantID:    tenantID,
		CompanyID:   req.CompanyID,
		CategoryID:  req.CategoryID,
		Kind:        domain.TransactionKind(req.Kind),
		AmountCents: req.AmountCents,
		Description: req.Description,
	}
	if req.OccurredAt != nil {
		t, err := time.Parse(time.RFC3339, *req.OccurredAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeValidation, "invalid occurred_at", map[string]any{
				"value": *req.OccurredAt,
			})
			return
		}
		utc := t.UTC()
		tx.OccurredAt = &utc
	}

	if err := h.svc.Create(r.Context(), tx); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidKind),
			errors.Is(err, service.ErrInvalidAmount),
			errors.Is(err, service.ErrDescriptionTooLong):
			writeError(w, http.StatusBadRequest, codeValidation, err.Error(), nil)
		default:
			handleServiceError(w, err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, tx)
}

func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantIDFromContext(r.Context())
	if tenantID == 0 {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "unauthorized", nil)
		return
	}

	companyID, err := parseID(r.URL.Query().Get("company_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "company_id is required", nil)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	items, err := h.svc.List(r.Context(), tenantID, companyID, limit)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if items == nil {
		items = []domain.Transaction{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *TransactionHandler) Uncategorized(w http.ResponseWriter, r *http.Request) {
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
	offset, _ := strconv.Atoi(q.Get("offset"))

	items, period, err := h.svc.Uncategorized(r.Context(), tenantID, companyID,
		q.Get("start"), q.Get("end"), limit, offset, time.Now().UTC())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if items == nil {
		items = []domain.TransactionBrief{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"company_id": companyID,
		"period":     period,
		"items":      items,
	})
}

type setCategoryRequest struct {
	CompanyID  int64  `json:"company_id"`
	CategoryID *int64 `json:"category_id"`
}

func (h *TransactionHandler) SetCategory(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantIDFromContext(r.Context())
	if tenantID == 0 {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "unauthorized", nil)
		return
	}

	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid transaction id", nil)
		return
	}

	var req setCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid request body", nil)
		return
	}

	tx, err := h.svc.SetCategory(r.Context(), id, tenantID, req.CompanyID, req.CategoryID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tx)
}

type bulkCategorizeRequest struct {
	CompanyID int64             `json:"company_id"`
	Items     []domain.BulkItem `json:"items"`
}

func (h *TransactionHandler) BulkCategorize(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantIDFromContext(r.Context())
	if tenantID == 0 {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "unauthorized", nil)
		return
	}

	var req bulkCategorizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid request body", nil)
		return
	}

	result, err := h.svc.BulkCategorize(r.Context(), tenantID, req.CompanyID, req.Items)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
