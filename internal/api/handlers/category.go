package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fluxocx/fluxo/internal/api/middleware"
	"github.com/fluxocx/fluxo/internal/domain"
	"github.com/fluxocx/fluxo/internal/service"
)

type CategoryHandler struct {
	svc *service.CategoryService
}

func NewCategoryHandler(svc *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

type createCategoryRequest struct {
	Name string `json:"name"`
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantIDFromContext(r.Context())
	if tenantID == 0 {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "unauthorized", nil)
		return
	}

	var req createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid request body", nil)
		return
	}

	category := &domain.Category{TenantID: tenantID, Name: req.Name}

	if err := h.svc.Create(r.Context(), category); err != nil {
		switch {
		case errors.Is(err, service.ErrCategoryNameRequired):
			writeError(w, http.StatusBadRequest, codeValidation, err.Error(), nil)
		case errors.Is(err, service.ErrCategoryExists):
			writeError(w, http.StatusConflict, codeConflict, err.Error(), nil)
		default:
			handleServiceError(w, err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, category)
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantIDFromContext(r.Context())
	if tenantID == 0 {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "unauthorized", nil)
		return
	}

	categories, err := h.svc.List(r.Context(), tenantID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if categories == nil {
		categories = []domain.Category{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": categories})
}
