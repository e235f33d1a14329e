package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/fluxocx/fluxo/internal/api/middleware"
	"github.com/fluxocx/fluxo/internal/domain"
	"github.com/fluxocx/fluxo/internal/service"
	"github.com/go-chi/chi/v5"
)

type CompanyHandler struct {
	svc *service.CompanyService
}

func NewCompanyHandler(svc *service.CompanyService) *CompanyHandler {
	return &CompanyHandler{svc: svc}
}

type createCompanyRequest struct {
	CNPJ      string `json:"cnpj"`
	LegalName string `json:"razao_social"`
}

func (h *CompanyHandler) Create(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantIDFromContext(r.Context())
	if tenantID == 0 {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "unauthorized", nil)
		return
	}

	var req createCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid request body", nil)
		return
	}

	company := &domain.Company{
		TenantID:  tenantID,
		CNPJ:      req.CNPJ,
		LegalName: req.LegalName,
	}

	if err := h.svc.Create(r.Context(), company); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCNPJ),
			errors.Is(err, service.ErrLegalNameRequired):
			writeError(w, http.StatusBadRequest, codeValidation, err.Error(), nil)
		case errors.Is(err, service.ErrCNPJTaken):
			writeError(w, http.StatusConflict, codeConflict, err.Error(), nil)
		default:
			handleServiceError(w, err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, company)
}

func (h *CompanyHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantIDFromContext(r.Context())
	if tenantID == 0 {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "unauthorized", nil)
		return
	}

	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid company id", nil)
		return
	}

	company, err := h.svc.GetByID(r.Context(), id, tenantID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, company)
}

func (h *CompanyHandler) List(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantIDFromContext(r.Context())
	if tenantID == 0 {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "unauthorized", nil)
		return
	}

	companies, err := h.svc.List(r.Context(), tenantID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if companies == nil {
		companies = []domain.Company{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": companies})
}

func parseID(raw string) (int64, error) {
	return strconv.ParseInt(raw, 10, 64)
}
