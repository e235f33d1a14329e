package service

import (
	"context"
	"errors"
	"strings"

	"github.com/fluxocx/fluxo/internal/domain"
	"github.com/fluxocx/fluxo/internal/store"
)

var (
	ErrCompanyNotFound   = errors.New("company not found")
	ErrCNPJTaken         = errors.New("cnpj already registered")
	ErrInvalidCNPJ       = errors.New("cnpj must be exactly 14 digits")
	ErrLegalNameRequired = errors.New("razao_social is required")
)

type CompanyService struct {
	companies domain.CompanyStore
}

func NewCompanyService(companies domain.CompanyStore) *CompanyService {
	return &CompanyService{companies: companies}
}

func (s *CompanyService) Create(ctx context.Context, c *domain.Company) error {
	c.CNPJ = strings.TrimSpace(c.CNPJ)
	c.LegalName = strings.TrimSpace(c.LegalName)

	if !domain.ValidCNPJ(c.CNPJ) {
		return ErrInvalidCNPJ
	}
	if c.LegalName == "" {
		return ErrLegalNameRequired
	}

	if err := s.companies.Create(ctx, c); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return ErrCNPJTaken
		}
		return err
	}
	return nil
}

func (s *CompanyService) GetByID(ctx context.Context, id int64, tenantID int64) (*domain.Company, error) {
	c, err := s.companies.GetByID(ctx, id, tenantID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, err
	}
	return c, nil
}

func (s *CompanyService) List(ctx context.Context, tenantID int64) ([]domain.Company, error) {
	return s.companies.List(ctx, tenantID)
}
