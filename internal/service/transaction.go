package service

import (
	"context"
	"errors"
	"time"

	"github.com/fluxocx/fluxo/internal/domain"
	"github.com/fluxocx/fluxo/internal/store"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidKind         = errors.New("kind must be 'in' or 'out'")
	ErrInvalidAmount       = errors.New("amount_cents must be a positive integer")
	ErrDescriptionTooLong  = errors.New("description exceeds maximum length")
)

type TransactionService struct {
	txs        domain.TransactionStore
	companies  domain.CompanyStore
	categories domain.CategoryStore
}

func NewTransactionService(txs domain.TransactionStore, companies domain.CompanyStore, categories domain.CategoryStore) *TransactionService {
	return &TransactionService{txs: txs, companies: companies, categories: categories}
}

func (s *TransactionService) Create(ctx context.Context, t *domain.Transaction) error {
	if !domain.ValidTransactionKind(string(t.Kind)) {
		return ErrInvalidKind
	}
	if t.AmountCents <= 0 {
		return ErrInvalidAmount
	}
	if len(t.Description) > domain.MaxDescriptionLen {
		return ErrDescriptionTooLong
	}

	if _, err := s.companies.GetByID(ctx, t.CompanyID, t.TenantID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrCompanyNotFound
		}
		return err
	}

	if t.CategoryID != nil {
		if _, err := s.categories.GetByID(ctx, *t.CategoryID, t.TenantID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrCategoryNotFound
			}
			return err
		}
	}

	if t.OccurredAt == nil {
		now := time.Now().UTC()
		t.OccurredAt = &now
	}

	return s.txs.Create(ctx, t)
}

func (s *TransactionService) List(ctx context.Context, tenantID, companyID int64, limit int) ([]domain.Transaction, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.txs.List(ctx, tenantID, companyID, limit)
}

func (s *TransactionService) Uncategorized(ctx context.Context, tenantID, companyID int64, start, end string, limit, offset int, now time.Time) ([]domain.TransactionBrief, domain.Period, error) {
	if _, err := s.companies.GetByID(ctx, companyID, tenantID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domain.Period{}, ErrCompanyNotFound
		}
		return nil, domain.Period{}, err
	}

	startDt, endDt, period, err := domain.ResolvePeriod(start, end, now)
	if err != nil {
		return nil, domain.Period{}, err
	}

	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	items, err := s.txs.Uncategorized(ctx, tenantID, companyID, startDt, endDt, limit, offset)
	if err != nil {
		return nil, domain.Period{}, err
	}
	return items, period, nil
}

// SetCategory assigns or clears a transaction's category. Ownership failures
// look exactly like absence: a transaction or category of another tenant is
// reported as not found, never as someone else's row.
func (s *TransactionService) SetCategory(ctx context.Context, id int64, tenantID, companyID int64, categoryID *int64) (*domain.Transaction, error) {
	if _, err := s.companies.GetByID(ctx, companyID, tenantID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, err
	}

	if categoryID != nil {
		if _, err := s.categories.GetByID(ctx, *categoryID, tenantID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, err
		}
	}

	if err := s.txs.SetCategory(ctx, id, tenantID, companyID, categoryID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}

	return s.txs.GetByID(ctx, id, tenantID)
}

// BulkCategorize is the data-quality primitive: per-item soft failures, hard
// ceiling on batch size, all applicable updates in one atomic unit of work.
func (s *TransactionService) BulkCategorize(ctx context.Context, tenantID, companyID int64, items []domain.BulkItem) (*domain.BulkResult, error) {
	if _, err := s.companies.GetByID(ctx, companyID, tenantID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, err
	}

	if len(items) == 0 {
		return &domain.BulkResult{
			MissingIDs:         []int64{},
			SkippedIDs:         []int64{},
			InvalidCategoryIDs: []int64{},
		}, nil
	}
	if len(items) > domain.MaxBulkItems {
		return nil, &domain.TooManyItemsError{Count: len(items)}
	}

	return s.txs.BulkCategorize(ctx, tenantID, companyID, items)
}
