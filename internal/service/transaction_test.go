package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fluxocx/fluxo/internal/domain"
)

func setupTransactionTest(t *testing.T) (*TransactionService, *mockCompanyStore, *mockCategoryStore, *mockTransactionStore) {
	t.Helper()
	companies := newMockCompanyStore()
	categories := newMockCategoryStore()
	txs := newMockTransactionStore(categories)
	return NewTransactionService(txs, companies, categories), companies, categories, txs
}

func createCompany(t *testing.T, companies *mockCompanyStore, tenantID int64, cnpj string) *domain.Company {
	t.Helper()
	c := &domain.Company{TenantID: tenantID, CNPJ: cnpj, LegalName: "Empresa Teste LTDA"}
	if err := companies.Create(context.Background(), c); err != nil {
		t.Fatalf("create company: %v", err)
	}
	return c
}

func TestTransactionCreateValidation(t *testing.T) {
	svc, companies, _, _ := setupTransactionTest(t)
	company := createCompany(t, companies, 1, "12345678000199")
	ctx := context.Background()

	cases := []struct {
		name string
		tx   domain.Transaction
		want error
	}{
		{"bad kind", domain.Transaction{TenantID: 1, CompanyID: company.ID, Kind: "transfer", AmountCents: 100}, ErrInvalidKind},
		{"zero amount", domain.Transaction{TenantID: 1, CompanyID: company.ID, Kind: "in", AmountCents: 0}, ErrInvalidAmount},
		{"negative amount", domain.Transaction{TenantID: 1, CompanyID: company.ID, Kind: "out", AmountCents: -5}, ErrInvalidAmount},
	}
	for _, tc := range cases {
		tx := tc.tx
		if err := svc.Create(ctx, &tx); !errors.Is(err, tc.want) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestTransactionCreateDefaultsOccurredAt(t *testing.T) {
	svc, companies, _, _ := setupTransactionTest(t)
	company := createCompany(t, companies, 1, "12345678000199")

	tx := &domain.Transaction{TenantID: 1, CompanyID: company.ID, Kind: "in", AmountCents: 100, Description: "Venda"}
	if err := svc.Create(context.Background(), tx); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if tx.OccurredAt == nil {
		t.Fatal("expected occurred_at defaulted to now")
	}
}

func TestTransactionCreateCompanyOfOtherTenant(t *testing.T) {
	svc, companies, _, _ := setupTransactionTest(t)
	company := createCompany(t, companies, 2, "12345678000199")

	tx := &domain.Transaction{TenantID: 1, CompanyID: company.ID, Kind: "in", AmountCents: 100}
	if err := svc.Create(context.Background(), tx); !errors.Is(err, ErrCompanyNotFound) {
		t.Fatalf("cross-tenant company must look absent, got %v", err)
	}
}

func TestSetCategoryCrossTenantLooksAbsent(t *testing.T) {
	svc, companies, categories, txs := setupTransactionTest(t)
	ctx := context.Background()

	mine := createCompany(t, companies, 1, "11111111000111")
	theirs := createCompany(t, companies, 2, "22222222000122")

	cat := &domain.Category{TenantID: 2, Name: "Aluguel"}
	if err := categories.Create(ctx, cat); err != nil {
		t.Fatal(err)
	}
	foreign := seedTx(txs, 2, theirs.ID, domain.KindOut, 100, "deles", time.Now().UTC(), nil)

	// Their transaction through my scope: not found, never forbidden.
	if _, err := svc.SetCategory(ctx, foreign.ID, 1, mine.ID, nil); !errors.Is(err, ErrTransactionNotFound) {
		t.Fatalf("expected not-found for foreign transaction, got %v", err)
	}

	// Their category on my transaction: not found as well.
	tx := seedTx(txs, 1, mine.ID, domain.KindOut, 100, "minha", time.Now().UTC(), nil)
	if _, err := svc.SetCategory(ctx, tx.ID, 1, mine.ID, &cat.ID); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected not-found for foreign category, got %v", err)
	}
}

func TestBulkCategorizeCeiling(t *testing.T) {
	svc, companies, _, _ := setupTransactionTest(t)
	company := createCompany(t, companies, 1, "12345678000199")

	items := make([]domain.BulkItem, domain.MaxBulkItems+1)
	for i := range items {
		items[i] = domain.BulkItem{ID: int64(i + 1), CategoryID: int64Ptr(1)}
	}

	_, err := svc.BulkCategorize(context.Background(), 1, company.ID, items)
	var tooMany *domain.TooManyItemsError
	if !errors.As(err, &tooMany) {
		t.Fatalf("expected TooManyItemsError, got %v", err)
	}
	if tooMany.Count != domain.MaxBulkItems+1 {
		t.Fatalf("expected count %d, got %d", domain.MaxBulkItems+1, tooMany.Count)
	}
}

func TestBulkCategorizeEmptyBatch(t *testing.T) {
	svc, companies, _, _ := setupTransactionTest(t)
	company := createCompany(t, companies, 1, "12345678000199")

	result, err := svc.BulkCategorize(context.Background(), 1, company.ID, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Updated != 0 {
		t.Fatalf("expected zero updates, got %d", result.Updated)
	}
	if result.MissingIDs == nil || result.SkippedIDs == nil || result.InvalidCategoryIDs == nil {
		t.Fatal("soft-failure lists must be empty, not nil")
	}
}

func TestBulkCategorizeCrossTenantSkipped(t *testing.T) {
	svc, companies, categories, txs := setupTransactionTest(t)
	ctx := context.Background()

	mine := createCompany(t, companies, 1, "11111111000111")
	theirs := createCompany(t, companies, 2, "22222222000122")

	cat := &domain.Category{TenantID: 1, Name: "Compras"}
	if err := categories.Create(ctx, cat); err != nil {
		t.Fatal(err)
	}

	now := time.Now().UTC()
	ours := seedTx(txs, 1, mine.ID, domain.KindOut, 500, "compra papelaria", now, nil)
	foreign := seedTx(txs, 2, theirs.ID, domain.KindOut, 900, "deles", now, nil)

	result, err := svc.BulkCategorize(ctx, 1, mine.ID, []domain.BulkItem{
		{ID: ours.ID, CategoryID: &cat.ID},
		{ID: foreign.ID, CategoryID: &cat.ID},
		{ID: 9999, CategoryID: &cat.ID},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Updated != 1 {
		t.Fatalf("expected 1 update, got %d", result.Updated)
	}
	if len(result.SkippedIDs) != 1 || result.SkippedIDs[0] != foreign.ID {
		t.Fatalf("expected foreign tx in skipped_ids, got %v", result.SkippedIDs)
	}
	if len(result.MissingIDs) != 1 || result.MissingIDs[0] != 9999 {
		t.Fatalf("expected 9999 in missing_ids, got %v", result.MissingIDs)
	}

	updated, _ := txs.GetByID(ctx, ours.ID, 1)
	if updated.CategoryID == nil || *updated.CategoryID != cat.ID {
		t.Fatal("applicable pair must have been applied")
	}
	untouched, _ := txs.GetByID(ctx, foreign.ID, 2)
	if untouched.CategoryID != nil {
		t.Fatal("foreign transaction must not be mutated")
	}
}

func TestBulkCategorizeInvalidCategory(t *testing.T) {
	svc, companies, _, txs := setupTransactionTest(t)
	company := createCompany(t, companies, 1, "12345678000199")

	tx := seedTx(txs, 1, company.ID, domain.KindOut, 500, "gasto", time.Now().UTC(), nil)

	result, err := svc.BulkCategorize(context.Background(), 1, company.ID, []domain.BulkItem{
		{ID: tx.ID, CategoryID: int64Ptr(777)},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Updated != 0 {
		t.Fatalf("expected zero updates, got %d", result.Updated)
	}
	if len(result.InvalidCategoryIDs) != 1 || result.InvalidCategoryIDs[0] != 777 {
		t.Fatalf("expected 777 in invalid_category_ids, got %v", result.InvalidCategoryIDs)
	}
}
