package service

import (
	"context"
	"errors"
	"testing"

	"github.com/fluxocx/fluxo/internal/domain"
)

func TestCompanyCreateValidation(t *testing.T) {
	svc := NewCompanyService(newMockCompanyStore())
	ctx := context.Background()

	cases := []struct {
		name string
		c    domain.Company
		want error
	}{
		{"short cnpj", domain.Company{TenantID: 1, CNPJ: "123", LegalName: "X"}, ErrInvalidCNPJ},
		{"non-digit cnpj", domain.Company{TenantID: 1, CNPJ: "1234567800019a", LegalName: "X"}, ErrInvalidCNPJ},
		{"missing name", domain.Company{TenantID: 1, CNPJ: "12345678000199", LegalName: "  "}, ErrLegalNameRequired},
	}
	for _, tc := range cases {
		c := tc.c
		if err := svc.Create(ctx, &c); !errors.Is(err, tc.want) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestCompanyCreateDuplicateCNPJ(t *testing.T) {
	svc := NewCompanyService(newMockCompanyStore())
	ctx := context.Background()

	first := domain.Company{TenantID: 1, CNPJ: "12345678000199", LegalName: "Primeira LTDA"}
	if err := svc.Create(ctx, &first); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	dup := domain.Company{TenantID: 1, CNPJ: "12345678000199", LegalName: "Segunda LTDA"}
	if err := svc.Create(ctx, &dup); !errors.Is(err, ErrCNPJTaken) {
		t.Fatalf("expected ErrCNPJTaken, got %v", err)
	}

	// Same CNPJ under a different tenant is fine.
	other := domain.Company{TenantID: 2, CNPJ: "12345678000199", LegalName: "Outra LTDA"}
	if err := svc.Create(ctx, &other); err != nil {
		t.Fatalf("cnpj uniqueness is per tenant, got %v", err)
	}
}

func TestCompanyGetCrossTenant(t *testing.T) {
	store := newMockCompanyStore()
	svc := NewCompanyService(store)
	ctx := context.Background()

	c := domain.Company{TenantID: 2, CNPJ: "12345678000199", LegalName: "Deles LTDA"}
	if err := svc.Create(ctx, &c); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.GetByID(ctx, c.ID, 1); !errors.Is(err, ErrCompanyNotFound) {
		t.Fatalf("cross-tenant read must look absent, got %v", err)
	}
}

func TestCategoryCreateAndDuplicate(t *testing.T) {
	svc := NewCategoryService(newMockCategoryStore())
	ctx := context.Background()

	c := domain.Category{TenantID: 1, Name: " Fretes "}
	if err := svc.Create(ctx, &c); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.Name != "Fretes" {
		t.Fatalf("expected trimmed name, got %q", c.Name)
	}

	dup := domain.Category{TenantID: 1, Name: "Fretes"}
	if err := svc.Create(ctx, &dup); !errors.Is(err, ErrCategoryExists) {
		t.Fatalf("expected ErrCategoryExists, got %v", err)
	}

	empty := domain.Category{TenantID: 1, Name: "   "}
	if err := svc.Create(ctx, &empty); !errors.Is(err, ErrCategoryNameRequired) {
		t.Fatalf("expected ErrCategoryNameRequired, got %v", err)
	}
}
