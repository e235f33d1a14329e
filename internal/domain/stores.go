package domain

import (
	"context"
	"time"
)

type TenantStore interface {
	GetByID(ctx context.Context, id int64) (*Tenant, error)
	GetMemberByEmail(ctx context.Context, email string) (*TenantMember, error)
}

type CompanyStore interface {
	Create(ctx context.Context, c *Company) error
	GetByID(ctx context.Context, id int64, tenantID int64) (*Company, error)
	List(ctx context.Context, tenantID int64) ([]Company, error)
}

type CategoryStore interface {
	Create(ctx context.Context, c *Category) error
	GetByID(ctx context.Context, id int64, tenantID int64) (*Category, error)
	List(ctx context.Context, tenantID int64) ([]Category, error)
	// LookupOrCreate resolves a category name to an id, creating the row if
	// absent. Idempotent under concurrent callers: the loser of a create race
	// must observe the pre-existing row, never produce a duplicate.
	LookupOrCreate(ctx context.Context, tenantID int64, name string) (*Category, error)
}

type TransactionStore interface {
	Create(ctx context.Context, t *Transaction) error
	GetByID(ctx context.Context, id int64, tenantID int64) (*Transaction, error)
	List(ctx context.Context, tenantID int64, companyID int64, limit int) ([]Transaction, error)
	SetCategory(ctx context.Context, id int64, tenantID int64, companyID int64, categoryID *int64) error

	// Aggregations: scoped by (tenant, company) and an inclusive instant
	// range; rows with NULL occurred_at never participate.
	Totals(ctx context.Context, tenantID, companyID int64, start, end time.Time) (*Totals, error)
	ByCategory(ctx context.Context, tenantID, companyID int64, start, end time.Time) ([]CategoryBreakdown, error)
	DailySeries(ctx context.Context, tenantID, companyID int64, start, end time.Time) ([]DailyPoint, error)
	Recent(ctx context.Context, tenantID, companyID int64, start, end time.Time, limit int) ([]TransactionBrief, error)
	Uncategorized(ctx context.Context, tenantID, companyID int64, start, end time.Time, limit, offset int) ([]TransactionBrief, error)
	ListOutflows(ctx context.Context, tenantID, companyID int64, start, end time.Time) ([]TransactionBrief, error)

	// BulkCategorize validates and applies a batch inside one transaction:
	// either every applicable pair commits or none do.
	BulkCategorize(ctx context.Context, tenantID, companyID int64, items []BulkItem) (*BulkResult, error)
}
