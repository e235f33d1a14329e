package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/fluxocx/fluxo/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CategoryStore struct {
	db *pgxpool.Pool
}

func NewCategoryStore(db *pgxpool.Pool) *CategoryStore {
	return &CategoryStore{db: db}
}

func (s *CategoryStore) Create(ctx context.Context, c *domain.Category) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO categories (tenant_id, name)
		 VALUES ($1, $2)
		 RETURNING id, created_at`,
		c.TenantID, c.Name,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (s *CategoryStore) GetByID(ctx context.Context, id int64, tenantID int64) (*domain.Category, error) {
	c := &domain.Category{}
	err := s.db.QueryRow(ctx,
		`SELECT id, tenant_id, name, created_at
		 FROM categories WHERE id = $1 AND tenant_id = $2`,
		id, tenantID,
	).Scan(&c.ID, &c.TenantID, &c.Name, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (s *CategoryStore) List(ctx context.Context, tenantID int64) ([]domain.Category, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, tenant_id, name, created_at
		 FROM categories WHERE tenant_id = $1
		 ORDER BY id ASC`,
		tenantID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.TenantID, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// LookupOrCreate resolves a name to a category id, inserting on first use.
// The ON CONFLICT DO NOTHING + re-select sequence makes the create race safe:
// whichever caller loses the insert sees the winner's row.
func (s *CategoryStore) LookupOrCreate(ctx context.Context, tenantID int64, name string) (*domain.Category, error) {
	c := &domain.Category{TenantID: tenantID, Name: name}
	err := s.db.QueryRow(ctx,
		`INSERT INTO categories (tenant_id, name)
		 VALUES ($1, $2)
		 ON CONFLICT (tenant_id, name) DO NOTHING
		 RETURNING id, created_at`,
		tenantID, name,
	).Scan(&c.ID, &c.CreatedAt)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("lookup-or-create category: %w", err)
	}

	err = s.db.QueryRow(ctx,
		`SELECT id, tenant_id, name, created_at
		 FROM categories WHERE tenant_id = $1 AND name = $2`,
		tenantID, name,
	).Scan(&c.ID, &c.TenantID, &c.Name, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("lookup-or-create category: %w", err)
	}
	return c, nil
}
