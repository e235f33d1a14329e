package store

import (
	"context"
	"errors"

	"github.com/fluxocx/fluxo/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TenantStore struct {
	db *pgxpool.Pool
}

func NewTenantStore(db *pgxpool.Pool) *TenantStore {
	return &TenantStore{db: db}
}

func (s *TenantStore) GetByID(ctx context.Context, id int64) (*domain.Tenant, error) {
	t := &domain.Tenant{}
	err := s.db.QueryRow(ctx,
		`SELECT id, name, plan, status, created_at
		 FROM tenants WHERE id = $1`,
		id,
	).Scan(&t.ID, &t.Name, &t.Plan, &t.Status, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

// GetMemberByEmail resolves an identity claim to its tenant membership. One
// email maps to at most one active membership; the first match wins.
func (s *TenantStore) GetMemberByEmail(ctx context.Context, email string) (*domain.TenantMember, error) {
	m := &domain.TenantMember{}
	err := s.db.QueryRow(ctx,
		`SELECT id, tenant_id, email, role, created_at
		 FROM tenant_members WHERE email = $1
		 ORDER BY id ASC
		 LIMIT 1`,
		email,
	).Scan(&m.ID, &m.TenantID, &m.Email, &m.Role, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return m, nil
}
