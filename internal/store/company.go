package store

import (
	"context"
	"errors"

	"github.com/fluxocx/fluxo/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CompanyStore struct {
	db *pgxpool.Pool
}

func NewCompanyStore(db *pgxpool.Pool) *CompanyStore {
	return &CompanyStore{db: db}
}

func (s *CompanyStore) Create(ctx context.Context, c *domain.Company) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO companies (tenant_id, cnpj, legal_name)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		c.TenantID, c.CNPJ, c.LegalName,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (s *CompanyStore) GetByID(ctx context.Context, id int64, tenantID int64) (*domain.Company, error) {
	c := &domain.Company{}
	err := s.db.QueryRow(ctx,
		`SELECT id, tenant_id, cnpj, legal_name, created_at
		 FROM companies WHERE id = $1 AND tenant_id = $2`,
		id, tenantID,
	).Scan(&c.ID, &c.TenantID, &c.CNPJ, &c.LegalName, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (s *CompanyStore) List(ctx context.Context, tenantID int64) ([]domain.Company, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, tenant_id, cnpj, legal_name, created_at
		 FROM companies WHERE tenant_id = $1
		 ORDER BY id ASC`,
		tenantID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []domain.Company
	for rows.Next() {
		var c domain.Company
		if err := rows.Scan(&c.ID, &c.TenantID, &c.CNPJ, &c.LegalName, &c.CreatedAt); err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}
