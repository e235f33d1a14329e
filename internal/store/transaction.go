package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fluxocx/fluxo/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TransactionStore struct {
	db *pgxpool.Pool
}

func NewTransactionStore(db *pgxpool.Pool) *TransactionStore {
	return &TransactionStore{db: db}
}

func (s *TransactionStore) Create(ctx context.Context, t *domain.Transaction) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO transactions (tenant_id, company_id, category_id, kind, amount_cents, occurred_at, description)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		t.TenantID, t.CompanyID, t.CategoryID, t.Kind, t.AmountCents, t.OccurredAt, t.Description,
	).Scan(&t.ID, &t.CreatedAt)
}

func (s *TransactionStore) GetByID(ctx context.Context, id int64, tenantID int64) (*domain.Transaction, error) {
	t := &domain.Transaction{}
	err := s.db.QueryRow(ctx,
		`SELECT id, tenant_id, company_id, category_id, kind, amount_cents, occurred_at, description, created_at
		 FROM transactions WHERE id = $1 AND tenant_id = $2`,
		id, tenantID,
	).Scan(&t.ID, &t.TenantID, &t.CompanyID, &t.CategoryID, &t.Kind, &t.AmountCents, &t.OccurredAt, &t.Description, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *TransactionStore) List(ctx context.Context, tenantID int64, companyID int64, limit int) ([]domain.Transaction, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, tenant_id, company_id, category_id, kind, amount_cents, occurred_at, description, created_at
		 FROM transactions
		 WHERE tenant_id = $1 AND company_id = $2
		 ORDER BY id DESC
		 LIMIT $3`,
		tenantID, companyID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(&t.ID, &t.TenantID, &t.CompanyID, &t.CategoryID, &t.Kind, &t.AmountCents, &t.OccurredAt, &t.Description, &t.CreatedAt); err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

func (s *TransactionStore) SetCategory(ctx context.Context, id int64, tenantID int64, companyID int64, categoryID *int64) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE transactions SET category_id = $1
		 WHERE id = $2 AND tenant_id = $3 AND company_id = $4`,
		categoryID, id, tenantID, companyID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *TransactionStore) Totals(ctx context.Context, tenantID, companyID int64, start, end time.Time) (*domain.Totals, error) {
	t := &domain.Totals{}
	err := s.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(CASE WHEN kind = 'in' THEN amount_cents ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN kind = 'out' THEN amount_cents ELSE 0 END), 0),
		        COUNT(id)
		 FROM transactions
		 WHERE tenant_id = $1 AND company_id = $2
		   AND occurred_at IS NOT NULL AND occurred_at >= $3 AND occurred_at <= $4`,
		tenantID, companyID, start, end,
	).Scan(&t.InflowCents, &t.OutflowCents, &t.TransactionCount)
	if err != nil {
		return nil, fmt.Errorf("totals query: %w", err)
	}
	t.BalanceCents = t.InflowCents - t.OutflowCents
	return t, nil
}

func (s *TransactionStore) ByCategory(ctx context.Context, tenantID, companyID int64, start, end time.Time) ([]domain.CategoryBreakdown, error) {
	rows, err := s.db.Query(ctx,
		`SELECT t.category_id,
		        COALESCE(c.name, $5),
		        COALESCE(SUM(CASE WHEN t.kind = 'in' THEN t.amount_cents ELSE 0 END), 0) AS in_cents,
		        COALESCE(SUM(CASE WHEN t.kind = 'out' THEN t.amount_cents ELSE 0 END), 0) AS out_cents,
		        COUNT(t.id)
		 FROM transactions t
		 LEFT JOIN categories c ON c.id = t.category_id
		 WHERE t.tenant_id = $1 AND t.company_id = $2
		   AND t.occurred_at IS NOT NULL AND t.occurred_at >= $3 AND t.occurred_at <= $4
		 GROUP BY t.category_id, c.name
		 ORDER BY COALESCE(SUM(t.amount_cents), 0) DESC`,
		tenantID, companyID, start, end, domain.UncategorizedLabel,
	)
	if err != nil {
		return nil, fmt.Errorf("by-category query: %w", err)
	}
	defer rows.Close()

	var out []domain.CategoryBreakdown
	for rows.Next() {
		var b domain.CategoryBreakdown
		if err := rows.Scan(&b.CategoryID, &b.CategoryName, &b.InflowCents, &b.OutflowCents, &b.TransactionCount); err != nil {
			return nil, fmt.Errorf("scan by-category row: %w", err)
		}
		b.BalanceCents = b.InflowCents - b.OutflowCents
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *TransactionStore) DailySeries(ctx context.Context, tenantID, companyID int64, start, end time.Time) ([]domain.DailyPoint, error) {
	rows, err := s.db.Query(ctx,
		`SELECT to_char(occurred_at::date, 'YYYY-MM-DD') AS day,
		        COALESCE(SUM(CASE WHEN kind = 'in' THEN amount_cents ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN kind = 'out' THEN amount_cents ELSE 0 END), 0)
		 FROM transactions
		 WHERE tenant_id = $1 AND company_id = $2
		   AND occurred_at IS NOT NULL AND occurred_at >= $3 AND occurred_at <= $4
		 GROUP BY day
		 ORDER BY day ASC`,
		tenantID, companyID, start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("daily-series query: %w", err)
	}
	defer rows.Close()

	var series []domain.DailyPoint
	for rows.Next() {
		var p domain.DailyPoint
		if err := rows.Scan(&p.Date, &p.InflowCents, &p.OutflowCents); err != nil {
			return nil, fmt.Errorf("scan daily row: %w", err)
		}
		p.BalanceCents = p.InflowCents - p.OutflowCents
		series = append(series, p)
	}
	return series, rows.Err()
}

const briefColumns = `t.id, t.occurred_at, t.kind, t.amount_cents, t.category_id,
	        COALESCE(c.name, 'Sem categoria'), COALESCE(t.description, '')`

func (s *TransactionStore) Recent(ctx context.Context, tenantID, companyID int64, start, end time.Time, limit int) ([]domain.TransactionBrief, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+briefColumns+`
		 FROM transactions t
		 LEFT JOIN categories c ON c.id = t.category_id
		 WHERE t.tenant_id = $1 AND t.company_id = $2
		   AND t.occurred_at IS NOT NULL AND t.occurred_at >= $3 AND t.occurred_at <= $4
		 ORDER BY t.occurred_at DESC, t.id DESC
		 LIMIT $5`,
		tenantID, companyID, start, end, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent query: %w", err)
	}
	return scanBriefs(rows)
}

func (s *TransactionStore) Uncategorized(ctx context.Context, tenantID, companyID int64, start, end time.Time, limit, offset int) ([]domain.TransactionBrief, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+briefColumns+`
		 FROM transactions t
		 LEFT JOIN categories c ON c.id = t.category_id
		 WHERE t.tenant_id = $1 AND t.company_id = $2
		   AND t.occurred_at IS NOT NULL AND t.occurred_at >= $3 AND t.occurred_at <= $4
		   AND t.category_id IS NULL
		 ORDER BY t.occurred_at DESC, t.id DESC
		 LIMIT $5 OFFSET $6`,
		tenantID, companyID, start, end, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("uncategorized query: %w", err)
	}
	return scanBriefs(rows)
}

func (s *TransactionStore) ListOutflows(ctx context.Context, tenantID, companyID int64, start, end time.Time) ([]domain.TransactionBrief, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+briefColumns+`
		 FROM transactions t
		 LEFT JOIN categories c ON c.id = t.category_id
		 WHERE t.tenant_id = $1 AND t.company_id = $2
		   AND t.occurred_at IS NOT NULL AND t.occurred_at >= $3 AND t.occurred_at <= $4
		   AND t.kind = 'out'
		 ORDER BY t.amount_cents DESC, t.id DESC`,
		tenantID, companyID, start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("outflows query: %w", err)
	}
	return scanBriefs(rows)
}

func scanBriefs(rows pgx.Rows) ([]domain.TransactionBrief, error) {
	defer rows.Close()
	var out []domain.TransactionBrief
	for rows.Next() {
		var b domain.TransactionBrief
		if err := rows.Scan(&b.ID, &b.OccurredAt, &b.Kind, &b.AmountCents, &b.CategoryID, &b.CategoryName, &b.Description); err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// BulkCategorize validates every item of the batch and applies the applicable
// pairs as one atomic unit of work. Validation and mutation share a single
// transaction so concurrent writers cannot interleave between them.
func (s *TransactionStore) BulkCategorize(ctx context.Context, tenantID, companyID int64, items []domain.BulkItem) (*domain.BulkResult, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin bulk categorize: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	txIDs := make([]int64, 0, len(items))
	catIDSet := map[int64]bool{}
	for _, it := range items {
		txIDs = append(txIDs, it.ID)
		if it.CategoryID != nil {
			catIDSet[*it.CategoryID] = true
		}
	}

	refs := map[int64]domain.TransactionRef{}
	rows, err := tx.Query(ctx,
		`SELECT id, tenant_id, company_id FROM transactions WHERE id = ANY($1)`,
		txIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("load transaction refs: %w", err)
	}
	for rows.Next() {
		var ref domain.TransactionRef
		if err := rows.Scan(&ref.ID, &ref.TenantID, &ref.CompanyID); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan transaction ref: %w", err)
		}
		refs[ref.ID] = ref
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	validCats := map[int64]bool{}
	if len(catIDSet) > 0 {
		catIDs := make([]int64, 0, len(catIDSet))
		for id := range catIDSet {
			catIDs = append(catIDs, id)
		}
		catRows, err := tx.Query(ctx,
			`SELECT id FROM categories WHERE id = ANY($1) AND tenant_id = $2`,
			catIDs, tenantID,
		)
		if err != nil {
			return nil, fmt.Errorf("load categories: %w", err)
		}
		for catRows.Next() {
			var id int64
			if err := catRows.Scan(&id); err != nil {
				catRows.Close()
				return nil, fmt.Errorf("scan category id: %w", err)
			}
			validCats[id] = true
		}
		catRows.Close()
		if err := catRows.Err(); err != nil {
			return nil, err
		}
	}

	applicable, result := domain.ClassifyBulkItems(tenantID, companyID, items, refs, validCats)

	for _, it := range applicable {
		tag, err := tx.Exec(ctx,
			`UPDATE transactions SET category_id = $1
			 WHERE id = $2 AND tenant_id = $3 AND company_id = $4`,
			it.CategoryID, it.ID, tenantID, companyID,
		)
		if err != nil {
			return nil, fmt.Errorf("apply category to transaction %d: %w", it.ID, err)
		}
		result.Updated += int(tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit bulk categorize: %w", err)
	}
	return &result, nil
}
