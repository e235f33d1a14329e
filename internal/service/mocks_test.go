package service

import (
	"context"
	"sort"
	"time"

	"github.com/fluxocx/fluxo/internal/domain"
	"github.com/fluxocx/fluxo/internal/store"
)

// mockCompanyStore implements domain.CompanyStore for testing.
type mockCompanyStore struct {
	companies map[int64]*domain.Company
	nextID    int64
}

func newMockCompanyStore() *mockCompanyStore {
	return &mockCompanyStore{companies: make(map[int64]*domain.Company)}
}

func (m *mockCompanyStore) Create(ctx context.Context, c *domain.Company) error {
	for _, existing := range m.companies {
		if existing.TenantID == c.TenantID && existing.CNPJ == c.CNPJ {
			return store.ErrConflict
		}
	}
	m.nextID++
	c.ID = m.nextID
	c.CreatedAt = time.Now().UTC()
	m.companies[c.ID] = c
	return nil
}

func (m *mockCompanyStore) GetByID(ctx context.Context, id int64, tenantID int64) (*domain.Company, error) {
	c, ok := m.companies[id]
	if !ok || c.TenantID != tenantID {
		return nil, store.ErrNotFound
	}
	return c, nil
}

func (m *mockCompanyStore) List(ctx context.Context, tenantID int64) ([]domain.Company, error) {
	var out []domain.Company
	for _, c := range m.companies {
		if c.TenantID == tenantID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// mockCategoryStore implements domain.CategoryStore for testing.
type mockCategoryStore struct {
	categories map[int64]*domain.Category
	nextID     int64
}

func newMockCategoryStore() *mockCategoryStore {
	return &mockCategoryStore{categories: make(map[int64]*domain.Category)}
}

func (m *mockCategoryStore) Create(ctx context.Context, c *domain.Category) error {
	for _, existing := range m.categories {
		if existing.TenantID == c.TenantID && existing.Name == c.Name {
			return store.ErrConflict
		}
	}
	m.nextID++
	c.ID = m.nextID
	c.CreatedAt = time.Now().UTC()
	m.categories[c.ID] = c
	return nil
}

func (m *mockCategoryStore) GetByID(ctx context.Context, id int64, tenantID int64) (*domain.Category, error) {
	c, ok := m.categories[id]
	if !ok || c.TenantID != tenantID {
		return nil, store.ErrNotFound
	}
	return c, nil
}

func (m *mockCategoryStore) List(ctx context.Context, tenantID int64) ([]domain.Category, error) {
	var out []domain.Category
	for _, c := range m.categories {
		if c.TenantID == tenantID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockCategoryStore) LookupOrCreate(ctx context.Context, tenantID int64, name string) (*domain.Category, error) {
	for _, c := range m.categories {
		if c.TenantID == tenantID && c.Name == name {
			return c, nil
		}
	}
	c := &domain.Category{TenantID: tenantID, Name: name}
	if err := m.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// mockTransactionStore implements domain.TransactionStore for testing,
// computing aggregates from seeded rows the way the SQL layer does.
type mockTransactionStore struct {
	txs        map[int64]*domain.Transaction
	categories *mockCategoryStore
	nextID     int64
}

func newMockTransactionStore(categories *mockCategoryStore) *mockTransactionStore {
	return &mockTransactionStore{txs: make(map[int64]*domain.Transaction), categories: categories}
}

func (m *mockTransactionStore) Create(ctx context.Context, t *domain.Transaction) error {
	m.nextID++
	t.ID = m.nextID
	t.CreatedAt = time.Now().UTC()
	m.txs[t.ID] = t
	return nil
}

func (m *mockTransactionStore) GetByID(ctx context.Context, id int64, tenantID int64) (*domain.Transaction, error) {
	t, ok := m.txs[id]
	if !ok || t.TenantID != tenantID {
		return nil, store.ErrNotFound
	}
	return t, nil
}

func (m *mockTransactionStore) List(ctx context.Context, tenantID, companyID int64, limit int) ([]domain.Transaction, error) {
	var out []domain.Transaction
	for _, t := range m.txs {
		if t.TenantID == tenantID && t.CompanyID == companyID {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockTransactionStore) SetCategory(ctx context.Context, id int64, tenantID, companyID int64, categoryID *int64) error {
	t, ok := m.txs[id]
	if !ok || t.TenantID != tenantID || t.CompanyID != companyID {
		return store.ErrNotFound
	}
	t.CategoryID = categoryID
	return nil
}

// inPeriod mirrors the SQL filter: NULL occurred_at never participates.
func (m *mockTransactionStore) inPeriod(t *domain.Transaction, tenantID, companyID int64, start, end time.Time) bool {
	if t.TenantID != tenantID || t.CompanyID != companyID || t.OccurredAt == nil {
		return false
	}
	return !t.OccurredAt.Before(start) && !t.OccurredAt.After(end)
}

func (m *mockTransactionStore) Totals(ctx context.Context, tenantID, companyID int64, start, end time.Time) (*domain.Totals, error) {
	totals := &domain.Totals{}
	for _, t := range m.txs {
		if !m.inPeriod(t, tenantID, companyID, start, end) {
			continue
		}
		totals.TransactionCount++
		if t.Kind == domain.KindIn {
			totals.InflowCents += t.AmountCents
		} else {
			totals.OutflowCents += t.AmountCents
		}
	}
	totals.BalanceCents = totals.InflowCents - totals.OutflowCents
	return totals, nil
}

func (m *mockTransactionStore) categoryName(categoryID *int64) string {
	if categoryID == nil {
		return domain.UncategorizedLabel
	}
	if c, ok := m.categories.categories[*categoryID]; ok {
		return c.Name
	}
	return domain.UncategorizedLabel
}

func (m *mockTransactionStore) ByCategory(ctx context.Context, tenantID, companyID int64, start, end time.Time) ([]domain.CategoryBreakdown, error) {
	type key struct {
		id   int64
		null bool
	}
	rows := map[key]*domain.CategoryBreakdown{}
	for _, t := range m.txs {
		if !m.inPeriod(t, tenantID, companyID, start, end) {
			continue
		}
		k := key{null: t.CategoryID == nil}
		if t.CategoryID != nil {
			k.id = *t.CategoryID
		}
		row, ok := rows[k]
		if !ok {
			row = &domain.CategoryBreakdown{
				CategoryID:   t.CategoryID,
				CategoryName: m.categoryName(t.CategoryID),
			}
			rows[k] = row
		}
		row.TransactionCount++
		if t.Kind == domain.KindIn {
			row.InflowCents += t.AmountCents
		} else {
			row.OutflowCents += t.AmountCents
		}
		row.BalanceCents = row.InflowCents - row.OutflowCents
	}

	var out []domain.CategoryBreakdown
	for _, row := range rows {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		si := out[i].InflowCents + out[i].OutflowCents
		sj := out[j].InflowCents + out[j].OutflowCents
		if si != sj {
			return si > sj
		}
		return out[i].CategoryName < out[j].CategoryName
	})
	return out, nil
}

func (m *mockTransactionStore) DailySeries(ctx context.Context, tenantID, companyID int64, start, end time.Time) ([]domain.DailyPoint, error) {
	days := map[string]*domain.DailyPoint{}
	for _, t := range m.txs {
		if !m.inPeriod(t, tenantID, companyID, start, end) {
			continue
		}
		date := t.OccurredAt.Format("2006-01-02")
		p, ok := days[date]
		if !ok {
			p = &domain.DailyPoint{Date: date}
			days[date] = p
		}
		if t.Kind == domain.KindIn {
			p.InflowCents += t.AmountCents
		} else {
			p.OutflowCents += t.AmountCents
		}
		p.BalanceCents = p.InflowCents - p.OutflowCents
	}

	var out []domain.DailyPoint
	for _, p := range days {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (m *mockTransactionStore) brief(t *domain.Transaction) domain.TransactionBrief {
	return domain.TransactionBrief{
		ID:           t.ID,
		OccurredAt:   *t.OccurredAt,
		Kind:         t.Kind,
		AmountCents:  t.AmountCents,
		CategoryID:   t.CategoryID,
		CategoryName: m.categoryName(t.CategoryID),
		Description:  t.Description,
	}
}

func (m *mockTransactionStore) Recent(ctx context.Context, tenantID, companyID int64, start, end time.Time, limit int) ([]domain.TransactionBrief, error) {
	var out []domain.TransactionBrief
	for _, t := range m.txs {
		if m.inPeriod(t, tenantID, companyID, start, end) {
			out = append(out, m.brief(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OccurredAt.After(out[j].OccurredAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockTransactionStore) Uncategorized(ctx context.Context, tenantID, companyID int64, start, end time.Time, limit, offset int) ([]domain.TransactionBrief, error) {
	var out []domain.TransactionBrief
	for _, t := range m.txs {
		if m.inPeriod(t, tenantID, companyID, start, end) && t.CategoryID == nil {
			out = append(out, m.brief(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockTransactionStore) ListOutflows(ctx context.Context, tenantID, companyID int64, start, end time.Time) ([]domain.TransactionBrief, error) {
	var out []domain.TransactionBrief
	for _, t := range m.txs {
		if m.inPeriod(t, tenantID, companyID, start, end) && t.Kind == domain.KindOut {
			out = append(out, m.brief(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockTransactionStore) BulkCategorize(ctx context.Context, tenantID, companyID int64, items []domain.BulkItem) (*domain.BulkResult, error) {
	refs := map[int64]domain.TransactionRef{}
	for _, t := range m.txs {
		refs[t.ID] = domain.TransactionRef{ID: t.ID, TenantID: t.TenantID, CompanyID: t.CompanyID}
	}
	validCats := map[int64]bool{}
	for _, c := range m.categories.categories {
		if c.TenantID == tenantID {
			validCats[c.ID] = true
		}
	}

	applicable, result := domain.ClassifyBulkItems(tenantID, companyID, items, refs, validCats)
	for _, it := range applicable {
		m.txs[it.ID].CategoryID = it.CategoryID
		result.Updated++
	}
	return &result, nil
}

// seedTx is a helper for populating the mock ledger.
func seedTx(m *mockTransactionStore, tenantID, companyID int64, kind domain.TransactionKind, amount int64, desc string, occurred time.Time, categoryID *int64) *domain.Transaction {
	t := &domain.Transaction{
		TenantID:    tenantID,
		CompanyID:   companyID,
		CategoryID:  categoryID,
		Kind:        kind,
		AmountCents: amount,
		Description: desc,
		OccurredAt:  &occurred,
	}
	_ = m.Create(context.Background(), t)
	return t
}

func int64Ptr(v int64) *int64 { return &v }
