package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/fluxocx/fluxo/internal/domain"
	"github.com/fluxocx/fluxo/internal/store"
)

type ReportsService struct {
	companies domain.CompanyStore
	txs       domain.TransactionStore
	now       func() time.Time
}

func NewReportsService(companies domain.CompanyStore, txs domain.TransactionStore) *ReportsService {
	return &ReportsService{
		companies: companies,
		txs:       txs,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

type SummaryResult struct {
	CompanyID  int64                      `json:"company_id"`
	Period     domain.Period              `json:"period"`
	Totals     domain.Totals              `json:"totals"`
	ByCategory []domain.CategoryBreakdown `json:"by_category"`
}

type DailyResult struct {
	CompanyID int64               `json:"company_id"`
	Period    domain.Period       `json:"period"`
	Series    []domain.DailyPoint `json:"series"`
}

type ContextResult struct {
	CompanyID          int64                      `json:"company_id"`
	Period             domain.Period              `json:"period"`
	Totals             domain.Totals              `json:"totals"`
	ByCategory         []domain.CategoryBreakdown `json:"by_category"`
	RecentTransactions []domain.TransactionBrief  `json:"recent_transactions"`
}

type TopCategoriesResult struct {
	CompanyID int64                      `json:"company_id"`
	Period    domain.Period              `json:"period"`
	Metric    string                     `json:"metric"`
	Items     []domain.CategoryBreakdown `json:"items"`
}

func (s *ReportsService) ensureCompany(ctx context.Context, companyID, tenantID int64) error {
	if _, err := s.companies.GetByID(ctx, companyID, tenantID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrCompanyNotFound
		}
		return err
	}
	return nil
}

func (s *ReportsService) Summary(ctx context.Context, tenantID, companyID int64, start, end string) (*SummaryResult, error) {
	if err := s.ensureCompany(ctx, companyID, tenantID); err != nil {
		return nil, err
	}
	startDt, endDt, period, err := domain.ResolvePeriod(start, end, s.now())
	if err != nil {
		return nil, err
	}

	totals, err := s.txs.Totals(ctx, tenantID, companyID, startDt, endDt)
	if err != nil {
		return nil, err
	}
	byCat, err := s.txs.ByCategory(ctx, tenantID, companyID, startDt, endDt)
	if err != nil {
		return nil, err
	}

	return &SummaryResult{
		CompanyID:  companyID,
		Period:     period,
		Totals:     *totals,
		ByCategory: emptyIfNilBreakdown(byCat),
	}, nil
}

func (s *ReportsService) Daily(ctx context.Context, tenantID, companyID int64, start, end string) (*DailyResult, error) {
	if err := s.ensureCompany(ctx, companyID, tenantID); err != nil {
		return nil, err
	}
	startDt, endDt, period, err := domain.ResolvePeriod(start, end, s.now())
	if err != nil {
		return nil, err
	}

	series, err := s.txs.DailySeries(ctx, tenantID, companyID, startDt, endDt)
	if err != nil {
		return nil, err
	}
	if series == nil {
		series = []domain.DailyPoint{}
	}

	return &DailyResult{CompanyID: companyID, Period: period, Series: series}, nil
}

func (s *ReportsService) Context(ctx context.Context, tenantID, companyID int64, start, end string, limit int) (*ContextResult, error) {
	if err := s.ensureCompany(ctx, companyID, tenantID); err != nil {
		return nil, err
	}
	startDt, endDt, period, err := domain.ResolvePeriod(start, end, s.now())
	if err != nil {
		return nil, err
	}

	if limit <= 0 || limit > 200 {
		limit = 20
	}

	totals, err := s.txs.Totals(ctx, tenantID, companyID, startDt, endDt)
	if err != nil {
		return nil, err
	}
	byCat, err := s.txs.ByCategory(ctx, tenantID, companyID, startDt, endDt)
	if err != nil {
		return nil, err
	}
	recent, err := s.txs.Recent(ctx, tenantID, companyID, startDt, endDt, limit)
	if err != nil {
		return nil, err
	}

	return &ContextResult{
		CompanyID:          companyID,
		Period:             period,
		Totals:             *totals,
		ByCategory:         emptyIfNilBreakdown(byCat),
		RecentTransactions: emptyIfNilBriefs(recent),
	}, nil
}

func (s *ReportsService) TopCategories(ctx context.Context, tenantID, companyID int64, start, end, metric string, limit int) (*TopCategoriesResult, error) {
	if err := s.ensureCompany(ctx, companyID, tenantID); err != nil {
		return nil, err
	}
	startDt, endDt, period, err := domain.ResolvePeriod(start, end, s.now())
	if err != nil {
		return nil, err
	}

	m := strings.ToLower(strings.TrimSpace(metric))
	if m == "" {
		m = string(domain.MetricOutflows)
	}

	var key func(domain.CategoryBreakdown) int64
	switch domain.TopMetric(m) {
	case domain.MetricInflows:
		key = func(b domain.CategoryBreakdown) int64 { return b.InflowCents }
	case domain.MetricOutflows:
		key = func(b domain.CategoryBreakdown) int64 { return b.OutflowCents }
	case domain.MetricBalance:
		key = func(b domain.CategoryBreakdown) int64 {
			if b.BalanceCents < 0 {
				return -b.BalanceCents
			}
			return b.BalanceCents
		}
	default:
		return nil, &domain.InvalidMetricError{Value: metric}
	}

	items, err := s.txs.ByCategory(ctx, tenantID, companyID, startDt, endDt)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(items, func(i, j int) bool { return key(items[i]) > key(items[j]) })

	if limit < 1 {
		limit = 1
	}
	if limit > domain.MaxTopCategories {
		limit = domain.MaxTopCategories
	}
	if len(items) > limit {
		items = items[:limit]
	}

	return &TopCategoriesResult{
		CompanyID: companyID,
		Period:    period,
		Metric:    m,
		Items:     emptyIfNilBreakdown(items),
	}, nil
}

func emptyIfNilBreakdown(in []domain.CategoryBreakdown) []domain.CategoryBreakdown {
	if in == nil {
		return []domain.CategoryBreakdown{}
	}
	return in
}

func emptyIfNilBriefs(in []domain.TransactionBrief) []domain.TransactionBrief {
	if in == nil {
		return []domain.TransactionBrief{}
	}
	return in
}
