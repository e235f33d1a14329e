package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fluxocx/fluxo/internal/ai"
	"github.com/fluxocx/fluxo/internal/domain"
	"github.com/fluxocx/fluxo/internal/store"
	"go.uber.org/zap"
)

// DefaultSuggestLimit bounds how many uncategorized transactions one
// suggestion pass inspects.
const DefaultSuggestLimit = 200

type SuggestService struct {
	companies  domain.CompanyStore
	categories domain.CategoryStore
	txs        domain.TransactionStore
	enhancer   ai.Client
	logger     *zap.Logger
	now        func() time.Time
}

// SetEnhancer wires an optional external provider that may refine rule-based
// suggestions. A nil enhancer leaves the engine purely deterministic.
func (s *SuggestService) SetEnhancer(c ai.Client) {
	s.enhancer = c
}

func NewSuggestService(companies domain.CompanyStore, categories domain.CategoryStore, txs domain.TransactionStore, logger *zap.Logger) *SuggestService {
	return &SuggestService{
		companies:  companies,
		categories: categories,
		txs:        txs,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

type SuggestResult struct {
	CompanyID int64                   `json:"company_id"`
	Period    domain.Period           `json:"period"`
	Items     []domain.SuggestionItem `json:"items"`
}

// Suggest runs the ordered keyword rules over uncategorized transactions in
// the period. Read-mostly, with one documented side effect: target categories
// are auto-provisioned (lookup-or-create) the first time a rule fires for the
// tenant.
func (s *SuggestService) Suggest(ctx context.Context, tenantID, companyID int64, start, end string, limit int, includeNoMatch bool) (*SuggestResult, error) {
	if _, err := s.companies.GetByID(ctx, companyID, tenantID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, err
	}

	startDt, endDt, period, err := domain.ResolvePeriod(start, end, s.now())
	if err != nil {
		return nil, err
	}

	if limit <= 0 || limit > DefaultSuggestLimit {
		limit = DefaultSuggestLimit
	}

	txs, err := s.txs.Uncategorized(ctx, tenantID, companyID, startDt, endDt, limit, 0)
	if err != nil {
		return nil, err
	}

	// One lookup-or-create per distinct category name per call.
	resolved := map[string]*domain.Category{}

	items := make([]domain.SuggestionItem, 0, len(txs))
	for _, t := range txs {
		rule, keyword := domain.MatchRule(t.Description)
		if rule == nil {
			if !includeNoMatch {
				continue
			}
			items = append(items, domain.SuggestionItem{
				TransactionID:       t.ID,
				Description:         t.Description,
				SuggestedCategoryID: nil,
				Confidence:          0.0,
				Rule:                domain.RuleNoMatch,
				Provider:            domain.ProviderRuleBased,
				Reason:              "nenhuma regra reconheceu a descrição",
				Signals:             []string{},
			})
			continue
		}

		cat, ok := resolved[rule.CategoryName]
		if !ok {
			cat, err = s.categories.LookupOrCreate(ctx, tenantID, rule.CategoryName)
			if err != nil {
				return nil, fmt.Errorf("resolve category %q: %w", rule.CategoryName, err)
			}
			resolved[rule.CategoryName] = cat
		}

		catID := cat.ID
		items = append(items, domain.SuggestionItem{
			TransactionID:       t.ID,
			Description:         t.Description,
			SuggestedCategoryID: &catID,
			CategoryName:        cat.Name,
			Confidence:          rule.Confidence,
			Rule:                rule.ID,
			Provider:            domain.ProviderRuleBased,
			Reason:              fmt.Sprintf("descrição contém %q (regra %s)", keyword, rule.ID),
			Signals:             []string{"keyword:" + keyword, "rule:" + rule.ID},
		})
	}

	items = s.enhance(ctx, tenantID, companyID, period, txs, items)

	s.logger.Debug("suggestion pass finished",
		zap.Int64("tenant_id", tenantID),
		zap.Int64("company_id", companyID),
		zap.Int("scanned", len(txs)),
		zap.Int("suggested", len(items)),
	)

	return &SuggestResult{CompanyID: companyID, Period: period, Items: items}, nil
}

// enhance lets the external provider refine the rule-based items. Every
// provider failure, malformed item or unknown transaction id degrades back to
// the deterministic output without surfacing an error.
func (s *SuggestService) enhance(ctx context.Context, tenantID, companyID int64, period domain.Period, txs []domain.TransactionBrief, items []domain.SuggestionItem) []domain.SuggestionItem {
	if s.enhancer == nil || len(txs) == 0 {
		return items
	}

	categories, err := s.categories.List(ctx, tenantID)
	if err != nil {
		s.logger.Warn("enhancement skipped: listing categories failed", zap.Error(err))
		return items
	}

	raw, err := s.enhancer.SuggestCategories(ctx, ai.SuggestRequest{
		CompanyID:    companyID,
		Period:       period,
		Transactions: txs,
		Categories:   categories,
	})
	if err != nil {
		s.logger.Warn("enhancement skipped: provider failed", zap.Error(err))
		return items
	}
	if len(raw) == 0 {
		return items
	}

	known := make(map[int64]string, len(txs))
	for _, t := range txs {
		known[t.ID] = t.Description
	}
	validCats := make(map[int64]string, len(categories))
	for _, c := range categories {
		validCats[c.ID] = c.Name
	}

	byID := make(map[int64]int, len(items))
	for i, it := range items {
		byID[it.TransactionID] = i
	}

	for _, m := range raw {
		item, ok := ai.Normalize(m, s.enhancer.Name())
		if !ok {
			continue
		}
		desc, ok := known[item.TransactionID]
		if !ok {
			continue
		}
		if item.SuggestedCategoryID == nil {
			continue
		}
		name, ok := validCats[*item.SuggestedCategoryID]
		if !ok {
			continue
		}
		item.CategoryName = name
		if item.Description == "" {
			item.Description = desc
		}
		if idx, ok := byID[item.TransactionID]; ok {
			items[idx] = item
		} else {
			items = append(items, item)
		}
	}
	return items
}
