package service

import (
	"context"

	"github.com/fluxocx/fluxo/internal/domain"
	"go.uber.org/zap"
)

type ApplyResult struct {
	CompanyID          int64                   `json:"company_id"`
	Period             domain.Period           `json:"period"`
	DryRun             bool                    `json:"dry_run"`
	Suggested          int                     `json:"suggested"`
	Updated            int                     `json:"updated"`
	Items              []domain.SuggestionItem `json:"items"`
	MissingIDs         []int64                 `json:"missing_ids"`
	SkippedIDs         []int64                 `json:"skipped_ids"`
	InvalidCategoryIDs []int64                 `json:"invalid_category_ids"`
}

// Apply runs a suggestion pass and, unless dryRun, commits every matched pair
// through the bulk-categorize path. No-match transactions are never written.
func (s *SuggestService) Apply(ctx context.Context, tenantID, companyID int64, start, end string, limit int, dryRun bool) (*ApplyResult, error) {
	sr, err := s.Suggest(ctx, tenantID, companyID, start, end, limit, false)
	if err != nil {
		return nil, err
	}

	res := &ApplyResult{
		CompanyID:          companyID,
		Period:             sr.Period,
		DryRun:             dryRun,
		Suggested:          len(sr.Items),
		Items:              sr.Items,
		MissingIDs:         []int64{},
		SkippedIDs:         []int64{},
		InvalidCategoryIDs: []int64{},
	}

	if dryRun || len(sr.Items) == 0 {
		return res, nil
	}

	batch := make([]domain.BulkItem, 0, len(sr.Items))
	for _, it := range sr.Items {
		if it.SuggestedCategoryID == nil {
			continue
		}
		batch = append(batch, domain.BulkItem{ID: it.TransactionID, CategoryID: it.SuggestedCategoryID})
	}

	bulk, err := s.txs.BulkCategorize(ctx, tenantID, companyID, batch)
	if err != nil {
		return nil, err
	}

	res.Updated = bulk.Updated
	res.MissingIDs = bulk.MissingIDs
	res.SkippedIDs = bulk.SkippedIDs
	res.InvalidCategoryIDs = bulk.InvalidCategoryIDs

	s.logger.Info("suggestions applied",
		zap.Int64("tenant_id", tenantID),
		zap.Int64("company_id", companyID),
		zap.Int("suggested", res.Suggested),
		zap.Int("updated", res.Updated),
	)
	return res, nil
}
