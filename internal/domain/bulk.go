package domain

import (
	"fmt"
	"sort"
)

// MaxBulkItems is the hard ceiling for one bulk-categorize batch.
const MaxBulkItems = 500

// TooManyItemsError reports a batch above MaxBulkItems; nothing is applied.
type TooManyItemsError struct {
	Count int
}

func (e *TooManyItemsError) Error() string {
	return fmt.Sprintf("too many items: %d (limit %d per batch)", e.Count, MaxBulkItems)
}

// BulkItem is one {transaction, category} assignment. A nil CategoryID clears
// the transaction's category.
type BulkItem struct {
	ID         int64  `json:"id"`
	CategoryID *int64 `json:"category_id"`
}

// BulkResult reports per-item soft failures alongside the applied count. The
// id lists are deduplicated and sorted ascending for determinism.
type BulkResult struct {
	Updated            int     `json:"updated"`
	MissingIDs         []int64 `json:"missing_ids"`
	SkippedIDs         []int64 `json:"skipped_ids"`
	InvalidCategoryIDs []int64 `json:"invalid_category_ids"`
}

// TransactionRef is the minimal ownership view of a transaction used to
// validate bulk assignments.
type TransactionRef struct {
	ID        int64
	TenantID  int64
	CompanyID int64
}

// ClassifyBulkItems partitions a batch into applicable pairs and the three
// soft-failure buckets:
//   - transaction absent              -> missing_ids
//   - transaction of another owner    -> skipped_ids
//   - category absent or wrong tenant -> invalid_category_ids (pair dropped)
func ClassifyBulkItems(tenantID, companyID int64, items []BulkItem, refs map[int64]TransactionRef, validCategoryIDs map[int64]bool) ([]BulkItem, BulkResult) {
	var applicable []BulkItem
	missing := map[int64]bool{}
	skipped := map[int64]bool{}
	invalidCats := map[int64]bool{}

	for _, it := range items {
		ref, ok := refs[it.ID]
		if !ok {
			missing[it.ID] = true
			continue
		}
		if ref.TenantID != tenantID || ref.CompanyID != companyID {
			skipped[it.ID] = true
			continue
		}
		if it.CategoryID != nil && !validCategoryIDs[*it.CategoryID] {
			invalidCats[*it.CategoryID] = true
			continue
		}
		applicable = append(applicable, it)
	}

	return applicable, BulkResult{
		Updated:            0,
		MissingIDs:         sortedIDs(missing),
		SkippedIDs:         sortedIDs(skipped),
		InvalidCategoryIDs: sortedIDs(invalidCats),
	}
}

func sortedIDs(set map[int64]bool) []int64 {
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
