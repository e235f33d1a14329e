package domain

import (
	"reflect"
	"testing"
)

func catID(id int64) *int64 { return &id }

func TestClassifyBulkItemsBuckets(t *testing.T) {
	refs := map[int64]TransactionRef{
		1: {ID: 1, TenantID: 10, CompanyID: 100},
		2: {ID: 2, TenantID: 10, CompanyID: 100},
		3: {ID: 3, TenantID: 99, CompanyID: 100},  // other tenant
		4: {ID: 4, TenantID: 10, CompanyID: 200},  // other company
	}
	validCats := map[int64]bool{7: true}

	items := []BulkItem{
		{ID: 1, CategoryID: catID(7)},  // applicable
		{ID: 2, CategoryID: catID(8)},  // invalid category
		{ID: 3, CategoryID: catID(7)},  // skipped (tenant)
		{ID: 4, CategoryID: catID(7)},  // skipped (company)
		{ID: 5, CategoryID: catID(7)},  // missing
	}

	applicable, result := ClassifyBulkItems(10, 100, items, refs, validCats)

	if len(applicable) != 1 || applicable[0].ID != 1 {
		t.Fatalf("expected only item 1 applicable, got %+v", applicable)
	}
	if !reflect.DeepEqual(result.MissingIDs, []int64{5}) {
		t.Fatalf("unexpected missing_ids %v", result.MissingIDs)
	}
	if !reflect.DeepEqual(result.SkippedIDs, []int64{3, 4}) {
		t.Fatalf("unexpected skipped_ids %v", result.SkippedIDs)
	}
	if !reflect.DeepEqual(result.InvalidCategoryIDs, []int64{8}) {
		t.Fatalf("unexpected invalid_category_ids %v", result.InvalidCategoryIDs)
	}
}

func TestClassifyBulkItemsClearCategory(t *testing.T) {
	refs := map[int64]TransactionRef{1: {ID: 1, TenantID: 10, CompanyID: 100}}

	// nil category clears the assignment and needs no category validation
	applicable, result := ClassifyBulkItems(10, 100, []BulkItem{{ID: 1, CategoryID: nil}}, refs, nil)
	if len(applicable) != 1 {
		t.Fatalf("expected clearing item to be applicable, got %+v", result)
	}
}

func TestClassifyBulkItemsDedupAndSort(t *testing.T) {
	items := []BulkItem{
		{ID: 9, CategoryID: catID(1)},
		{ID: 3, CategoryID: catID(1)},
		{ID: 9, CategoryID: catID(1)},
	}
	_, result := ClassifyBulkItems(10, 100, items, map[int64]TransactionRef{}, nil)
	if !reflect.DeepEqual(result.MissingIDs, []int64{3, 9}) {
		t.Fatalf("expected deduplicated sorted ids, got %v", result.MissingIDs)
	}
}
