package ai

import "testing"

func TestNormalizeFullItem(t *testing.T) {
	item, ok := Normalize(map[string]any{
		"id":                    float64(42),
		"description":           "Aluguel loja",
		"suggested_category_id": float64(7),
		"category_name":         "Aluguel",
		"confidence":            0.91,
		"rule":                  "llm-v2",
		"reason":                "descrição típica de aluguel",
		"signals":               []any{"keyword:aluguel"},
	}, ProviderHTTP)
	if !ok {
		t.Fatal("expected item to normalize")
	}
	if item.TransactionID != 42 {
		t.Fatalf("expected id 42, got %d", item.TransactionID)
	}
	if item.SuggestedCategoryID == nil || *item.SuggestedCategoryID != 7 {
		t.Fatalf("unexpected category id %v", item.SuggestedCategoryID)
	}
	if item.Confidence != 0.91 || item.Rule != "llm-v2" {
		t.Fatalf("unexpected fields %+v", item)
	}
	if item.Provider != ProviderHTTP {
		t.Fatalf("expected provider %q, got %q", ProviderHTTP, item.Provider)
	}
}

func TestNormalizeCarriesProviderName(t *testing.T) {
	item, ok := Normalize(map[string]any{"id": float64(1)}, ProviderMock)
	if !ok || item.Provider != ProviderMock {
		t.Fatalf("expected provider %q carried, got %+v ok=%v", ProviderMock, item, ok)
	}

	// No provider name degrades to the generic marker.
	item, ok = Normalize(map[string]any{"id": float64(2)}, "")
	if !ok || item.Provider != ProviderAI {
		t.Fatalf("expected fallback provider %q, got %+v ok=%v", ProviderAI, item, ok)
	}
}

func TestNormalizeTransactionIDFallback(t *testing.T) {
	item, ok := Normalize(map[string]any{"transaction_id": float64(9)}, ProviderHTTP)
	if !ok || item.TransactionID != 9 {
		t.Fatalf("expected fallback to transaction_id, got %+v ok=%v", item, ok)
	}
}

func TestNormalizeDefaults(t *testing.T) {
	item, ok := Normalize(map[string]any{"id": float64(1)}, ProviderHTTP)
	if !ok {
		t.Fatal("expected item to normalize")
	}
	if item.Confidence != 0.0 {
		t.Fatalf("expected confidence default 0.0, got %f", item.Confidence)
	}
	if item.Signals == nil || len(item.Signals) != 0 {
		t.Fatalf("expected empty signals slice, got %v", item.Signals)
	}
	if item.Reason != "" {
		t.Fatalf("expected empty reason, got %q", item.Reason)
	}
	if item.Rule != "ai" {
		t.Fatalf("expected rule fallback ai, got %q", item.Rule)
	}
	if item.SuggestedCategoryID != nil {
		t.Fatal("expected nil category id")
	}
}

func TestNormalizeMissingID(t *testing.T) {
	if _, ok := Normalize(map[string]any{"description": "sem id"}, ProviderHTTP); ok {
		t.Fatal("item without any id must be rejected")
	}
}

func TestNormalizeCategoryIDFallback(t *testing.T) {
	item, ok := Normalize(map[string]any{"id": float64(1), "category_id": float64(3)}, ProviderHTTP)
	if !ok || item.SuggestedCategoryID == nil || *item.SuggestedCategoryID != 3 {
		t.Fatalf("expected category_id fallback, got %+v", item)
	}
}

func TestNormalizeIgnoresMalformedSignals(t *testing.T) {
	item, ok := Normalize(map[string]any{
		"id":      float64(1),
		"signals": []any{"ok", 12, nil, "fine"},
	}, ProviderHTTP)
	if !ok {
		t.Fatal("expected item to normalize")
	}
	if len(item.Signals) != 2 {
		t.Fatalf("expected non-string signals dropped, got %v", item.Signals)
	}
}
