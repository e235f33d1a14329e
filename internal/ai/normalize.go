package ai

import (
	"encoding/json"

	"github.com/fluxocx/fluxo/internal/domain"
)

// ProviderAI is the generic audit marker used when the caller does not name
// the active provider.
const ProviderAI = "ai"

// Normalize reconciles one loosely-typed provider item into a SuggestionItem
// attributed to the named provider. Providers disagree on field names and
// types, so every field has a fallback: the id may arrive as "id" or
// "transaction_id" (any numeric type), confidence defaults to 0.0, signals to
// empty, reason to "", rule to "ai". Returns (zero, false) when no
// transaction id can be recovered.
func Normalize(item map[string]any, provider string) (domain.SuggestionItem, bool) {
	id, ok := asInt64(item["id"])
	if !ok {
		id, ok = asInt64(item["transaction_id"])
	}
	if !ok {
		return domain.SuggestionItem{}, false
	}
	if provider == "" {
		provider = ProviderAI
	}

	out := domain.SuggestionItem{
		TransactionID: id,
		Provider:      provider,
		Rule:          ProviderAI,
		Signals:       []string{},
	}

	if v, ok := item["description"].(string); ok {
		out.Description = v
	}
	if catID, ok := asInt64(item["suggested_category_id"]); ok {
		out.SuggestedCategoryID = &catID
	} else if catID, ok := asInt64(item["category_id"]); ok {
		out.SuggestedCategoryID = &catID
	}
	if v, ok := item["category_name"].(string); ok {
		out.CategoryName = v
	}
	if v, ok := asFloat64(item["confidence"]); ok {
		out.Confidence = v
	}
	if v, ok := item["rule"].(string); ok && v != "" {
		out.Rule = v
	}
	if v, ok := item["reason"].(string); ok {
		out.Reason = v
	}
	if raw, ok := item["signals"].([]any); ok {
		for _, s := range raw {
			if str, ok := s.(string); ok {
				out.Signals = append(out.Signals, str)
			}
		}
	}

	return out, true
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	default:
		return 0, false
	}
}

func asFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
