package domain

// SuggestionItem is a derived, never-persisted category proposal for a single
// transaction. Produced fresh on every call.
type SuggestionItem struct {
	TransactionID       int64    `json:"id"`
	Description         string   `json:"description"`
	SuggestedCategoryID *int64   `json:"suggested_category_id"`
	CategoryName        string   `json:"category_name,omitempty"`
	Confidence          float64  `json:"confidence"`
	Rule                string   `json:"rule"`
	Provider            string   `json:"provider"`
	Reason              string   `json:"reason"`
	Signals             []string `json:"signals"`
}
