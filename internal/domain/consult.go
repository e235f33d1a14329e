package domain

import "time"

// ConsultResult is the diagnostics payload: a scored financial-health
// assessment over a period, fully deterministic given the same data.
type ConsultResult struct {
	CompanyID   int64     `json:"company_id"`
	Period      Period    `json:"period"`
	GeneratedAt time.Time `json:"generated_at"`

	Headline string   `json:"headline"`
	Insights []string `json:"insights"`
	Risks    []string `json:"risks"`
	Actions  []string `json:"actions"`

	HealthScore  int    `json:"health_score"`
	HealthStatus string `json:"health_status"`
	RunwayDays   *int64 `json:"runway_days,omitempty"`

	Numbers            Totals              `json:"numbers"`
	TopCategories      []CategoryBreakdown `json:"top_categories"`
	SpendingGroups     []SpendingGroup     `json:"spending_groups"`
	RecentTransactions []TransactionBrief  `json:"recent_transactions"`
}

const (
	// ConsultRecentLimit caps the transactions echoed back by consult.
	ConsultRecentLimit = 20
	// ConsultTopCategoriesLimit caps the category breakdown echoed back.
	ConsultTopCategoriesLimit = 8
	// ConsultTopGroupsLimit caps the spending groups echoed back.
	ConsultTopGroupsLimit = 5
	// ConsultNarratedCategories is how many out-spending categories the
	// narrative enumerates with their share of total out-spending.
	ConsultNarratedCategories = 3
)
