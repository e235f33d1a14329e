package domain

import "sort"

// Thresholds for the diagnostics engine, in integer cents unless noted.
const (
	// RecurrenceMinCents is the minimum summed amount for a repeated
	// description group to count as recurring spending.
	RecurrenceMinCents int64 = 1000
	// LargeOutflowFloorCents flags a single expense as outsized regardless of
	// its share of total out-spending.
	LargeOutflowFloorCents int64 = 50000
	// TopCategoryConcentrationPct is the out-spending share above which the
	// top category is considered a concentration risk.
	TopCategoryConcentrationPct = 45.0
	// LargestShareRiskPct flags the single largest expense by share of total
	// out-spending.
	LargestShareRiskPct = 25.0
	// OutflowGrowthRiskPct is the period-over-period out-spending increase
	// treated as a deterioration signal.
	OutflowGrowthRiskPct = 20.0
)

// SpendingGroup aggregates out-transactions sharing a normalized description.
type SpendingGroup struct {
	Description string `json:"description"`
	TotalCents  int64  `json:"total_cents"`
	Count       int    `json:"count"`
}

// BuildSpendingGroups groups out-kind transactions by normalized description,
// ordered by total descending (description ascending as tie-break).
func BuildSpendingGroups(txs []TransactionBrief) []SpendingGroup {
	byDesc := map[string]*SpendingGroup{}
	for _, t := range txs {
		if t.Kind != KindOut {
			continue
		}
		desc := NormalizeDescription(t.Description)
		g, ok := byDesc[desc]
		if !ok {
			g = &SpendingGroup{Description: desc}
			byDesc[desc] = g
		}
		g.TotalCents += t.AmountCents
		g.Count++
	}

	groups := make([]SpendingGroup, 0, len(byDesc))
	for _, g := range byDesc {
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].TotalCents != groups[j].TotalCents {
			return groups[i].TotalCents > groups[j].TotalCents
		}
		return groups[i].Description < groups[j].Description
	})
	return groups
}

// RecurringGroups filters groups appearing at least twice with a summed
// amount at or above minCents.
func RecurringGroups(groups []SpendingGroup, minCents int64) []SpendingGroup {
	var out []SpendingGroup
	for _, g := range groups {
		if g.Count >= 2 && g.TotalCents >= minCents {
			out = append(out, g)
		}
	}
	return out
}

// LargestOutflow returns the single biggest out-transaction, or nil.
func LargestOutflow(txs []TransactionBrief) *TransactionBrief {
	var best *TransactionBrief
	for i := range txs {
		t := &txs[i]
		if t.Kind != KindOut {
			continue
		}
		if best == nil || t.AmountCents > best.AmountCents {
			best = t
		}
	}
	return best
}

// RunwayDays estimates days of operation remaining at the period's burn rate:
// avg daily out = ceil(outflow/days); runway = floor(balance / avg daily out).
// Returns (0, false) when there is no out-spending (runway undefined).
func RunwayDays(balanceCents, outflowCents, periodDays int64) (int64, bool) {
	if periodDays < 1 {
		periodDays = 1
	}
	avgDailyOut := ceilDiv(outflowCents, periodDays)
	if avgDailyOut <= 0 {
		return 0, false
	}
	return floorDiv(balanceCents, avgDailyOut), true
}

// RunwayBand classifies a runway estimate.
func RunwayBand(days int64) string {
	switch {
	case days < 0:
		return "structural deficit"
	case days < 15:
		return "critical"
	case days < 30:
		return "high risk"
	case days < 60:
		return "attention"
	default:
		return "healthy"
	}
}

func ceilDiv(a, b int64) int64 {
	return (a + b - 1) / b
}

// floorDiv rounds toward negative infinity so a negative balance yields a
// negative runway rather than truncating to zero.
func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// HealthInput carries the period facts the health score is derived from.
type HealthInput struct {
	InflowCents          int64
	OutflowCents         int64
	BalanceCents         int64
	UncategorizedCount   int64
	TopCategoryOutCents  int64
	HasRecurringSpending bool
	LargestOutflowCents  int64
	PriorOutflowCents    int64
	HasPriorPeriod       bool
}

// Score deductions; order-independent since all are subtractive.
const (
	penaltyNoIncome           = 25
	penaltyNegativeBalance    = 10
	penaltyBurn               = 15
	penaltyUncategorized      = 10
	penaltyConcentration      = 10
	penaltyRecurring          = 5
	penaltyLargeOutflow       = 5
	penaltyOutflowGrowth      = 10
	healthyScoreThreshold     = 80
	attentionScoreThreshold   = 60
	uncategorizedCountTrigger = 2
)

// HealthScore computes the deterministic 0-100 composite indicator.
func HealthScore(in HealthInput) int {
	score := 100

	if in.OutflowCents > 0 && in.InflowCents == 0 {
		score -= penaltyNoIncome
	}
	if in.BalanceCents < 0 {
		score -= penaltyNegativeBalance
	}
	if in.OutflowCents > in.InflowCents && in.InflowCents > 0 {
		score -= penaltyBurn
	}
	if in.UncategorizedCount >= uncategorizedCountTrigger {
		score -= penaltyUncategorized
	}
	if in.OutflowCents > 0 {
		topShare := float64(in.TopCategoryOutCents) / float64(in.OutflowCents) * 100
		if topShare >= TopCategoryConcentrationPct {
			score -= penaltyConcentration
		}
		largestShare := float64(in.LargestOutflowCents) / float64(in.OutflowCents) * 100
		if in.LargestOutflowCents >= LargeOutflowFloorCents || largestShare >= LargestShareRiskPct {
			score -= penaltyLargeOutflow
		}
	}
	if in.HasRecurringSpending {
		score -= penaltyRecurring
	}
	if in.HasPriorPeriod && in.PriorOutflowCents > 0 {
		growth := float64(in.OutflowCents-in.PriorOutflowCents) / float64(in.PriorOutflowCents) * 100
		if growth >= OutflowGrowthRiskPct {
			score -= penaltyOutflowGrowth
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// HealthStatus bands a score: >=80 healthy, >=60 attention, else critical.
func HealthStatus(score int) string {
	switch {
	case score >= healthyScoreThreshold:
		return "healthy"
	case score >= attentionScoreThreshold:
		return "attention"
	default:
		return "critical"
	}
}
