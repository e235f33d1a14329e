package domain

import "fmt"

// Totals are period sums in integer cents. Absence of rows yields all zeros.
type Totals struct {
	InflowCents      int64 `json:"entradas_cents"`
	OutflowCents     int64 `json:"saidas_cents"`
	BalanceCents     int64 `json:"saldo_cents"`
	TransactionCount int64 `json:"qtd_transacoes"`
}

// CategoryBreakdown is one per-category aggregation row. A nil CategoryID is
// the synthetic uncategorized bucket.
type CategoryBreakdown struct {
	CategoryID       *int64 `json:"category_id"`
	CategoryName     string `json:"category_name"`
	InflowCents      int64  `json:"entradas_cents"`
	OutflowCents     int64  `json:"saidas_cents"`
	BalanceCents     int64  `json:"saldo_cents"`
	TransactionCount int64  `json:"qtd_transacoes"`
}

// DailyPoint is one calendar day present in the data (days with zero
// transactions are omitted).
type DailyPoint struct {
	Date         string `json:"date"`
	InflowCents  int64  `json:"entradas_cents"`
	OutflowCents int64  `json:"saidas_cents"`
	BalanceCents int64  `json:"saldo_cents"`
}

type TopMetric string

const (
	MetricInflows  TopMetric = "entradas"
	MetricOutflows TopMetric = "saidas"
	MetricBalance  TopMetric = "saldo"
)

// InvalidMetricError reports an unrecognized top-categories metric.
type InvalidMetricError struct {
	Value string
}

func (e *InvalidMetricError) Error() string {
	return fmt.Sprintf("invalid metric %q (use: entradas | saidas | saldo)", e.Value)
}

const MaxTopCategories = 20
