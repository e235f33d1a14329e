package domain

import "time"

type TransactionKind string

const (
	KindIn  TransactionKind = "in"
	KindOut TransactionKind = "out"
)

func ValidTransactionKind(s string) bool {
	return s == string(KindIn) || s == string(KindOut)
}

// Transaction is a ledger entry. Amounts are integer minor units (cents);
// rows with a nil OccurredAt are excluded from all period-based reporting.
type Transaction struct {
	ID          int64           `json:"id"`
	TenantID    int64           `json:"-"`
	CompanyID   int64           `json:"company_id"`
	CategoryID  *int64          `json:"category_id"`
	Kind        TransactionKind `json:"kind"`
	AmountCents int64           `json:"amount_cents"`
	OccurredAt  *time.Time      `json:"occurred_at"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}

// TransactionBrief is the read shape used by reports: a transaction joined
// with its category name.
type TransactionBrief struct {
	ID           int64           `json:"id"`
	OccurredAt   time.Time       `json:"occurred_at"`
	Kind         TransactionKind `json:"kind"`
	AmountCents  int64           `json:"amount_cents"`
	CategoryID   *int64          `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Description  string          `json:"description"`
}

const MaxDescriptionLen = 200
