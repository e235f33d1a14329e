package domain

import "time"

// Category is a tenant-scoped classification bucket. Created explicitly or
// auto-provisioned by the suggestion engine the first time a rule referencing
// its name fires.
type Category struct {
	ID        int64     `json:"id"`
	TenantID  int64     `json:"-"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// UncategorizedLabel is the display name of the synthetic NULL-category bucket.
const UncategorizedLabel = "Sem categoria"
