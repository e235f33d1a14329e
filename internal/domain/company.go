package domain

import "time"

// Company is a legal entity owned by exactly one tenant. Immutable once
// created; (tenant_id, cnpj) is unique.
type Company struct {
	ID        int64     `json:"id"`
	TenantID  int64     `json:"-"`
	CNPJ      string    `json:"cnpj"`
	LegalName string    `json:"razao_social"`
	CreatedAt time.Time `json:"created_at"`
}

// ValidCNPJ reports whether s is exactly 14 digits.
func ValidCNPJ(s string) bool {
	if len(s) != 14 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
