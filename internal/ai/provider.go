// Package ai is the optional enhancement facade over the deterministic
// suggestion engine. A provider may re-rank or annotate suggestions; any
// provider failure degrades silently back to the rule-based output.
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/fluxocx/fluxo/internal/domain"
)

// Provider constants
const (
	ProviderNull = "null"
	ProviderHTTP = "http"
	ProviderMock = "mock"
)

// SuggestRequest is the payload handed to an external provider.
type SuggestRequest struct {
	CompanyID    int64                     `json:"company_id"`
	Period       domain.Period             `json:"period"`
	Transactions []domain.TransactionBrief `json:"transactions"`
	Categories   []domain.Category         `json:"categories"`
}

// Client is an external suggestion provider. Responses are loosely typed
// maps because providers disagree on field names; Normalize reconciles them.
// Name identifies the active provider on audit fields of normalized items.
type Client interface {
	Name() string
	SuggestCategories(ctx context.Context, req SuggestRequest) ([]map[string]any, error)
}

// NewClient creates a suggestion provider based on the provider name.
// Returns an error if the provider is unknown or required settings are
// missing (except for null and mock).
func NewClient(provider, baseURL, apiKey string, timeout time.Duration) (Client, error) {
	switch provider {
	case ProviderNull, "":
		return NewNullClient(), nil

	case ProviderHTTP:
		if baseURL == "" {
			return nil, fmt.Errorf("AI_BASE_URL is required for http provider")
		}
		return NewHTTPClient(baseURL, apiKey, timeout), nil

	case ProviderMock:
		return NewMockClient(), nil

	default:
		return nil, fmt.Errorf("unknown AI provider: %s (valid options: null, http, mock)", provider)
	}
}

// NullClient never produces suggestions; the rule-based engine stands alone.
type NullClient struct{}

func NewNullClient() *NullClient { return &NullClient{} }

func (c *NullClient) Name() string { return ProviderNull }

func (c *NullClient) SuggestCategories(ctx context.Context, req SuggestRequest) ([]map[string]any, error) {
	return nil, nil
}
