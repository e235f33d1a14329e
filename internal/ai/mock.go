package ai

import "context"

// MockClient is a configurable suggestion provider for testing.
// Set the response fields to control what SuggestCategories returns.
type MockClient struct {
	SuggestResponse []map[string]any
	SuggestError    error

	// Call tracking for assertions
	SuggestCalls []SuggestRequest
}

func NewMockClient() *MockClient {
	return &MockClient{SuggestResponse: []map[string]any{}}
}

func (c *MockClient) Name() string { return ProviderMock }

func (c *MockClient) SuggestCategories(ctx context.Context, req SuggestRequest) ([]map[string]any, error) {
	c.SuggestCalls = append(c.SuggestCalls, req)
	if c.SuggestError != nil {
		return nil, c.SuggestError
	}
	return c.SuggestResponse, nil
}
