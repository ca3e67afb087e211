package rosterfeed

import (
	"context"
	"slices"
	"sync"
)

// MockClient is a mock roster feed client for testing
type MockClient struct {
	mu       sync.Mutex
	names    []string
	fetchErr error
	urls     []string
}

// MockOption configures the mock client
type MockOption func(*MockClient)

// WithNames sets the names to return
func WithNames(names []string) MockOption {
	return func(m *MockClient) {
		m.names = names
	}
}

// WithFetchError sets an error to return from FetchRoster
func WithFetchError(err error) MockOption {
	return func(m *MockClient) {
		m.fetchErr = err
	}
}

// NewMockClient creates a new mock client returning DefaultMockNames
func NewMockClient(opts ...MockOption) *MockClient {
	m := &MockClient{names: DefaultMockNames()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// FetchRoster returns the configured names or error, recording the URL
func (m *MockClient) FetchRoster(ctx context.Context, feedURL string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.urls = append(m.urls, feedURL)
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return slices.Clone(m.names), nil
}

// FetchedURLs returns every URL passed to FetchRoster
func (m *MockClient) FetchedURLs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.urls)
}

// DefaultMockNames returns a small roster for tests
func DefaultMockNames() []string {
	return []string{"Ana", "Beto", "Cleo", "Dario", "Elena"}
}

var _ Client = (*MockClient)(nil)
var _ Client = (*HTTPClient)(nil)
