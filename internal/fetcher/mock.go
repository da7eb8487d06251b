package fetcher

import "context"

// Mock is a test double for Interface.
type Mock struct {
	FetchFunc func(ctx context.Context, rawURL string) (string, error)
}

// Fetch implements Interface.Fetch.
func (m *Mock) Fetch(ctx context.Context, rawURL string) (string, error) {
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, rawURL)
	}
	return "", nil
}
