package ai

import (
	"context"
	"time"

	"github.com/reviewloop/pkg/models"
)

// mockDelay simulates backend latency so downstream timeout handling is
// exercised even without credentials.
const mockDelay = 500 * time.Millisecond

const mockResponse = `{
  "comments": [
    {
      "line": 1,
      "body": "Mock review: no AI credentials are configured, so this is a canned finding. Set ANTHROPIC_API_KEY or OPENAI_API_KEY to enable real analysis.",
      "severity": "info",
      "category": "general"
    }
  ]
}`

// MockBackend is the deterministic fallback used when no provider
// credential is configured. It returns one canned finding per file after
// an artificial delay.
type MockBackend struct {
	delay time.Duration
}

// NewMockBackend creates the mock backend with its default delay.
func NewMockBackend() *MockBackend {
	return &MockBackend{delay: mockDelay}
}

func (m *MockBackend) Name() string {
	return "mock"
}

// Analyze waits out the artificial delay, honoring cancellation, then
// returns the canned response.
func (m *MockBackend) Analyze(ctx context.Context, _ models.ReviewRequest) (string, error) {
	select {
	case <-time.After(m.delay):
	case <-ctx.Done():
		return "", ctx.Err()
	}
	return mockResponse, nil
}
