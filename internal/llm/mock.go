package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is one scripted reply for the MockProvider. Set Err to make
// the call fail instead.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider replays scripted replies in order and records every request
// it sees, so tests can assert on prompts and schemas without a live
// provider. Safe for concurrent use.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []Request
}

// NewMockProvider scripts the given replies, consumed one per Generate call.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

// Generate pops the next scripted reply. An exhausted script reports
// ErrProviderUnavailable.
func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	if len(m.responses) == 0 {
		return nil, &ErrProviderUnavailable{Err: nil}
	}

	next := m.responses[0]
	m.responses = m.responses[1:]
	if next.Err != nil {
		return nil, next.Err
	}

	return &Response{
		Content:    next.Content,
		Usage:      next.Usage,
		Model:      "mock",
		StopReason: "end",
	}, nil
}

func (m *MockProvider) ModelID() string { return "mock" }

// AddResponse queues another scripted reply.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// CallCount reports how many Generate calls have been made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
