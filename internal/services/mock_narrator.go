package services

import (
	"context"
	"sync"

	"github.com/zarabot/crates/pkg/chat"
)

// MockNarrator is a mock implementation of Narrator for testing
type MockNarrator struct {
	GenerateHintFunc func(ctx context.Context, messages []chat.Message) (string, error)

	// Track calls for testing
	GenerateHintCalls []GenerateHintCall

	mu sync.Mutex // protects fields above
}

type GenerateHintCall struct {
	Messages []chat.Message
}

// Ensure MockNarrator implements Narrator interface
var _ Narrator = (*MockNarrator)(nil)

// NewMockNarrator creates a new mock narrator
func NewMockNarrator() *MockNarrator {
	return &MockNarrator{}
}

func (m *MockNarrator) Name() string {
	return "mock"
}

// GenerateHint mocks hint generation
func (m *MockNarrator) GenerateHint(ctx context.Context, messages []chat.Message) (string, error) {
	m.mu.Lock()
	m.GenerateHintCalls = append(m.GenerateHintCalls, GenerateHintCall{Messages: messages})
	fn := m.GenerateHintFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, messages)
	}
	return "A glint of something here.\n\nA curious shape there.\n\nA faint, familiar smell.", nil
}

// SetGenerateHintError sets up the mock to return an error
func (m *MockNarrator) SetGenerateHintError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GenerateHintFunc = func(ctx context.Context, messages []chat.Message) (string, error) {
		return "", err
	}
}

// Calls returns a copy of the tracked calls in a thread-safe way
func (m *MockNarrator) Calls() []GenerateHintCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]GenerateHintCall, len(m.GenerateHintCalls))
	copy(calls, m.GenerateHintCalls)
	return calls
}
