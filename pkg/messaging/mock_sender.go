package messaging

import (
	"context"
	"sync"
)

// MockMessageSender records messages in memory for tests.
type MockMessageSender struct {
	mu       sync.Mutex
	messages []*DoneMessage
}

// NewMockMessageSender creates a new MockMessageSender.
func NewMockMessageSender() *MockMessageSender {
	return &MockMessageSender{}
}

// SendDoneMessage records the message.
func (m *MockMessageSender) SendDoneMessage(_ context.Context, done *DoneMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, done)
	return nil
}

// Messages returns a copy of everything sent so far.
func (m *MockMessageSender) Messages() []*DoneMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*DoneMessage, len(m.messages))
	copy(out, m.messages)
	return out
}

// Close does nothing.
func (m *MockMessageSender) Close() error {
	return nil
}

// Ensure MockMessageSender implements MessageSender
var _ MessageSender = (*MockMessageSender)(nil)
