package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/duesoon/internal/domain"
	"github.com/phrazzld/duesoon/internal/platform/email"
)

var _ email.Sender = (*MockSender)(nil)

// MockSender implements email.Sender for testing. By default every send
// succeeds with status 202.
type MockSender struct {
	// SendFn allows test cases to mock the Send behavior
	SendFn func(ctx context.Context, msg domain.Notification) (email.Receipt, error)

	mu   sync.Mutex
	sent []domain.Notification
}

// Send implements the email.Sender interface
func (m *MockSender) Send(ctx context.Context, msg domain.Notification) (email.Receipt, error) {
	m.mu.Lock()
	m.sent = append(m.sent, msg)
	m.mu.Unlock()

	if m.SendFn != nil {
		return m.SendFn(ctx, msg)
	}
	return email.Receipt{Provider: "mock", StatusCode: 202}, nil
}

// Sent returns every message passed to Send, in call order.
func (m *MockSender) Sent() []domain.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Notification(nil), m.sent...)
}
