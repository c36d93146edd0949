package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/phrazzld/duesoon/internal/domain"
	"github.com/phrazzld/duesoon/internal/store"
)

var _ store.DueTaskReader = (*MockDueTaskReader)(nil)

// MockDueTaskReader implements store.DueTaskReader for testing
type MockDueTaskReader struct {
	Batch domain.DueTaskBatch
	Err   error

	mu   sync.Mutex
	days []time.Time
}

// ListDueTasks implements the store.DueTaskReader interface
func (m *MockDueTaskReader) ListDueTasks(_ context.Context, on time.Time) (domain.DueTaskBatch, error) {
	m.mu.Lock()
	m.days = append(m.days, on)
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	return m.Batch, nil
}

// Days returns the dates ListDueTasks was called with.
func (m *MockDueTaskReader) Days() []time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Time(nil), m.days...)
}
