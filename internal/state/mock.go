package state

import (
	"context"
	"sync"
)

// Mock is a test double for Manager.
type Mock struct {
	mu      sync.Mutex
	viewer  *ViewerState
	saved   []ViewerState
	history []HistoryEntry
	closed  bool
}

// NewMock creates a new mock state manager for testing.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) SaveViewer(state ViewerState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, state)
	m.viewer = &state
}

func (m *Mock) GetViewer() (*ViewerState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.viewer, nil
}

func (m *Mock) RecordView(_ context.Context, entry HistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = append(m.history, entry)
	return nil
}

func (m *Mock) History(limit int) ([]HistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]HistoryEntry, 0, len(m.history))
	for i := len(m.history) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		out = append(out, m.history[i])
	}
	return out, nil
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Test helpers

func (m *Mock) SetViewer(state *ViewerState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.viewer = state
}

func (m *Mock) Saved() []ViewerState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ViewerState(nil), m.saved...)
}

func (m *Mock) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
