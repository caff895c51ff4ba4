package bridge

import (
	"context"
	"sync"
)

// Call records one engine call made through the bridge.
type Call struct {
	Method string // "setup", "load_image" or "fullscreen"
	Width  int
	Height int
	Data   []byte
	Size   int
}

// Mock is a test double for Engine. It never becomes ready on its own;
// tests call SignalReady.
type Mock struct {
	mu       sync.Mutex
	calls    []Call
	ready    func()
	started  chan struct{}
	startErr error
	events   chan Call
}

// NewMock creates a new mock engine.
func NewMock() *Mock {
	return &Mock{
		started: make(chan struct{}),
		events:  make(chan Call, 64),
	}
}

func (m *Mock) Start(_ context.Context, ready func()) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.startErr != nil {
		return m.startErr
	}
	m.ready = ready
	close(m.started)
	return nil
}

func (m *Mock) Setup(width, height int) {
	m.record(Call{Method: "setup", Width: width, Height: height})
}

func (m *Mock) LoadImage(data []byte, size int) {
	// The engine may not retain data past the call.
	cp := make([]byte, len(data))
	copy(cp, data)
	m.record(Call{Method: "load_image", Data: cp, Size: size})
}

func (m *Mock) RequestFullScreen() {
	m.record(Call{Method: "fullscreen"})
}

func (m *Mock) record(c Call) {
	m.mu.Lock()
	m.calls = append(m.calls, c)
	m.mu.Unlock()

	select {
	case m.events <- c:
	default:
	}
}

// Test helpers

// SetStartError makes Start fail with err.
func (m *Mock) SetStartError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startErr = err
}

// Started is closed once Start has been called successfully.
func (m *Mock) Started() <-chan struct{} { return m.started }

// SignalReady invokes the ready callback passed to Start.
func (m *Mock) SignalReady() {
	<-m.started
	m.mu.Lock()
	ready := m.ready
	m.mu.Unlock()
	ready()
}

// Events receives every recorded call.
func (m *Mock) Events() <-chan Call { return m.events }

// Calls returns a copy of all recorded calls in order.
func (m *Mock) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

// LoadImageCalls returns only the recorded accept-image calls.
func (m *Mock) LoadImageCalls() []Call {
	var out []Call
	for _, c := range m.Calls() {
		if c.Method == "load_image" {
			out = append(out, c)
		}
	}
	return out
}

// Verify Mock implements Engine at compile time.
var _ Engine = (*Mock)(nil)
