package viewer

import "github.com/llehouerou/imgview/internal/source"

const eventBufferSize = 16

// Delivered is emitted after an image was handed to the engine.
type Delivered struct {
	Key     source.Key
	Locator string
	Size    int
}

// LoadState is emitted when a fetch starts (Active) and when it finishes.
type LoadState struct {
	Key      source.Key
	Locator  string
	Active   bool
	InFlight int
}

// EngineReady is emitted once, after the engine was set up.
type EngineReady struct {
	Width  int
	Height int
}

// Subscription provides event channels for a subscriber.
// Sends never block: events are dropped when a buffer is full, except
// loading states, which replace the oldest queued one.
type Subscription struct {
	Delivered <-chan Delivered
	Loading   <-chan LoadState
	Ready     <-chan EngineReady
	Error     <-chan error
	Done      <-chan struct{}

	deliveredCh chan Delivered
	loadingCh   chan LoadState
	readyCh     chan EngineReady
	errorCh     chan error
	doneCh      chan struct{}
}

func newSubscription() *Subscription {
	s := &Subscription{
		deliveredCh: make(chan Delivered, eventBufferSize),
		loadingCh:   make(chan LoadState, eventBufferSize),
		readyCh:     make(chan EngineReady, 1),
		errorCh:     make(chan error, eventBufferSize),
		doneCh:      make(chan struct{}),
	}
	s.Delivered = s.deliveredCh
	s.Loading = s.loadingCh
	s.Ready = s.readyCh
	s.Error = s.errorCh
	s.Done = s.doneCh
	return s
}

func (s *Subscription) close() {
	close(s.doneCh)
}

func (s *Subscription) sendDelivered(e Delivered) {
	select {
	case s.deliveredCh <- e:
	default:
	}
}

// sendLoading drops the oldest queued state when the buffer is full so the
// latest in-flight count always arrives.
func (s *Subscription) sendLoading(e LoadState) {
	for {
		select {
		case s.loadingCh <- e:
			return
		default:
		}
		select {
		case <-s.loadingCh:
		default:
		}
	}
}

func (s *Subscription) sendReady(e EngineReady) {
	select {
	case s.readyCh <- e:
	default:
	}
}

func (s *Subscription) sendError(err error) {
	select {
	case s.errorCh <- err:
	default:
	}
}
