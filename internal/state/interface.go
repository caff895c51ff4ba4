package state

import "context"

// Interface defines the state manager contract for dependency injection and testing.
type Interface interface {
	SaveViewer(state ViewerState)
	GetViewer() (*ViewerState, error)
	RecordView(ctx context.Context, entry HistoryEntry) error
	History(limit int) ([]HistoryEntry, error)
	Close() error
}

// Verify Manager implements Interface at compile time.
var _ Interface = (*Manager)(nil)
