// Package state persists the viewer session and view history in SQLite.
package state

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite" // SQLite driver
)

const (
	appName      = "imgview"
	dbFileName   = "imgview.db"
	saveDebounce = 500 * time.Millisecond

	defaultHistorySize = 100
)

type Manager struct {
	db          *sql.DB
	historySize int
	logger      zerolog.Logger

	saveMu    sync.Mutex
	saveTimer *time.Timer
	pending   *ViewerState
}

// Open opens the state database under the XDG data dir, keeping at most
// historySize view history entries.
func Open(historySize int, logger zerolog.Logger) (*Manager, error) {
	dbPath, err := getDBPath()
	if err != nil {
		return nil, err
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	m, err := newManager(db, historySize, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	return m, nil
}

func newManager(db *sql.DB, historySize int, logger zerolog.Logger) (*Manager, error) {
	if err := initSchema(db); err != nil {
		return nil, err
	}
	if historySize <= 0 {
		historySize = defaultHistorySize
	}
	return &Manager{db: db, historySize: historySize, logger: logger}, nil
}

func (m *Manager) Close() error {
	m.saveMu.Lock()
	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}
	pending := m.pending
	m.pending = nil
	m.saveMu.Unlock()

	// Flush pending state
	if pending != nil {
		if err := saveViewer(m.db, *pending); err != nil {
			m.logger.Warn().Err(err).Msg("failed to flush viewer state")
		}
	}

	return m.db.Close()
}

func (m *Manager) GetViewer() (*ViewerState, error) {
	return getViewer(m.db)
}

// SaveViewer stores the session after a short quiet period; only the last
// state saved within that period is written.
func (m *Manager) SaveViewer(state ViewerState) {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	m.pending = &state

	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}

	m.saveTimer = time.AfterFunc(saveDebounce, func() {
		m.saveMu.Lock()
		pending := m.pending
		m.pending = nil
		m.saveMu.Unlock()

		if pending != nil {
			if err := saveViewer(m.db, *pending); err != nil {
				m.logger.Warn().Err(err).Msg("failed to save viewer state")
			}
		}
	})
}

// RecordView adds a view of entry to the history and trims old entries.
func (m *Manager) RecordView(ctx context.Context, entry HistoryEntry) error {
	return recordView(ctx, m.db, entry, m.historySize)
}

// History returns up to limit entries, most recently viewed first.
func (m *Manager) History(limit int) ([]HistoryEntry, error) {
	return listHistory(m.db, limit)
}

func getDBPath() (string, error) {
	return xdg.DataFile(filepath.Join(appName, dbFileName))
}
