package state

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	dbutil "github.com/llehouerou/imgview/internal/db"
)

// ViewerState is the session restored on the next start.
type ViewerState struct {
	Locator    string
	Gallery    []string
	Position   int
	FullScreen bool
	SavedAt    time.Time
}

func getViewer(db *sql.DB) (*ViewerState, error) {
	row := db.QueryRow(`
		SELECT locator, gallery, position, fullscreen, saved_at
		FROM viewer_state WHERE id = 1
	`)

	var state ViewerState
	var gallery sql.NullString
	var fullscreen int
	var savedAt sql.NullInt64

	err := row.Scan(&state.Locator, &gallery, &state.Position, &fullscreen, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // no saved state is valid on first run
	}
	if err != nil {
		return nil, err
	}

	if g := dbutil.NullStringValue(gallery); g != "" {
		if err := json.Unmarshal([]byte(g), &state.Gallery); err != nil {
			return nil, err
		}
	}
	state.FullScreen = fullscreen != 0
	state.SavedAt = dbutil.UnixTime(savedAt)

	if state.Position < 0 || state.Position >= len(state.Gallery) {
		state.Position = 0
	}

	return &state, nil
}

func saveViewer(db *sql.DB, state ViewerState) error {
	var gallery sql.NullString
	if len(state.Gallery) > 0 {
		data, err := json.Marshal(state.Gallery)
		if err != nil {
			return err
		}
		gallery = sql.NullString{String: string(data), Valid: true}
	}

	savedAt := state.SavedAt
	if savedAt.IsZero() {
		savedAt = time.Now()
	}

	fullscreen := 0
	if state.FullScreen {
		fullscreen = 1
	}

	_, err := db.Exec(`
		INSERT INTO viewer_state (id, locator, gallery, position, fullscreen, saved_at)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			locator = excluded.locator,
			gallery = excluded.gallery,
			position = excluded.position,
			fullscreen = excluded.fullscreen,
			saved_at = excluded.saved_at
	`, state.Locator, gallery, state.Position, fullscreen, savedAt.Unix())

	return err
}
