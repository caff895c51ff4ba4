package state

import (
	"database/sql"
)

const currentSchemaVersion = 1

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS viewer_state (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			locator TEXT NOT NULL,
			gallery TEXT,
			position INTEGER NOT NULL DEFAULT 0,
			fullscreen INTEGER NOT NULL DEFAULT 0,
			saved_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS view_history (
			key TEXT PRIMARY KEY,
			locator TEXT NOT NULL,
			bytes INTEGER NOT NULL DEFAULT 0,
			view_count INTEGER NOT NULL DEFAULT 1,
			last_viewed_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_view_history_last_viewed ON view_history(last_viewed_at DESC);
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT OR IGNORE INTO schema_version (version) VALUES (?)
	`, currentSchemaVersion)
	return err
}
