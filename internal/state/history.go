package state

import (
	"context"
	"database/sql"
	"time"

	dbutil "github.com/llehouerou/imgview/internal/db"
)

// HistoryEntry is one viewed image.
type HistoryEntry struct {
	Key        string
	Locator    string
	Bytes      int64
	Views      int
	LastViewed time.Time
}

func recordView(ctx context.Context, db *sql.DB, entry HistoryEntry, keep int) error {
	viewed := entry.LastViewed
	if viewed.IsZero() {
		viewed = time.Now()
	}

	return dbutil.WithTx(ctx, db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO view_history (key, locator, bytes, view_count, last_viewed_at)
			VALUES (?, ?, ?, 1, ?)
			ON CONFLICT(key) DO UPDATE SET
				locator = excluded.locator,
				bytes = excluded.bytes,
				view_count = view_count + 1,
				last_viewed_at = excluded.last_viewed_at
		`, entry.Key, entry.Locator, entry.Bytes, viewed.Unix())
		if err != nil {
			return err
		}

		_, err = tx.Exec(`
			DELETE FROM view_history WHERE key NOT IN (
				SELECT key FROM view_history
				ORDER BY last_viewed_at DESC, rowid DESC
				LIMIT ?
			)
		`, keep)
		return err
	})
}

func listHistory(db *sql.DB, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = defaultHistorySize
	}

	rows, err := db.Query(`
		SELECT key, locator, bytes, view_count, last_viewed_at
		FROM view_history
		ORDER BY last_viewed_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		var viewed sql.NullInt64
		if err := rows.Scan(&e.Key, &e.Locator, &e.Bytes, &e.Views, &viewed); err != nil {
			return nil, err
		}
		e.LastViewed = dbutil.UnixTime(viewed)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
