// Package store persists an audit journal of dispatched alerts.
//
// DESIGN: Opt-in sqlite file, enabled only when ALERT_JOURNAL_PATH is set.
// The journal is write-mostly evidence for post-incident review; it is
// never read back into detector or cooldown state, so losing it costs
// nothing but history.
package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/opspulse/pool-watcher/internal/watcher"
)

const schema = `
CREATE TABLE IF NOT EXISTS alerts (
	id         TEXT PRIMARY KEY,
	alert_type TEXT NOT NULL,
	message    TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_alerts_created_at ON alerts(created_at);
`

// Entry is one journaled alert.
type Entry struct {
	ID        string
	AlertType watcher.AlertType
	Message   string
	CreatedAt time.Time
}

// Journal records dispatched alerts in a sqlite database.
type Journal struct {
	db *sql.DB
}

// Open creates or opens the journal database at path.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open alert journal '%s': %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init alert journal schema: %w", err)
	}
	return &Journal{db: db}, nil
}

// Record appends one dispatched alert.
func (j *Journal) Record(alertType watcher.AlertType, message string) error {
	_, err := j.db.Exec(
		`INSERT INTO alerts (id, alert_type, message, created_at) VALUES (?, ?, ?, ?)`,
		uuid.New().String(), string(alertType), message, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("record alert: %w", err)
	}
	return nil
}

// Recent returns up to limit journaled alerts, newest first.
func (j *Journal) Recent(limit int) ([]Entry, error) {
	rows, err := j.db.Query(
		`SELECT id, alert_type, message, created_at FROM alerts ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query alerts: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var alertType string
		if err := rows.Scan(&e.ID, &alertType, &e.Message, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan alert row: %w", err)
		}
		e.AlertType = watcher.AlertType(alertType)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close releases the database handle.
func (j *Journal) Close() error {
	return j.db.Close()
}

var _ watcher.Journal = (*Journal)(nil)
