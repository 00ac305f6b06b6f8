package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/abhijeet/cadence/internal/apperr"
	"github.com/abhijeet/cadence/internal/models"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS daily_logs (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	day_number INTEGER NOT NULL,
	date       TEXT NOT NULL,
	targets    TEXT NOT NULL DEFAULT '',
	summary    TEXT
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_daily_logs_day_number ON daily_logs(day_number);

CREATE TABLE IF NOT EXISTS daily_updates (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	day_number  INTEGER NOT NULL,
	update_text TEXT NOT NULL,
	timestamp   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_daily_updates_day_number ON daily_updates(day_number);

CREATE TABLE IF NOT EXISTS strategic_notes (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	note      TEXT NOT NULL,
	timestamp DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// SQLite is the embedded record store backend.
type SQLite struct {
	conn *sql.DB
}

// OpenSQLite opens (or creates) the SQLite database and applies the schema.
func OpenSQLite(dsn string) (*SQLite, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &SQLite{conn: conn}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.conn.Close()
}

// LatestDay returns the Day with the greatest day number.
func (s *SQLite) LatestDay(ctx context.Context) (*models.Day, error) {
	var d models.Day
	err := s.conn.QueryRowContext(ctx, `
		SELECT day_number, date, targets, summary
		FROM daily_logs
		ORDER BY day_number DESC
		LIMIT 1
	`).Scan(&d.DayNumber, &d.Date, &d.Targets, &d.Summary)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: latest day: %w", err)
	}
	return &d, nil
}

// RecentSummaries returns up to n most recent non-null summaries, most
// recent first.
func (s *SQLite) RecentSummaries(ctx context.Context, n int) ([]string, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT summary
		FROM daily_logs
		WHERE summary IS NOT NULL
		ORDER BY day_number DESC
		LIMIT ?
	`, n)
	if err != nil {
		return nil, fmt.Errorf("store: recent summaries: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var summary string
		if err := rows.Scan(&summary); err != nil {
			return nil, err
		}
		out = append(out, summary)
	}
	return out, rows.Err()
}

// UpdatesForDay returns all update texts for a day in insertion order.
func (s *SQLite) UpdatesForDay(ctx context.Context, dayNumber int) ([]string, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT update_text
		FROM daily_updates
		WHERE day_number = ?
		ORDER BY id
	`, dayNumber)
	if err != nil {
		return nil, fmt.Errorf("store: updates for day: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, err
		}
		out = append(out, text)
	}
	return out, rows.Err()
}

// CreateDay inserts a new Day with a null summary.
func (s *SQLite) CreateDay(ctx context.Context, dayNumber int, date, targets string) error {
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO daily_logs (day_number, date, targets, summary)
		VALUES (?, ?, ?, NULL)
	`, dayNumber, date, targets)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return apperr.ErrDayExists
		}
		return fmt.Errorf("store: create day: %w", err)
	}
	return nil
}

// SetSummary fills in a Day's retrospective summary.
func (s *SQLite) SetSummary(ctx context.Context, dayNumber int, summary string) error {
	res, err := s.conn.ExecContext(ctx, `
		UPDATE daily_logs SET summary = ? WHERE day_number = ?
	`, summary, dayNumber)
	if err != nil {
		return fmt.Errorf("store: set summary: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: set summary: %w", err)
	}
	if affected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// AddUpdate appends a progress update against a day.
func (s *SQLite) AddUpdate(ctx context.Context, dayNumber int, text string) error {
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO daily_updates (day_number, update_text, timestamp)
		VALUES (?, ?, ?)
	`, dayNumber, text, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("store: add update: %w", err)
	}
	return nil
}

// AddNote appends a standalone strategic note.
func (s *SQLite) AddNote(ctx context.Context, text string) error {
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO strategic_notes (note, timestamp)
		VALUES (?, ?)
	`, text, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("store: add note: %w", err)
	}
	return nil
}
