package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicateCode = errors.New("duplicate code")
	// ErrEmptySchedule rejects tasks without scheduled effort; no time could be
	// logged against them.
	ErrEmptySchedule = errors.New("task schedule must be greater than zero")
)

func OpenSQLite(path string) (*SQLiteStore, error) {
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_pragma=foreign_keys(1)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &SQLiteStore{db: db, now: time.Now}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ensureSchema() error {
	// Timestamps are UTC RFC3339 strings so they compare lexicographically.
	const schema = `
CREATE TABLE IF NOT EXISTS projects (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	code TEXT NOT NULL UNIQUE,
	type TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL,
	fps INTEGER NOT NULL CHECK(fps > 0),
	image_format_name TEXT NOT NULL DEFAULT '',
	image_width INTEGER NOT NULL DEFAULT 0,
	image_height INTEGER NOT NULL DEFAULT 0,
	repository TEXT NOT NULL DEFAULT '',
	structure TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	login TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS tasks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	project_id INTEGER NOT NULL REFERENCES projects(id),
	parent_id INTEGER REFERENCES tasks(id),
	name TEXT NOT NULL,
	schedule_timing INTEGER NOT NULL CHECK(schedule_timing > 0),
	schedule_unit TEXT NOT NULL,
	status TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS time_logs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	task_id INTEGER NOT NULL REFERENCES tasks(id),
	resource_id INTEGER NOT NULL REFERENCES users(id),
	start_datetime TEXT NOT NULL,
	end_datetime TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	CHECK(end_datetime > start_datetime)
);

CREATE INDEX IF NOT EXISTS time_logs_resource_start ON time_logs(resource_id, start_datetime);
CREATE INDEX IF NOT EXISTS time_logs_task ON time_logs(task_id);

CREATE TABLE IF NOT EXISTS notes (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	task_id INTEGER NOT NULL REFERENCES tasks(id),
	created_by INTEGER NOT NULL REFERENCES users(id),
	type TEXT NOT NULL,
	content TEXT NOT NULL,
	created_at TEXT NOT NULL
);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func formatTime(value time.Time) string {
	return value.UTC().Format(time.RFC3339)
}

func parseTime(raw string) (time.Time, error) {
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse datetime %q: %w", raw, err)
	}
	return parsed, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func insertedID(res sql.Result) (int64, error) {
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read inserted row id: %w", err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid inserted row id %d", id)
	}
	return id, nil
}

func requireAffected(res sql.Result) error {
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read updated row count: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
