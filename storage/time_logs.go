package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tasklog/worklog"
)

// TimeLogDetail is a time log joined with the display path of its task.
type TimeLogDetail struct {
	TimeLog  worklog.TimeLog
	TaskPath string
}

const timeLogColumns = `
	l.id,
	l.task_id,
	l.resource_id,
	l.start_datetime,
	l.end_datetime,
	l.description,
	l.created_at,
	l.updated_at`

func scanTimeLog(row rowScanner, extra ...any) (worklog.TimeLog, error) {
	var (
		entry      worklog.TimeLog
		startRaw   string
		endRaw     string
		createdRaw string
		updatedRaw string
	)
	dest := []any{
		&entry.ID,
		&entry.TaskID,
		&entry.ResourceID,
		&startRaw,
		&endRaw,
		&entry.Description,
		&createdRaw,
		&updatedRaw,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return worklog.TimeLog{}, err
	}

	var err error
	if entry.Start, err = parseTime(startRaw); err != nil {
		return worklog.TimeLog{}, err
	}
	if entry.End, err = parseTime(endRaw); err != nil {
		return worklog.TimeLog{}, err
	}
	if entry.CreatedAt, err = parseTime(createdRaw); err != nil {
		return worklog.TimeLog{}, err
	}
	if entry.UpdatedAt, err = parseTime(updatedRaw); err != nil {
		return worklog.TimeLog{}, err
	}
	return entry, nil
}

// InsertTimeLog inserts one time log and returns its new row ID.
func (s *SQLiteStore) InsertTimeLog(entry worklog.TimeLog) (int64, error) {
	if _, err := entry.Seconds(); err != nil {
		return 0, err
	}

	const insertStmt = `
INSERT INTO time_logs (
	task_id,
	resource_id,
	start_datetime,
	end_datetime,
	description,
	created_at,
	updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?);`

	now := formatTime(s.now())
	res, err := s.db.Exec(
		insertStmt,
		entry.TaskID,
		entry.ResourceID,
		formatTime(entry.Start),
		formatTime(entry.End),
		entry.Description,
		now,
		now,
	)
	if err != nil {
		return 0, fmt.Errorf("insert time log: %w", err)
	}
	return insertedID(res)
}

// UpdateTimeLog replaces task, interval and description of the log with entry.ID.
func (s *SQLiteStore) UpdateTimeLog(entry worklog.TimeLog) error {
	if entry.ID <= 0 {
		return fmt.Errorf("time log id must be > 0")
	}
	if _, err := entry.Seconds(); err != nil {
		return err
	}

	const updateStmt = `
UPDATE time_logs
SET task_id = ?,
	resource_id = ?,
	start_datetime = ?,
	end_datetime = ?,
	description = ?,
	updated_at = ?
WHERE id = ?;`

	res, err := s.db.Exec(
		updateStmt,
		entry.TaskID,
		entry.ResourceID,
		formatTime(entry.Start),
		formatTime(entry.End),
		entry.Description,
		formatTime(s.now()),
		entry.ID,
	)
	if err != nil {
		return fmt.Errorf("update time log %d: %w", entry.ID, err)
	}
	return requireAffected(res)
}

func (s *SQLiteStore) GetTimeLog(id int64) (worklog.TimeLog, error) {
	if id <= 0 {
		return worklog.TimeLog{}, fmt.Errorf("time log id must be > 0")
	}
	row := s.db.QueryRow(`SELECT`+timeLogColumns+` FROM time_logs AS l WHERE l.id = ?;`, id)
	entry, err := scanTimeLog(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return worklog.TimeLog{}, fmt.Errorf("time log %d: %w", id, ErrNotFound)
		}
		return worklog.TimeLog{}, fmt.Errorf("query time log %d: %w", id, err)
	}
	return entry, nil
}

// ListResourceTimeLogs returns the logs of a resource that intersect [from, to).
func (s *SQLiteStore) ListResourceTimeLogs(resourceID int64, from, to time.Time) ([]worklog.TimeLog, error) {
	const query = `SELECT` + timeLogColumns + `
FROM time_logs AS l
WHERE l.resource_id = ? AND l.start_datetime < ? AND l.end_datetime > ?
ORDER BY l.start_datetime, l.id;`

	rows, err := s.db.Query(query, resourceID, formatTime(to), formatTime(from))
	if err != nil {
		return nil, fmt.Errorf("query time logs of resource %d: %w", resourceID, err)
	}
	return collectTimeLogs(rows)
}

func (s *SQLiteStore) ListTimeLogs() ([]worklog.TimeLog, error) {
	rows, err := s.db.Query(`SELECT` + timeLogColumns + ` FROM time_logs AS l ORDER BY l.start_datetime, l.id;`)
	if err != nil {
		return nil, fmt.Errorf("query time logs: %w", err)
	}
	return collectTimeLogs(rows)
}

func collectTimeLogs(rows *sql.Rows) ([]worklog.TimeLog, error) {
	defer rows.Close()

	entries := make([]worklog.TimeLog, 0, 64)
	for rows.Next() {
		entry, err := scanTimeLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan time log: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate time logs: %w", err)
	}
	return entries, nil
}

// ListTimeLogDetails returns every time log of a resource with its task path,
// ordered by start.
func (s *SQLiteStore) ListTimeLogDetails(resourceID int64) ([]TimeLogDetail, error) {
	const query = taskPathCTE + `
SELECT` + timeLogColumns + `,
	task.name || ' (' || task_path.path_names || ')'
FROM time_logs AS l
JOIN task_path ON l.task_id = task_path.id
JOIN tasks AS task ON task.id = l.task_id
WHERE l.resource_id = ?
ORDER BY l.start_datetime, l.id;`

	rows, err := s.db.Query(query, resourceID)
	if err != nil {
		return nil, fmt.Errorf("query time log details of resource %d: %w", resourceID, err)
	}
	defer rows.Close()

	details := make([]TimeLogDetail, 0, 128)
	for rows.Next() {
		var path string
		entry, err := scanTimeLog(rows, &path)
		if err != nil {
			return nil, fmt.Errorf("scan time log detail: %w", err)
		}
		details = append(details, TimeLogDetail{TimeLog: entry, TaskPath: path})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate time log details: %w", err)
	}
	return details, nil
}
