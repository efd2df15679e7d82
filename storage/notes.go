package storage

import (
	"fmt"

	"tasklog/worklog"
)

func (s *SQLiteStore) AddNote(note worklog.Note) (int64, error) {
	createdAt := note.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.now()
	}
	res, err := s.db.Exec(
		`INSERT INTO notes (task_id, created_by, type, content, created_at) VALUES (?, ?, ?, ?, ?);`,
		note.TaskID,
		note.CreatedBy,
		note.Type,
		note.Content,
		formatTime(createdAt),
	)
	if err != nil {
		return 0, fmt.Errorf("insert note: %w", err)
	}
	return insertedID(res)
}

func (s *SQLiteStore) ListNotes(taskID int64) ([]worklog.Note, error) {
	rows, err := s.db.Query(
		`SELECT id, task_id, created_by, type, content, created_at FROM notes WHERE task_id = ? ORDER BY created_at, id;`,
		taskID,
	)
	if err != nil {
		return nil, fmt.Errorf("query notes of task %d: %w", taskID, err)
	}
	defer rows.Close()

	notes := make([]worklog.Note, 0, 8)
	for rows.Next() {
		var (
			note       worklog.Note
			createdRaw string
		)
		if err := rows.Scan(&note.ID, &note.TaskID, &note.CreatedBy, &note.Type, &note.Content, &createdRaw); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		if note.CreatedAt, err = parseTime(createdRaw); err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notes: %w", err)
	}
	return notes, nil
}
