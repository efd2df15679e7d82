package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"tasklog/timerange"
	"tasklog/worklog"
)

// taskPathCTE resolves "CODE | Parent | ..." for every task, walking down
// from the root tasks of each project.
const taskPathCTE = `
WITH RECURSIVE task_path(id, path_names) AS (
	SELECT task.id, project.code
	FROM tasks AS task
	JOIN projects AS project ON task.project_id = project.id
	WHERE task.parent_id IS NULL
	UNION ALL
	SELECT task.id, parent.path_names || ' | ' || parent_task.name
	FROM tasks AS task
	JOIN task_path AS parent ON task.parent_id = parent.id
	JOIN tasks AS parent_task ON parent_task.id = parent.id
)`

const taskColumns = `
	id,
	project_id,
	parent_id,
	name,
	schedule_timing,
	schedule_unit,
	status`

func scanTask(row rowScanner) (worklog.Task, error) {
	var (
		task     worklog.Task
		parentID sql.NullInt64
		unit     string
	)
	if err := row.Scan(
		&task.ID,
		&task.ProjectID,
		&parentID,
		&task.Name,
		&task.ScheduleTiming,
		&unit,
		&task.Status,
	); err != nil {
		return worklog.Task{}, err
	}
	if parentID.Valid {
		id := parentID.Int64
		task.ParentID = &id
	}
	task.ScheduleUnit = timerange.Unit(unit)
	return task, nil
}

func checkSchedule(timing int64, unit timerange.Unit) error {
	seconds, err := timerange.ScheduleSeconds(timing, unit)
	if err != nil {
		return err
	}
	if seconds == 0 {
		return ErrEmptySchedule
	}
	return nil
}

func (s *SQLiteStore) CreateTask(task worklog.Task) (int64, error) {
	if err := checkSchedule(task.ScheduleTiming, task.ScheduleUnit); err != nil {
		return 0, fmt.Errorf("task %q: %w", task.Name, err)
	}

	var parentID any
	if task.ParentID != nil {
		parentID = *task.ParentID
	}

	const insertStmt = `
INSERT INTO tasks (
	project_id,
	parent_id,
	name,
	schedule_timing,
	schedule_unit,
	status
) VALUES (?, ?, ?, ?, ?, ?);`

	res, err := s.db.Exec(
		insertStmt,
		task.ProjectID,
		parentID,
		task.Name,
		task.ScheduleTiming,
		string(task.ScheduleUnit),
		task.Status,
	)
	if err != nil {
		return 0, fmt.Errorf("insert task: %w", err)
	}
	return insertedID(res)
}

func (s *SQLiteStore) GetTask(id int64) (worklog.Task, error) {
	row := s.db.QueryRow(`SELECT`+taskColumns+` FROM tasks WHERE id = ?;`, id)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return worklog.Task{}, fmt.Errorf("task %d: %w", id, ErrNotFound)
		}
		return worklog.Task{}, fmt.Errorf("query task %d: %w", id, err)
	}
	return task, nil
}

func (s *SQLiteStore) ListTasks() ([]worklog.Task, error) {
	rows, err := s.db.Query(`SELECT` + taskColumns + ` FROM tasks ORDER BY project_id, id;`)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]worklog.Task, 0, 64)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

// TaskPath returns the display path "Name (CODE | Parent)" of a task.
func (s *SQLiteStore) TaskPath(id int64) (string, error) {
	const query = taskPathCTE + `
SELECT task.name || ' (' || task_path.path_names || ')'
FROM task_path
JOIN tasks AS task ON task.id = task_path.id
WHERE task_path.id = ?;`

	var path string
	if err := s.db.QueryRow(query, id).Scan(&path); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("task %d: %w", id, ErrNotFound)
		}
		return "", fmt.Errorf("query task path %d: %w", id, err)
	}
	return path, nil
}

func (s *SQLiteStore) UpdateTaskSchedule(id, timing int64, unit timerange.Unit) error {
	if err := checkSchedule(timing, unit); err != nil {
		return fmt.Errorf("task %d schedule: %w", id, err)
	}
	res, err := s.db.Exec(
		`UPDATE tasks SET schedule_timing = ?, schedule_unit = ? WHERE id = ?;`,
		timing,
		string(unit),
		id,
	)
	if err != nil {
		return fmt.Errorf("update task %d schedule: %w", id, err)
	}
	return requireAffected(res)
}

func (s *SQLiteStore) UpdateTaskStatus(id int64, status string) error {
	res, err := s.db.Exec(`UPDATE tasks SET status = ? WHERE id = ?;`, status, id)
	if err != nil {
		return fmt.Errorf("update task %d status: %w", id, err)
	}
	return requireAffected(res)
}

// TotalLoggedSeconds sums the durations of all time logs of a task.
func (s *SQLiteStore) TotalLoggedSeconds(taskID int64) (int64, error) {
	const query = `
SELECT COALESCE(SUM(
	CAST(strftime('%s', end_datetime) AS INTEGER) - CAST(strftime('%s', start_datetime) AS INTEGER)
), 0)
FROM time_logs
WHERE task_id = ?;`

	var total int64
	if err := s.db.QueryRow(query, taskID).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum logged seconds for task %d: %w", taskID, err)
	}
	return total, nil
}
