package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"tasklog/worklog"
)

const projectColumns = `
	id,
	name,
	code,
	type,
	status,
	fps,
	image_format_name,
	image_width,
	image_height,
	repository,
	structure,
	created_at,
	updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (worklog.Project, error) {
	var (
		project    worklog.Project
		createdRaw string
		updatedRaw string
	)
	if err := row.Scan(
		&project.ID,
		&project.Name,
		&project.Code,
		&project.Type,
		&project.Status,
		&project.FPS,
		&project.ImageFormat.Name,
		&project.ImageFormat.Width,
		&project.ImageFormat.Height,
		&project.Repository,
		&project.Structure,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return worklog.Project{}, err
	}

	var err error
	if project.CreatedAt, err = parseTime(createdRaw); err != nil {
		return worklog.Project{}, err
	}
	if project.UpdatedAt, err = parseTime(updatedRaw); err != nil {
		return worklog.Project{}, err
	}
	return project, nil
}

// CreateProject inserts project and returns its new ID.
func (s *SQLiteStore) CreateProject(project worklog.Project) (int64, error) {
	const insertStmt = `
INSERT INTO projects (
	name,
	code,
	type,
	status,
	fps,
	image_format_name,
	image_width,
	image_height,
	repository,
	structure,
	created_at,
	updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`

	now := formatTime(s.now())
	res, err := s.db.Exec(
		insertStmt,
		project.Name,
		project.Code,
		project.Type,
		project.Status,
		project.FPS,
		project.ImageFormat.Name,
		project.ImageFormat.Width,
		project.ImageFormat.Height,
		project.Repository,
		project.Structure,
		now,
		now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("project code %q: %w", project.Code, ErrDuplicateCode)
		}
		return 0, fmt.Errorf("insert project: %w", err)
	}
	return insertedID(res)
}

// UpdateProject replaces all editable fields of the project with project.ID.
func (s *SQLiteStore) UpdateProject(project worklog.Project) error {
	if project.ID <= 0 {
		return fmt.Errorf("project id must be > 0")
	}

	const updateStmt = `
UPDATE projects
SET name = ?,
	code = ?,
	type = ?,
	status = ?,
	fps = ?,
	image_format_name = ?,
	image_width = ?,
	image_height = ?,
	repository = ?,
	structure = ?,
	updated_at = ?
WHERE id = ?;`

	res, err := s.db.Exec(
		updateStmt,
		project.Name,
		project.Code,
		project.Type,
		project.Status,
		project.FPS,
		project.ImageFormat.Name,
		project.ImageFormat.Width,
		project.ImageFormat.Height,
		project.Repository,
		project.Structure,
		formatTime(s.now()),
		project.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("project code %q: %w", project.Code, ErrDuplicateCode)
		}
		return fmt.Errorf("update project %d: %w", project.ID, err)
	}
	return requireAffected(res)
}

func (s *SQLiteStore) GetProjectByCode(code string) (worklog.Project, error) {
	row := s.db.QueryRow(`SELECT`+projectColumns+` FROM projects WHERE code = ?;`, code)
	project, err := scanProject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return worklog.Project{}, fmt.Errorf("project %q: %w", code, ErrNotFound)
		}
		return worklog.Project{}, fmt.Errorf("query project %q: %w", code, err)
	}
	return project, nil
}

func (s *SQLiteStore) ListProjects() ([]worklog.Project, error) {
	rows, err := s.db.Query(`SELECT` + projectColumns + ` FROM projects ORDER BY code;`)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	projects := make([]worklog.Project, 0, 16)
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}
	return projects, nil
}
