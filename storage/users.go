package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"tasklog/worklog"
)

func (s *SQLiteStore) CreateUser(user worklog.User) (int64, error) {
	res, err := s.db.Exec(`INSERT INTO users (name, login) VALUES (?, ?);`, user.Name, user.Login)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("user login %q: %w", user.Login, ErrDuplicateCode)
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return insertedID(res)
}

func (s *SQLiteStore) GetUser(id int64) (worklog.User, error) {
	var user worklog.User
	err := s.db.QueryRow(`SELECT id, name, login FROM users WHERE id = ?;`, id).Scan(&user.ID, &user.Name, &user.Login)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return worklog.User{}, fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
		return worklog.User{}, fmt.Errorf("query user %d: %w", id, err)
	}
	return user, nil
}

func (s *SQLiteStore) GetUserByLogin(login string) (worklog.User, error) {
	var user worklog.User
	err := s.db.QueryRow(`SELECT id, name, login FROM users WHERE login = ?;`, login).Scan(&user.ID, &user.Name, &user.Login)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return worklog.User{}, fmt.Errorf("user %q: %w", login, ErrNotFound)
		}
		return worklog.User{}, fmt.Errorf("query user %q: %w", login, err)
	}
	return user, nil
}

func (s *SQLiteStore) ListUsers() ([]worklog.User, error) {
	rows, err := s.db.Query(`SELECT id, name, login FROM users ORDER BY name, id;`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := make([]worklog.User, 0, 16)
	for rows.Next() {
		var user worklog.User
		if err := rows.Scan(&user.ID, &user.Name, &user.Login); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}
