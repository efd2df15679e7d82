package importer

import (
	"fmt"
	"strings"

	"tasklog/entry"
	"tasklog/timerange"
	"tasklog/worklog"
)

type Directory interface {
	GetUserByLogin(login string) (worklog.User, error)
}

// TimeLogMapper turns an import row into a time-log request. Rows without a
// resource are booked for the logged-in user.
type TimeLogMapper struct {
	directory      Directory
	loggedInUserID int64
	onBehalf       bool
	resources      map[string]int64
}

func NewTimeLogMapper(directory Directory, loggedInUserID int64, onBehalf bool) *TimeLogMapper {
	return &TimeLogMapper{
		directory:      directory,
		loggedInUserID: loggedInUserID,
		onBehalf:       onBehalf,
		resources:      make(map[string]int64),
	}
}

func (m *TimeLogMapper) Map(record Record) (entry.Request, error) {
	taskID, err := parseID("task", record.Get("task", "task_id"))
	if err != nil {
		return entry.Request{}, err
	}
	resourceID, err := m.resolveResource(record.Get("resource", "login", "user"))
	if err != nil {
		return entry.Request{}, err
	}
	date, err := parseDate(record.Get("date", "day"))
	if err != nil {
		return entry.Request{}, err
	}
	start, err := parseClock("start", record.Get("start", "start_time"))
	if err != nil {
		return entry.Request{}, err
	}
	end, err := parseClock("end", record.Get("end", "end_time"))
	if err != nil {
		return entry.Request{}, err
	}

	return entry.Request{
		TaskID:         taskID,
		ResourceID:     resourceID,
		LoggedInUserID: m.loggedInUserID,
		Date:           date,
		Start:          start,
		End:            end,
		Edited:         timerange.NoBound,
		Description:    record.Get("description", "comment"),
		Outcome:        entry.Outcome(strings.ToLower(record.Get("outcome"))),
		RevisionType:   record.Get("revision", "revision_type"),
		OnBehalf:       m.onBehalf,
	}, nil
}

func (m *TimeLogMapper) resolveResource(login string) (int64, error) {
	if login == "" {
		return m.loggedInUserID, nil
	}
	if id, ok := m.resources[login]; ok {
		return id, nil
	}
	user, err := m.directory.GetUserByLogin(login)
	if err != nil {
		return 0, fmt.Errorf("resource %q: %w", login, err)
	}
	m.resources[login] = user.ID
	return user.ID, nil
}
