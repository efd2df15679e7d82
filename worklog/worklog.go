package worklog

import (
	"time"

	"tasklog/timerange"
)

const (
	StatusNew           = "NEW"
	StatusWorkInProcess = "WIP"
	StatusPendingReview = "PREV"
	StatusCompleted     = "CMPL"
)

const (
	NoteTypeForcedStatus  = "Forced Status"
	NoteTypeRequestReview = "Request Review"
)

type ImageFormat struct {
	Name   string
	Width  int
	Height int
}

type Project struct {
	ID          int64
	Name        string
	Code        string
	Type        string
	Status      string
	FPS         int
	ImageFormat ImageFormat
	Repository  string
	Structure   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// User is a resource time logs are recorded for.
type User struct {
	ID    int64
	Name  string
	Login string
}

type Task struct {
	ID             int64
	ProjectID      int64
	ParentID       *int64
	Name           string
	ScheduleTiming int64
	ScheduleUnit   timerange.Unit
	Status         string
}

func (t Task) ScheduleSeconds() (int64, error) {
	return timerange.ScheduleSeconds(t.ScheduleTiming, t.ScheduleUnit)
}

// TimeLog is one interval of work a resource spent on a task.
type TimeLog struct {
	ID          int64
	TaskID      int64
	ResourceID  int64
	Start       time.Time
	End         time.Time
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (l TimeLog) Interval() timerange.TimeInterval {
	return timerange.TimeInterval{Start: l.Start, End: l.End}
}

func (l TimeLog) Seconds() (int64, error) {
	return l.Interval().Seconds()
}

type Note struct {
	ID        int64
	TaskID    int64
	CreatedBy int64
	Type      string
	Content   string
	CreatedAt time.Time
}
