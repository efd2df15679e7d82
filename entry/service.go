// Package entry implements the time-log dialog: previewing how a new or edited
// time log affects a task's schedule, and booking it.
package entry

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"tasklog/internal/classify"
	"tasklog/internal/timeutil"
	"tasklog/timerange"
	"tasklog/worklog"
)

var (
	ErrOnBehalf            = errors.New("time log is for another user; confirm with on-behalf")
	ErrFutureTimeLog       = errors.New("time log is in the future")
	ErrOverBooked          = errors.New("resource is already booked for this interval")
	ErrUnknownRevisionType = errors.New("unknown revision type")
	ErrMissingTask         = errors.New("task is required")
	ErrMissingResource     = errors.New("resource is required")
	ErrUnknownOutcome      = errors.New("unsupported outcome")
)

type Outcome string

const (
	OutcomeContinue Outcome = ""
	OutcomeComplete Outcome = "complete"
	OutcomeReview   Outcome = "review"
)

func (o Outcome) validate() error {
	switch o {
	case OutcomeContinue, OutcomeComplete, OutcomeReview:
		return nil
	default:
		return fmt.Errorf("%w %q", ErrUnknownOutcome, string(o))
	}
}

type Store interface {
	GetTask(id int64) (worklog.Task, error)
	GetUser(id int64) (worklog.User, error)
	GetTimeLog(id int64) (worklog.TimeLog, error)
	TotalLoggedSeconds(taskID int64) (int64, error)
	ListResourceTimeLogs(resourceID int64, from, to time.Time) ([]worklog.TimeLog, error)
	InsertTimeLog(entry worklog.TimeLog) (int64, error)
	UpdateTimeLog(entry worklog.TimeLog) error
	UpdateTaskSchedule(id, timing int64, unit timerange.Unit) error
	UpdateTaskStatus(id int64, status string) error
	AddNote(note worklog.Note) (int64, error)
}

// Request is the state of the time-log dialog. TimeLogID is set when an
// existing log is edited. Edited names the bound the user changed last; with
// NoBound the interval is taken as entered.
type Request struct {
	TaskID         int64
	ResourceID     int64
	LoggedInUserID int64
	TimeLogID      int64
	Date           time.Time
	Start          timerange.Clock
	End            timerange.Clock
	Edited         timerange.Bound
	Description    string
	Outcome        Outcome
	RevisionType   string
	OnBehalf       bool
}

type Options struct {
	Logger        *slog.Logger
	Now           func() time.Time
	RevisionTypes []string
}

type Service struct {
	store         Store
	accountant    *timerange.Accountant
	logger        *slog.Logger
	now           func() time.Time
	revisionTypes []string
}

func NewService(store Store, accountant *timerange.Accountant, opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		store:         store,
		accountant:    accountant,
		logger:        logger,
		now:           now,
		revisionTypes: opts.RevisionTypes,
	}
}

// Preview is what the dialog shows before the log is booked.
type Preview struct {
	Task             worklog.Task
	Interval         timerange.ClockInterval
	Start            time.Time
	End              time.Time
	CandidateSeconds int64
	Balance          timerange.Balance
	Message          string

	existing *worklog.TimeLog
}

type Result struct {
	Preview   Preview
	TimeLogID int64
	// Extended is set when the task schedule was raised to cover an overrun.
	Extended     bool
	ScheduleUnit timerange.Unit
	Schedule     int64
	Status       string
}

func (s *Service) Preview(req Request) (Preview, error) {
	if req.TaskID <= 0 {
		return Preview{}, ErrMissingTask
	}
	if req.ResourceID <= 0 {
		return Preview{}, ErrMissingResource
	}

	task, err := s.store.GetTask(req.TaskID)
	if err != nil {
		return Preview{}, fmt.Errorf("load task: %w", err)
	}

	interval, err := s.resolveInterval(req)
	if err != nil {
		return Preview{}, err
	}
	day := timeutil.StartOfDay(req.Date)
	span := interval.On(day)
	candidate, err := span.Seconds()
	if err != nil {
		return Preview{}, err
	}

	var (
		existing *worklog.TimeLog
		exclude  int64
	)
	if req.TimeLogID > 0 {
		current, err := s.store.GetTimeLog(req.TimeLogID)
		if err != nil {
			return Preview{}, fmt.Errorf("load edited time log: %w", err)
		}
		existing = &current
		if current.TaskID == task.ID {
			if exclude, err = current.Seconds(); err != nil {
				return Preview{}, err
			}
		}
	}

	scheduled, err := task.ScheduleSeconds()
	if err != nil {
		return Preview{}, fmt.Errorf("task %d: %w", task.ID, err)
	}
	logged, err := s.store.TotalLoggedSeconds(task.ID)
	if err != nil {
		return Preview{}, err
	}

	balance, err := timerange.Evaluate(timerange.TaskEffort{
		ScheduledSeconds: scheduled,
		LoggedSeconds:    logged,
	}, candidate, exclude)
	if err != nil {
		return Preview{}, fmt.Errorf("task %d: %w", task.ID, err)
	}

	return Preview{
		Task:             task,
		Interval:         interval,
		Start:            span.Start,
		End:              span.End,
		CandidateSeconds: candidate,
		Balance:          balance,
		Message:          BalanceMessage(balance),
		existing:         existing,
	}, nil
}

// BalanceMessage is the info line of the dialog.
func BalanceMessage(balance timerange.Balance) string {
	amount := timerange.FormatHoursMinutes(balance.AbsRemaining())
	if balance.Overrun {
		return fmt.Sprintf(
			"You need %s extra time. If you enter this time log, time of the task will be extended.",
			amount,
		)
	}
	return fmt.Sprintf("If you enter this time log, %s will remain to complete this task.", amount)
}

func (s *Service) resolveInterval(req Request) (timerange.ClockInterval, error) {
	if req.Edited != timerange.NoBound {
		return s.accountant.Reconcile(req.Start, req.End, req.Edited), nil
	}
	interval := timerange.ClockInterval{
		Start: s.accountant.Floor(req.Start),
		End:   s.accountant.Floor(req.End),
	}
	if _, err := interval.Seconds(); err != nil {
		return timerange.ClockInterval{}, err
	}
	return interval, nil
}

// Check runs every rule Submit enforces without writing anything.
func (s *Service) Check(req Request) (Preview, error) {
	c, err := s.check(req)
	if err != nil {
		return Preview{}, err
	}
	return c.preview, nil
}

type checked struct {
	preview      Preview
	entry        worklog.TimeLog
	revisionType string
}

func (s *Service) check(req Request) (checked, error) {
	preview, err := s.Preview(req)
	if err != nil {
		return checked{}, err
	}
	if req.ResourceID != req.LoggedInUserID && !req.OnBehalf {
		return checked{}, ErrOnBehalf
	}
	if err := req.Outcome.validate(); err != nil {
		return checked{}, err
	}
	revisionType, err := s.revisionType(req.RevisionType)
	if err != nil {
		return checked{}, err
	}
	if preview.Start.After(timeutil.EndOfDay(s.now())) {
		return checked{}, fmt.Errorf("%s: %w", preview.Start.Format(time.RFC3339), ErrFutureTimeLog)
	}

	entry := worklog.TimeLog{
		ID:          req.TimeLogID,
		TaskID:      preview.Task.ID,
		ResourceID:  req.ResourceID,
		Start:       preview.Start,
		End:         preview.End,
		Description: strings.TrimSpace(req.Description),
	}
	if preview.existing != nil {
		entry.CreatedAt = preview.existing.CreatedAt
	}

	day := timeutil.StartOfDay(req.Date)
	booked, err := s.store.ListResourceTimeLogs(req.ResourceID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return checked{}, err
	}
	if conflict, overbooked := classify.FindOverbooking(entry, booked); overbooked {
		return checked{}, fmt.Errorf(
			"%s overlaps time log %d (%s - %s): %w",
			preview.Interval,
			conflict.Existing.ID,
			timerange.ClockOf(conflict.Existing.Start),
			timerange.ClockOf(conflict.Existing.End),
			ErrOverBooked,
		)
	}
	return checked{preview: preview, entry: entry, revisionType: revisionType}, nil
}

func (s *Service) Submit(req Request) (Result, error) {
	c, err := s.check(req)
	if err != nil {
		return Result{}, err
	}
	preview, entry, revisionType := c.preview, c.entry, c.revisionType

	user, err := s.store.GetUser(req.LoggedInUserID)
	if err != nil {
		return Result{}, fmt.Errorf("load logged-in user: %w", err)
	}
	resource := user
	if req.ResourceID != req.LoggedInUserID {
		if resource, err = s.store.GetUser(req.ResourceID); err != nil {
			return Result{}, fmt.Errorf("load resource: %w", err)
		}
	}

	result := Result{
		Preview:      preview,
		Schedule:     preview.Task.ScheduleTiming,
		ScheduleUnit: preview.Task.ScheduleUnit,
		Status:       preview.Task.Status,
	}
	if preview.existing != nil {
		if err := s.store.UpdateTimeLog(entry); err != nil {
			return Result{}, err
		}
		result.TimeLogID = entry.ID
	} else {
		id, err := s.store.InsertTimeLog(entry)
		if err != nil {
			return Result{}, err
		}
		result.TimeLogID = id
	}
	s.logger.Debug("time log booked",
		"time_log_id", result.TimeLogID,
		"task_id", preview.Task.ID,
		"resource_id", req.ResourceID,
		"interval", preview.Interval.String(),
	)

	if preview.Balance.Overrun {
		if err := s.extendSchedule(&result, user, revisionType); err != nil {
			return Result{}, err
		}
	}

	switch req.Outcome {
	case OutcomeContinue:
	case OutcomeComplete:
		if err := s.complete(&result, user, resource); err != nil {
			return Result{}, err
		}
	case OutcomeReview:
		if err := s.requestReview(&result, user, resource); err != nil {
			return Result{}, err
		}
	}

	return result, nil
}

func (s *Service) revisionType(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		if len(s.revisionTypes) == 0 {
			return "", fmt.Errorf("no revision types configured: %w", ErrUnknownRevisionType)
		}
		return s.revisionTypes[0], nil
	}
	for _, known := range s.revisionTypes {
		if strings.EqualFold(known, trimmed) {
			return known, nil
		}
	}
	return "", fmt.Errorf("%q: %w", trimmed, ErrUnknownRevisionType)
}

// fitSchedule sets the task schedule to the total logged effort. A total under
// one minute leaves the schedule alone.
func (s *Service) fitSchedule(result *Result) (bool, error) {
	taskID := result.Preview.Task.ID
	total, err := s.store.TotalLoggedSeconds(taskID)
	if err != nil {
		return false, err
	}
	timing, unit, err := timerange.LeastMeaningfulUnit(total)
	if err != nil {
		return false, err
	}
	if timing == 0 {
		return false, nil
	}
	if err := s.store.UpdateTaskSchedule(taskID, timing, unit); err != nil {
		return false, err
	}
	result.Schedule = timing
	result.ScheduleUnit = unit
	return true, nil
}

func (s *Service) extendSchedule(result *Result, user worklog.User, revisionType string) error {
	changed, err := s.fitSchedule(result)
	if err != nil || !changed {
		return err
	}
	result.Extended = true

	extra := timerange.FormatHoursMinutes(result.Preview.Balance.AbsRemaining())
	if _, err := s.store.AddNote(worklog.Note{
		TaskID:    result.Preview.Task.ID,
		CreatedBy: user.ID,
		Type:      revisionType,
		Content:   fmt.Sprintf("Extending timing of the task %s.", extra),
	}); err != nil {
		return err
	}
	s.logger.Info("task schedule extended",
		"task_id", result.Preview.Task.ID,
		"schedule", result.Schedule,
		"unit", string(result.ScheduleUnit),
		"revision_type", revisionType,
	)
	return nil
}

// complete closes the task; the note names the resource whose log closed it.
func (s *Service) complete(result *Result, user, resource worklog.User) error {
	taskID := result.Preview.Task.ID
	if err := s.store.UpdateTaskStatus(taskID, worklog.StatusCompleted); err != nil {
		return err
	}
	result.Status = worklog.StatusCompleted
	_, err := s.store.AddNote(worklog.Note{
		TaskID:    taskID,
		CreatedBy: user.ID,
		Type:      worklog.NoteTypeForcedStatus,
		Content:   fmt.Sprintf("%s has changed this task status to Completed", resource.Name),
	})
	return err
}

func (s *Service) requestReview(result *Result, user, resource worklog.User) error {
	taskID := result.Preview.Task.ID
	if _, err := s.fitSchedule(result); err != nil {
		return err
	}
	if err := s.store.UpdateTaskStatus(taskID, worklog.StatusPendingReview); err != nil {
		return err
	}
	result.Status = worklog.StatusPendingReview
	_, err := s.store.AddNote(worklog.Note{
		TaskID:    taskID,
		CreatedBy: user.ID,
		Type:      worklog.NoteTypeRequestReview,
		Content:   fmt.Sprintf("%s has requested a review of this task", resource.Name),
	})
	return err
}
