// Package reconcile brings task schedules in line with the effort already
// logged and reports overbooked resources.
package reconcile

import (
	"fmt"
	"io"
	"log/slog"
	"sort"

	"tasklog/internal/classify"
	"tasklog/timerange"
	"tasklog/worklog"
)

type Store interface {
	ListTasks() ([]worklog.Task, error)
	ListTimeLogs() ([]worklog.TimeLog, error)
	TotalLoggedSeconds(taskID int64) (int64, error)
	UpdateTaskSchedule(id, timing int64, unit timerange.Unit) error
	AddNote(note worklog.Note) (int64, error)
}

type Result struct {
	TasksChecked  int
	TasksOverrun  int
	TasksExtended int
	Overbookings  []classify.Conflict
}

type Options struct {
	// CreatedBy is the user the extension notes are recorded for.
	CreatedBy    int64
	RevisionType string
	DryRun       bool
	Logger       *slog.Logger
}

// Run extends the schedule of every overrun task that is not completed.
func Run(store Store, options Options) (*Result, error) {
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if !options.DryRun && options.CreatedBy <= 0 {
		return nil, fmt.Errorf("reconcile needs the user recording the extension notes")
	}
	if !options.DryRun && options.RevisionType == "" {
		return nil, fmt.Errorf("reconcile needs a revision type for the extension notes")
	}

	tasks, err := store.ListTasks()
	if err != nil {
		return nil, err
	}

	result := &Result{}
	for _, task := range tasks {
		if task.Status == worklog.StatusCompleted {
			continue
		}
		result.TasksChecked++

		scheduled, err := task.ScheduleSeconds()
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", task.ID, err)
		}
		logged, err := store.TotalLoggedSeconds(task.ID)
		if err != nil {
			return nil, err
		}
		if logged <= scheduled {
			continue
		}
		result.TasksOverrun++

		timing, unit, err := timerange.LeastMeaningfulUnit(logged)
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", task.ID, err)
		}
		logger.Debug("task overrun",
			"task_id", task.ID,
			"scheduled_seconds", scheduled,
			"logged_seconds", logged,
			"schedule", timing,
			"unit", string(unit),
		)
		if timing == 0 || options.DryRun {
			continue
		}

		if err := store.UpdateTaskSchedule(task.ID, timing, unit); err != nil {
			return nil, fmt.Errorf("extend task %d: %w", task.ID, err)
		}
		if _, err := store.AddNote(worklog.Note{
			TaskID:    task.ID,
			CreatedBy: options.CreatedBy,
			Type:      options.RevisionType,
			Content:   fmt.Sprintf("Extending timing of the task %s.", timerange.FormatHoursMinutes(logged-scheduled)),
		}); err != nil {
			return nil, err
		}
		result.TasksExtended++
	}

	logs, err := store.ListTimeLogs()
	if err != nil {
		return nil, err
	}
	result.Overbookings = findOverbookings(logs)

	return result, nil
}

// findOverbookings replays every log in start order so each overlap is
// reported once, against the earlier log.
func findOverbookings(logs []worklog.TimeLog) []classify.Conflict {
	sorted := append([]worklog.TimeLog(nil), logs...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start.Equal(sorted[j].Start) {
			return sorted[i].ID < sorted[j].ID
		}
		return sorted[i].Start.Before(sorted[j].Start)
	})

	_, conflicts := classify.ClassifyTimeLogs(sorted, nil)
	return conflicts
}
