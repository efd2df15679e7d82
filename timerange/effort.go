package timerange

import (
	"errors"
	"fmt"
)

var (
	// ErrZeroSchedule is the division-by-zero failure for tasks without
	// scheduled effort.
	ErrZeroSchedule     = errors.New("division by zero: task has no scheduled effort")
	ErrNegativeDuration = errors.New("duration must not be negative")
)

// TaskEffort is a task's planned effort budget and the effort already logged against it.
type TaskEffort struct {
	ScheduledSeconds int64
	LoggedSeconds    int64
}

func (e TaskEffort) validate() error {
	if e.ScheduledSeconds < 0 {
		return fmt.Errorf("scheduled seconds %d: %w", e.ScheduledSeconds, ErrNegativeDuration)
	}
	if e.LoggedSeconds < 0 {
		return fmt.Errorf("logged seconds %d: %w", e.LoggedSeconds, ErrNegativeDuration)
	}
	return nil
}

// Percentage returns the share of the schedule consumed once candidateSeconds
// are logged on top of the existing effort.
func Percentage(effort TaskEffort, candidateSeconds int64) (float64, error) {
	if err := effort.validate(); err != nil {
		return 0, err
	}
	if candidateSeconds < 0 {
		return 0, fmt.Errorf("candidate seconds %d: %w", candidateSeconds, ErrNegativeDuration)
	}
	if effort.ScheduledSeconds == 0 {
		return 0, ErrZeroSchedule
	}
	logged := float64(effort.LoggedSeconds + candidateSeconds)
	return logged / float64(effort.ScheduledSeconds) * 100, nil
}

// Remaining returns the effort left after logging candidateSeconds. When an
// existing time log is being edited its own seconds are passed as
// excludeSeconds so they are not subtracted twice. A negative result is an
// overrun.
func Remaining(effort TaskEffort, candidateSeconds, excludeSeconds int64) (int64, error) {
	if err := effort.validate(); err != nil {
		return 0, err
	}
	if candidateSeconds < 0 {
		return 0, fmt.Errorf("candidate seconds %d: %w", candidateSeconds, ErrNegativeDuration)
	}
	if excludeSeconds < 0 {
		return 0, fmt.Errorf("excluded seconds %d: %w", excludeSeconds, ErrNegativeDuration)
	}
	return effort.ScheduledSeconds - (effort.LoggedSeconds + candidateSeconds) + excludeSeconds, nil
}

type Balance struct {
	Percentage       float64
	RemainingSeconds int64
	Overrun          bool
}

// AbsRemaining is the remaining or overrun magnitude used for display.
func (b Balance) AbsRemaining() int64 {
	if b.RemainingSeconds < 0 {
		return -b.RemainingSeconds
	}
	return b.RemainingSeconds
}

// Evaluate computes percentage and remaining effort together. The excluded
// seconds are taken off the logged effort first so both values describe the
// same state.
func Evaluate(effort TaskEffort, candidateSeconds, excludeSeconds int64) (Balance, error) {
	if excludeSeconds < 0 {
		return Balance{}, fmt.Errorf("excluded seconds %d: %w", excludeSeconds, ErrNegativeDuration)
	}
	if excludeSeconds > effort.LoggedSeconds {
		return Balance{}, fmt.Errorf(
			"excluded seconds %d exceed logged seconds %d: %w",
			excludeSeconds,
			effort.LoggedSeconds,
			ErrNegativeDuration,
		)
	}

	remaining, err := Remaining(effort, candidateSeconds, excludeSeconds)
	if err != nil {
		return Balance{}, err
	}
	percentage, err := Percentage(TaskEffort{
		ScheduledSeconds: effort.ScheduledSeconds,
		LoggedSeconds:    effort.LoggedSeconds - excludeSeconds,
	}, candidateSeconds)
	if err != nil {
		return Balance{}, err
	}

	return Balance{
		Percentage:       percentage,
		RemainingSeconds: remaining,
		Overrun:          remaining < 0,
	}, nil
}
