// Package timerange computes time-log interval boundaries, task effort
// percentages and remaining effort for the time-log entry workflow.
//
// All functions are pure; an Accountant only carries the configured
// resolution every interval boundary is snapped to.
package timerange

import (
	"fmt"
	"time"
)

const DefaultResolution = 10

type Direction int

const (
	Backward Direction = -1
	Forward  Direction = 1
)

// Bound names the interval boundary a user edited.
type Bound int

const (
	NoBound Bound = iota
	StartBound
	EndBound
)

func ParseBound(value string) (Bound, error) {
	switch value {
	case "":
		return NoBound, nil
	case "start":
		return StartBound, nil
	case "end":
		return EndBound, nil
	default:
		return NoBound, fmt.Errorf("unsupported bound %q (valid: start, end)", value)
	}
}

type Accountant struct {
	resolution int
}

// NewAccountant returns an Accountant snapping to resolution minutes.
// The resolution must be positive and divide an hour evenly.
func NewAccountant(resolution int) (*Accountant, error) {
	if resolution <= 0 || 60%resolution != 0 {
		return nil, fmt.Errorf("resolution %d must be a positive divisor of 60 minutes", resolution)
	}
	return &Accountant{resolution: resolution}, nil
}

func (a *Accountant) Resolution() int {
	return a.resolution
}

func (a *Accountant) Floor(c Clock) Clock {
	return Clock{Hour: c.Hour, Minute: c.Minute - c.Minute%a.resolution}
}

func (a *Accountant) lastSlot() Clock {
	return Clock{Hour: 23, Minute: 60 - a.resolution}
}

// SnapTime moves c one resolution step in direction, rolling over to the
// adjacent hour. Stepping past either end of the day leaves c unchanged.
// A minute that is off the grid lands on the neighbouring grid point.
func (a *Accountant) SnapTime(c Clock, direction Direction) Clock {
	floor := a.Floor(c)
	switch direction {
	case Backward:
		if floor != c {
			return floor
		}
		if c.Minute == 0 {
			if c.Hour == 0 {
				return c
			}
			return Clock{Hour: c.Hour - 1, Minute: 60 - a.resolution}
		}
		return Clock{Hour: c.Hour, Minute: c.Minute - a.resolution}
	case Forward:
		if floor.Minute == 60-a.resolution {
			if floor.Hour == 23 {
				return c
			}
			return Clock{Hour: floor.Hour + 1, Minute: 0}
		}
		return Clock{Hour: floor.Hour, Minute: floor.Minute + a.resolution}
	default:
		return c
	}
}

// Reconcile snaps both bounds to the grid and, when start is not before end,
// moves the bound that was not edited by one step so the interval stays
// positive. An end pushed to midnight pulls start back instead.
func (a *Accountant) Reconcile(start, end Clock, edited Bound) ClockInterval {
	start = a.Floor(start)
	end = a.Floor(end)
	if start.Before(end) {
		return ClockInterval{Start: start, End: end}
	}

	step := a.resolution
	switch edited {
	case EndBound:
		if end.IsMidnight() {
			return ClockInterval{Start: end, End: clockFromMinutes(step)}
		}
		return ClockInterval{Start: clockFromMinutes(end.Minutes() - step), End: end}
	default:
		next := start.Minutes() + step
		if next >= minutesPerDay {
			last := a.lastSlot()
			return ClockInterval{Start: clockFromMinutes(last.Minutes() - step), End: last}
		}
		return ClockInterval{Start: start, End: clockFromMinutes(next)}
	}
}

// DefaultInterval is the one-step interval starting at now rounded down.
func (a *Accountant) DefaultInterval(now time.Time) ClockInterval {
	start := a.Floor(ClockOf(now))
	return a.Reconcile(start, start, StartBound)
}
