package timerange

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const minutesPerDay = 24 * 60

var ErrInvalidInterval = errors.New("invalid interval: end must be after start")

// Clock is a time of day with minute precision.
type Clock struct {
	Hour   int
	Minute int
}

func NewClock(hour, minute int) (Clock, error) {
	if hour < 0 || hour > 23 {
		return Clock{}, fmt.Errorf("hour %d out of range 0-23", hour)
	}
	if minute < 0 || minute > 59 {
		return Clock{}, fmt.Errorf("minute %d out of range 0-59", minute)
	}
	return Clock{Hour: hour, Minute: minute}, nil
}

// ParseClock accepts "15:04" and "3:04 PM" style values.
func ParseClock(value string) (Clock, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Clock{}, fmt.Errorf("empty time of day")
	}
	for _, layout := range []string{"15:04", "3:04 PM", "15:04:05"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return Clock{Hour: parsed.Hour(), Minute: parsed.Minute()}, nil
		}
	}
	return Clock{}, fmt.Errorf("unsupported time of day: %q", value)
}

func ClockOf(value time.Time) Clock {
	return Clock{Hour: value.Hour(), Minute: value.Minute()}
}

func clockFromMinutes(minutes int) Clock {
	return Clock{Hour: minutes / 60, Minute: minutes % 60}
}

// Minutes returns the minutes elapsed since midnight.
func (c Clock) Minutes() int {
	return c.Hour*60 + c.Minute
}

func (c Clock) Before(other Clock) bool {
	return c.Minutes() < other.Minutes()
}

func (c Clock) IsMidnight() bool {
	return c.Hour == 0 && c.Minute == 0
}

// On places the clock on the calendar day of day, in day's location.
func (c Clock) On(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), c.Hour, c.Minute, 0, 0, day.Location())
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// ClockInterval is a same-day range of clock values.
type ClockInterval struct {
	Start Clock
	End   Clock
}

func (i ClockInterval) Seconds() (int64, error) {
	if !i.Start.Before(i.End) {
		return 0, fmt.Errorf("%w (%s - %s)", ErrInvalidInterval, i.Start, i.End)
	}
	return int64(i.End.Minutes()-i.Start.Minutes()) * 60, nil
}

func (i ClockInterval) On(day time.Time) TimeInterval {
	return TimeInterval{Start: i.Start.On(day), End: i.End.On(day)}
}

func (i ClockInterval) String() string {
	return i.Start.String() + " - " + i.End.String()
}

type TimeInterval struct {
	Start time.Time
	End   time.Time
}

func (i TimeInterval) Seconds() (int64, error) {
	if !i.End.After(i.Start) {
		return 0, fmt.Errorf(
			"%w (%s - %s)",
			ErrInvalidInterval,
			i.Start.Format(time.RFC3339),
			i.End.Format(time.RFC3339),
		)
	}
	return int64(i.End.Sub(i.Start) / time.Second), nil
}

// Overlaps reports whether both intervals share any instant; touching ends do not overlap.
func (i TimeInterval) Overlaps(other TimeInterval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}
