package timerange

import (
	"fmt"
	"strings"
)

type Unit string

const (
	Minutes Unit = "min"
	Hours   Unit = "h"
	Days    Unit = "d"
)

// coarsest first; minutes always fit
var wholeUnits = []Unit{Days, Hours}

func (u Unit) Seconds() int64 {
	switch u {
	case Days:
		return 86400
	case Hours:
		return 3600
	case Minutes:
		return 60
	default:
		return 0
	}
}

func ParseUnit(value string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "min", "m", "minute", "minutes":
		return Minutes, nil
	case "h", "hour", "hours":
		return Hours, nil
	case "d", "day", "days":
		return Days, nil
	default:
		return "", fmt.Errorf("unsupported time unit %q (valid: min, h, d)", value)
	}
}

// ScheduleSeconds converts a schedule timing/unit pair into seconds.
func ScheduleSeconds(timing int64, unit Unit) (int64, error) {
	if timing < 0 {
		return 0, fmt.Errorf("schedule timing %d: %w", timing, ErrNegativeDuration)
	}
	size := unit.Seconds()
	if size == 0 {
		return 0, fmt.Errorf("unsupported time unit %q", unit)
	}
	return timing * size, nil
}

// LeastMeaningfulUnit expresses totalSeconds in the coarsest unit that holds
// it as a whole quantity. Seconds below a full minute are dropped, so 5400
// seconds is 90 min and 0 is 0 min.
func LeastMeaningfulUnit(totalSeconds int64) (int64, Unit, error) {
	if totalSeconds < 0 {
		return 0, "", fmt.Errorf("total seconds %d: %w", totalSeconds, ErrNegativeDuration)
	}
	floored := totalSeconds - totalSeconds%Minutes.Seconds()
	if floored == 0 {
		return 0, Minutes, nil
	}
	for _, unit := range wholeUnits {
		if floored%unit.Seconds() == 0 {
			return floored / unit.Seconds(), unit, nil
		}
	}
	return floored / Minutes.Seconds(), Minutes, nil
}

func SplitHoursMinutes(seconds int64) (int64, int64) {
	if seconds < 0 {
		seconds = -seconds
	}
	hours := seconds / 3600
	minutes := (seconds - hours*3600) / 60
	return hours, minutes
}

// FormatHoursMinutes renders a magnitude as "1 h 0 min"; the sign is dropped.
func FormatHoursMinutes(seconds int64) string {
	hours, minutes := SplitHoursMinutes(seconds)
	return fmt.Sprintf("%d h %d min", hours, minutes)
}
