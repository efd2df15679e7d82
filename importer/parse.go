package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"tasklog/timerange"
)

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("missing date")
	}

	layouts := []string{
		"2006-01-02",
		"02.01.2006",
		"01/02/2006",
		time.RFC3339,
	}
	for _, layout := range layouts {
		if parsed, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.Local), nil
		}
	}

	return time.Time{}, fmt.Errorf("unsupported date format: %q", value)
}

func parseClock(label, value string) (timerange.Clock, error) {
	if strings.TrimSpace(value) == "" {
		return timerange.Clock{}, fmt.Errorf("missing %s time", label)
	}
	clock, err := timerange.ParseClock(value)
	if err != nil {
		return timerange.Clock{}, fmt.Errorf("%s time: %w", label, err)
	}
	return clock, nil
}

func parseID(label, value string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("missing %s", label)
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", label, value)
	}
	return id, nil
}
