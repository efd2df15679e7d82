package output

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"tasklog/internal/timeutil"
	"tasklog/storage"
	"tasklog/timerange"
)

const (
	secondsPerDay = 86400
	maxGreen      = 255
)

type CalendarEntry struct {
	Start    time.Time
	End      time.Time
	TaskPath string
}

// CalendarDay is one cell of the time-log heat map.
type CalendarDay struct {
	Date          string
	LoggedSeconds int64
	Green         int
	Tooltip       string
	Entries       []CalendarEntry
}

// Color is the cell colour as #RRGGBB with only the green channel set.
func (d CalendarDay) Color() string {
	return fmt.Sprintf("#00%02X00", d.Green)
}

// BuildCalendar groups time logs by local day, sorted by date.
func BuildCalendar(details []storage.TimeLogDetail) []CalendarDay {
	if len(details) == 0 {
		return []CalendarDay{}
	}

	byDay := make(map[string][]CalendarEntry)
	logged := make(map[string]int64)
	for _, detail := range details {
		day := timeutil.DayKey(detail.TimeLog.Start)
		byDay[day] = append(byDay[day], CalendarEntry{
			Start:    detail.TimeLog.Start,
			End:      detail.TimeLog.End,
			TaskPath: detail.TaskPath,
		})
		if seconds, err := detail.TimeLog.Seconds(); err == nil {
			logged[day] += seconds
		}
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	calendar := make([]CalendarDay, 0, len(days))
	for _, day := range days {
		entries := byDay[day]
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Start.Before(entries[j].Start)
		})
		calendar = append(calendar, CalendarDay{
			Date:          day,
			LoggedSeconds: logged[day],
			Green:         GreenIntensity(logged[day]),
			Tooltip:       calendarTooltip(logged[day], entries),
			Entries:       entries,
		})
	}
	return calendar
}

// GreenIntensity scales logged seconds of a day onto 0..255.
func GreenIntensity(seconds int64) int {
	if seconds <= 0 {
		return 0
	}
	green := seconds * maxGreen / secondsPerDay
	if green > maxGreen {
		return maxGreen
	}
	return int(green)
}

func calendarTooltip(seconds int64, entries []CalendarEntry) string {
	lines := make([]string, 0, len(entries)+1)
	lines = append(lines, totalLine(seconds))
	for _, entry := range entries {
		lines = append(lines, fmt.Sprintf(
			"%s - %s | %s",
			timerange.ClockOf(entry.Start.In(time.Local)),
			timerange.ClockOf(entry.End.In(time.Local)),
			entry.TaskPath,
		))
	}
	return strings.Join(lines, "\n")
}

func totalLine(seconds int64) string {
	hours, minutes := timerange.SplitHoursMinutes(seconds)
	if hours == 0 {
		return fmt.Sprintf("Total: %d min logged", minutes)
	}
	return fmt.Sprintf("Total: %d h %d min logged", hours, minutes)
}

var calendarHeaders = []string{"Date", "Logged", "Color", "Tooltip"}

func (d CalendarDay) values() []string {
	return []string{d.Date, timerange.FormatHoursMinutes(d.LoggedSeconds), d.Color(), d.Tooltip}
}

func WriteCalendar(path, format string, days []CalendarDay) error {
	switch normalizeFormat(format) {
	case "csv":
		return writeCalendarCSV(path, days)
	case "excel", "xlsx":
		return writeCalendarExcel(path, days)
	default:
		return fmt.Errorf("unsupported output format for calendar: %s", format)
	}
}
