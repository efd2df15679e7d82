package web

import (
	"errors"

	"tasklog/entry"
	"tasklog/internal/timeutil"
	"tasklog/output"
	"tasklog/timerange"
	"tasklog/worklog"
)

type CalendarDayView struct {
	Date          string `json:"date"`
	LoggedSeconds int64  `json:"loggedSeconds"`
	Green         int    `json:"green"`
	Color         string `json:"color"`
	Tooltip       string `json:"tooltip"`
}

type TaskView struct {
	ID               int64   `json:"id"`
	Path             string  `json:"path"`
	Status           string  `json:"status"`
	ScheduleTiming   int64   `json:"scheduleTiming"`
	ScheduleUnit     string  `json:"scheduleUnit"`
	ScheduledSeconds int64   `json:"scheduledSeconds"`
	LoggedSeconds    int64   `json:"loggedSeconds"`
	Percentage       float64 `json:"percentage"`
	RemainingSeconds int64   `json:"remainingSeconds"`
	Overrun          bool    `json:"overrun"`
	// HasSchedule is false for tasks without scheduled effort; the balance
	// fields are zero then.
	HasSchedule bool `json:"hasSchedule"`
}

type PreviewView struct {
	TaskID           int64   `json:"taskId"`
	Date             string  `json:"date"`
	Start            string  `json:"start"`
	End              string  `json:"end"`
	CandidateSeconds int64   `json:"candidateSeconds"`
	Percentage       float64 `json:"percentage"`
	RemainingSeconds int64   `json:"remainingSeconds"`
	Overrun          bool    `json:"overrun"`
	Message          string  `json:"message"`
}

type SubmitView struct {
	PreviewView
	TimeLogID    int64  `json:"timeLogId"`
	Extended     bool   `json:"extended"`
	Schedule     int64  `json:"schedule"`
	ScheduleUnit string `json:"scheduleUnit"`
	Status       string `json:"status"`
}

func BuildCalendarView(days []output.CalendarDay) []CalendarDayView {
	out := make([]CalendarDayView, 0, len(days))
	for _, day := range days {
		out = append(out, CalendarDayView{
			Date:          day.Date,
			LoggedSeconds: day.LoggedSeconds,
			Green:         day.Green,
			Color:         day.Color(),
			Tooltip:       day.Tooltip,
		})
	}
	return out
}

func BuildTaskView(task worklog.Task, path string, loggedSeconds int64) (TaskView, error) {
	view := TaskView{
		ID:             task.ID,
		Path:           path,
		Status:         task.Status,
		ScheduleTiming: task.ScheduleTiming,
		ScheduleUnit:   string(task.ScheduleUnit),
		LoggedSeconds:  loggedSeconds,
	}
	scheduled, err := task.ScheduleSeconds()
	if err != nil {
		return TaskView{}, err
	}
	view.ScheduledSeconds = scheduled

	balance, err := timerange.Evaluate(timerange.TaskEffort{ScheduledSeconds: scheduled, LoggedSeconds: loggedSeconds}, 0, 0)
	if errors.Is(err, timerange.ErrZeroSchedule) {
		return view, nil
	}
	if err != nil {
		return TaskView{}, err
	}
	view.HasSchedule = true
	view.Percentage = balance.Percentage
	view.RemainingSeconds = balance.RemainingSeconds
	view.Overrun = balance.Overrun
	return view, nil
}

func BuildPreviewView(preview entry.Preview) PreviewView {
	return PreviewView{
		TaskID:           preview.Task.ID,
		Date:             timeutil.DayKey(preview.Start),
		Start:            preview.Interval.Start.String(),
		End:              preview.Interval.End.String(),
		CandidateSeconds: preview.CandidateSeconds,
		Percentage:       preview.Balance.Percentage,
		RemainingSeconds: preview.Balance.RemainingSeconds,
		Overrun:          preview.Balance.Overrun,
		Message:          preview.Message,
	}
}

func BuildSubmitView(result entry.Result) SubmitView {
	return SubmitView{
		PreviewView:  BuildPreviewView(result.Preview),
		TimeLogID:    result.TimeLogID,
		Extended:     result.Extended,
		Schedule:     result.Schedule,
		ScheduleUnit: string(result.ScheduleUnit),
		Status:       result.Status,
	}
}
