package web

import (
	"testing"

	"tasklog/output"
	"tasklog/timerange"
	"tasklog/worklog"
)

func TestBuildTaskView_Overrun(t *testing.T) {
	t.Parallel()

	task := worklog.Task{ID: 3, Status: "WIP", ScheduleTiming: 2, ScheduleUnit: timerange.Hours}
	view, err := BuildTaskView(task, "Comp (BF)", 9000)
	if err != nil {
		t.Fatalf("build task view: %v", err)
	}
	if !view.Overrun || view.RemainingSeconds != -1800 {
		t.Fatalf("expected overrun of 1800 seconds, got %+v", view)
	}
	if view.Percentage != 125 {
		t.Fatalf("expected 125%%, got %v", view.Percentage)
	}
}

func TestBuildTaskView_NoSchedule(t *testing.T) {
	t.Parallel()

	task := worklog.Task{ID: 4, Status: "NEW", ScheduleTiming: 0, ScheduleUnit: timerange.Hours}
	view, err := BuildTaskView(task, "Roto (BF)", 600)
	if err != nil {
		t.Fatalf("build task view: %v", err)
	}
	if view.HasSchedule || view.Percentage != 0 {
		t.Fatalf("expected view without balance, got %+v", view)
	}
	if view.LoggedSeconds != 600 {
		t.Fatalf("expected logged seconds 600, got %d", view.LoggedSeconds)
	}
}

func TestBuildCalendarView_CopiesColor(t *testing.T) {
	t.Parallel()

	days := BuildCalendarView([]output.CalendarDay{{Date: "2026-03-10", LoggedSeconds: 27000, Green: 79, Tooltip: "Total: 7 h 30 min logged"}})
	if len(days) != 1 || days[0].Color != "#004F00" {
		t.Fatalf("unexpected calendar view %+v", days)
	}
}
