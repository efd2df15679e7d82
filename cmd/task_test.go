package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tasklog/storage"
	"tasklog/timerange"
	"tasklog/worklog"
)

func TestPrintTask_ShowsOverrunAndNotes(t *testing.T) {
	t.Parallel()

	store, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "task_test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer store.Close()

	projectID, err := store.CreateProject(worklog.Project{Name: "Big Film", Code: "BF", Status: worklog.StatusWorkInProcess, FPS: 25})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	userID, err := store.CreateUser(worklog.User{Name: "Ada Artist", Login: "ada"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	taskID, err := store.CreateTask(worklog.Task{ProjectID: projectID, Name: "Comp", ScheduleTiming: 8, ScheduleUnit: timerange.Hours, Status: worklog.StatusWorkInProcess})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	day := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.Local)
	if _, err := store.InsertTimeLog(worklog.TimeLog{TaskID: taskID, ResourceID: userID, Start: day.Add(9 * time.Hour), End: day.Add(19 * time.Hour)}); err != nil {
		t.Fatalf("insert time log: %v", err)
	}
	if _, err := store.AddNote(worklog.Note{TaskID: taskID, CreatedBy: userID, Type: "Client Revision", Content: "Extending timing of the task Comp."}); err != nil {
		t.Fatalf("add note: %v", err)
	}

	var out bytes.Buffer
	if err := printTask(&out, store, taskID); err != nil {
		t.Fatalf("print task: %v", err)
	}
	text := out.String()
	for _, want := range []string{
		"Status: WIP\n",
		"Schedule: 8 h\n",
		"Logged: 10 h 0 min\n",
		"Completed: 125.0%\n",
		"Overrun: 2 h 0 min\n",
		"[Client Revision] Extending timing of the task Comp.",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, text)
		}
	}
}

func TestNewTask_RejectsEmptySchedule(t *testing.T) {
	t.Parallel()

	for _, schedule := range []int64{0, -2} {
		if _, err := newTask("Comp", schedule, "h", "new"); err == nil {
			t.Fatalf("expected error for schedule %d", schedule)
		}
	}
	if _, err := newTask(" ", 8, "h", "new"); err == nil {
		t.Fatalf("expected error for empty name")
	}

	task, err := newTask(" Comp ", defaultTaskSchedule, "h", "wip")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Name != "Comp" || task.ScheduleTiming != 10 || task.ScheduleUnit != timerange.Hours || task.Status != "WIP" {
		t.Fatalf("unexpected task %+v", task)
	}
}
