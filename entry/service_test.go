package entry

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"tasklog/storage"
	"tasklog/timerange"
	"tasklog/worklog"
)

var testDay = time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)

type testEnv struct {
	store   *storage.SQLiteStore
	service *Service
	userID  int64
	otherID int64
	taskID  int64
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()

	store, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "entry_test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	projectID, err := store.CreateProject(worklog.Project{Name: "Big Film", Code: "BF", Status: worklog.StatusWorkInProcess, FPS: 25})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	userID, err := store.CreateUser(worklog.User{Name: "Ada Artist", Login: "ada"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	otherID, err := store.CreateUser(worklog.User{Name: "Bob Builder", Login: "bob"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	taskID, err := store.CreateTask(worklog.Task{ProjectID: projectID, Name: "Comp", ScheduleTiming: 8, ScheduleUnit: timerange.Hours, Status: worklog.StatusWorkInProcess})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	accountant, err := timerange.NewAccountant(10)
	if err != nil {
		t.Fatalf("new accountant: %v", err)
	}
	service := NewService(store, accountant, Options{
		Now:           func() time.Time { return testDay.Add(12 * time.Hour) },
		RevisionTypes: []string{"Client Revision", "Artist Mistake"},
	})

	return testEnv{store: store, service: service, userID: userID, otherID: otherID, taskID: taskID}
}

// logSevenHours books 09:00-16:00 so one hour of the 8 h schedule is left.
func (e testEnv) logSevenHours(t *testing.T) int64 {
	t.Helper()
	id, err := e.store.InsertTimeLog(worklog.TimeLog{
		TaskID:     e.taskID,
		ResourceID: e.userID,
		Start:      testDay.Add(9 * time.Hour),
		End:        testDay.Add(16 * time.Hour),
	})
	if err != nil {
		t.Fatalf("insert time log: %v", err)
	}
	return id
}

func (e testEnv) request(startHour, startMinute, endHour, endMinute int) Request {
	return Request{
		TaskID:         e.taskID,
		ResourceID:     e.userID,
		LoggedInUserID: e.userID,
		Date:           testDay,
		Start:          timerange.Clock{Hour: startHour, Minute: startMinute},
		End:            timerange.Clock{Hour: endHour, Minute: endMinute},
	}
}

func TestPreview_RemainingMessage(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.logSevenHours(t)

	preview, err := env.service.Preview(env.request(16, 0, 16, 30))
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if preview.Balance.RemainingSeconds != 1800 {
		t.Fatalf("expected 1800 remaining seconds, got %d", preview.Balance.RemainingSeconds)
	}
	want := "If you enter this time log, 0 h 30 min will remain to complete this task."
	if preview.Message != want {
		t.Fatalf("expected %q, got %q", want, preview.Message)
	}
}

func TestPreview_OverrunMessage(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.logSevenHours(t)

	preview, err := env.service.Preview(env.request(16, 0, 18, 0))
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if !preview.Balance.Overrun {
		t.Fatalf("expected overrun")
	}
	if preview.Balance.Percentage != 112.5 {
		t.Fatalf("expected 112.5%%, got %v", preview.Balance.Percentage)
	}
	want := "You need 1 h 0 min extra time. If you enter this time log, time of the task will be extended."
	if preview.Message != want {
		t.Fatalf("expected %q, got %q", want, preview.Message)
	}
}

func TestPreview_ReconcilesEditedBound(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	req := env.request(17, 0, 17, 0)
	req.Edited = timerange.StartBound

	preview, err := env.service.Preview(req)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if preview.Interval.String() != "17:00 - 17:10" {
		t.Fatalf("expected 17:00 - 17:10, got %s", preview.Interval)
	}
	if preview.CandidateSeconds != 600 {
		t.Fatalf("expected 600 candidate seconds, got %d", preview.CandidateSeconds)
	}
}

func TestPreview_RejectsEmptyIntervalWithoutEditedBound(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	_, err := env.service.Preview(env.request(17, 0, 17, 0))
	if !errors.Is(err, timerange.ErrInvalidInterval) {
		t.Fatalf("expected ErrInvalidInterval, got %v", err)
	}
}

func TestSubmit_ExtendsScheduleOnOverrun(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.logSevenHours(t)

	result, err := env.service.Submit(env.request(16, 0, 18, 0))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !result.Extended {
		t.Fatalf("expected schedule extension")
	}

	task, err := env.store.GetTask(env.taskID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if task.ScheduleTiming != 9 || task.ScheduleUnit != timerange.Hours {
		t.Fatalf("expected schedule 9 h, got %d %s", task.ScheduleTiming, task.ScheduleUnit)
	}

	notes, err := env.store.ListNotes(env.taskID)
	if err != nil {
		t.Fatalf("list notes: %v", err)
	}
	if len(notes) != 1 {
		t.Fatalf("expected 1 note, got %d", len(notes))
	}
	if notes[0].Type != "Client Revision" {
		t.Fatalf("expected default revision type, got %q", notes[0].Type)
	}
	if notes[0].Content != "Extending timing of the task 1 h 0 min." {
		t.Fatalf("unexpected note content %q", notes[0].Content)
	}
}

func TestSubmit_UsesSelectedRevisionType(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.logSevenHours(t)

	req := env.request(16, 0, 18, 0)
	req.RevisionType = "artist mistake"
	if _, err := env.service.Submit(req); err != nil {
		t.Fatalf("submit: %v", err)
	}

	notes, err := env.store.ListNotes(env.taskID)
	if err != nil {
		t.Fatalf("list notes: %v", err)
	}
	if len(notes) != 1 || notes[0].Type != "Artist Mistake" {
		t.Fatalf("expected Artist Mistake note, got %+v", notes)
	}
}

func TestSubmit_RejectsUnknownRevisionType(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	req := env.request(9, 0, 10, 0)
	req.RevisionType = "Director Whim"

	_, err := env.service.Submit(req)
	if !errors.Is(err, ErrUnknownRevisionType) {
		t.Fatalf("expected ErrUnknownRevisionType, got %v", err)
	}
}

func TestSubmit_RequiresOnBehalfForOtherResource(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	req := env.request(9, 0, 10, 0)
	req.ResourceID = env.otherID

	if _, err := env.service.Submit(req); !errors.Is(err, ErrOnBehalf) {
		t.Fatalf("expected ErrOnBehalf, got %v", err)
	}

	req.OnBehalf = true
	result, err := env.service.Submit(req)
	if err != nil {
		t.Fatalf("submit on behalf: %v", err)
	}
	booked, err := env.store.GetTimeLog(result.TimeLogID)
	if err != nil {
		t.Fatalf("get time log: %v", err)
	}
	if booked.ResourceID != env.otherID {
		t.Fatalf("expected resource %d, got %d", env.otherID, booked.ResourceID)
	}
}

func TestSubmit_RejectsFutureDay(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	req := env.request(9, 0, 10, 0)
	req.Date = testDay.AddDate(0, 0, 1)

	if _, err := env.service.Submit(req); !errors.Is(err, ErrFutureTimeLog) {
		t.Fatalf("expected ErrFutureTimeLog, got %v", err)
	}
}

func TestSubmit_AllowsLaterToday(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	if _, err := env.service.Submit(env.request(23, 0, 23, 50)); err != nil {
		t.Fatalf("expected booking later today to pass: %v", err)
	}
}

func TestSubmit_RejectsOverbooking(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.logSevenHours(t)

	_, err := env.service.Submit(env.request(15, 0, 16, 30))
	if !errors.Is(err, ErrOverBooked) {
		t.Fatalf("expected ErrOverBooked, got %v", err)
	}
}

func TestSubmit_EditExcludesOwnSeconds(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	id := env.logSevenHours(t)

	req := env.request(9, 0, 17, 0)
	req.TimeLogID = id
	result, err := env.service.Submit(req)
	if err != nil {
		t.Fatalf("submit edit: %v", err)
	}
	if result.Extended {
		t.Fatalf("expected no extension")
	}
	if result.Preview.Balance.RemainingSeconds != 0 {
		t.Fatalf("expected 0 remaining seconds, got %d", result.Preview.Balance.RemainingSeconds)
	}

	total, err := env.store.TotalLoggedSeconds(env.taskID)
	if err != nil {
		t.Fatalf("total logged: %v", err)
	}
	if total != 8*3600 {
		t.Fatalf("expected 28800 logged seconds, got %d", total)
	}
}

func TestSubmit_CompleteForcesStatus(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	req := env.request(9, 0, 10, 0)
	req.Outcome = OutcomeComplete

	result, err := env.service.Submit(req)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Status != worklog.StatusCompleted {
		t.Fatalf("expected status CMPL, got %q", result.Status)
	}

	notes, err := env.store.ListNotes(env.taskID)
	if err != nil {
		t.Fatalf("list notes: %v", err)
	}
	if len(notes) != 1 || notes[0].Type != worklog.NoteTypeForcedStatus {
		t.Fatalf("expected one forced status note, got %+v", notes)
	}
	if notes[0].Content != "Ada Artist has changed this task status to Completed" {
		t.Fatalf("unexpected note content %q", notes[0].Content)
	}
}

func TestSubmit_ReviewClipsSchedule(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.logSevenHours(t)

	req := env.request(16, 0, 16, 30)
	req.Outcome = OutcomeReview
	result, err := env.service.Submit(req)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	task, err := env.store.GetTask(env.taskID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if task.Status != worklog.StatusPendingReview || result.Status != worklog.StatusPendingReview {
		t.Fatalf("expected status PREV, got %q", task.Status)
	}
	if task.ScheduleTiming != 450 || task.ScheduleUnit != timerange.Minutes {
		t.Fatalf("expected schedule 450 min, got %d %s", task.ScheduleTiming, task.ScheduleUnit)
	}

	notes, err := env.store.ListNotes(env.taskID)
	if err != nil {
		t.Fatalf("list notes: %v", err)
	}
	if len(notes) != 1 || notes[0].Type != worklog.NoteTypeRequestReview {
		t.Fatalf("expected one review note, got %+v", notes)
	}
}

func TestSubmit_RejectsUnknownOutcome(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	req := env.request(9, 0, 10, 0)
	req.Outcome = Outcome("archive")

	if _, err := env.service.Submit(req); !errors.Is(err, ErrUnknownOutcome) {
		t.Fatalf("expected ErrUnknownOutcome, got %v", err)
	}
	logs, err := env.store.ListTimeLogs()
	if err != nil {
		t.Fatalf("list time logs: %v", err)
	}
	if len(logs) != 0 {
		t.Fatalf("expected no booked logs, got %d", len(logs))
	}
}

func TestSubmit_CompleteOnBehalfNamesResource(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	req := env.request(9, 0, 10, 0)
	req.ResourceID = env.otherID
	req.OnBehalf = true
	req.Outcome = OutcomeComplete

	if _, err := env.service.Submit(req); err != nil {
		t.Fatalf("submit: %v", err)
	}
	notes, err := env.store.ListNotes(env.taskID)
	if err != nil {
		t.Fatalf("list notes: %v", err)
	}
	if len(notes) != 1 {
		t.Fatalf("expected one note, got %d", len(notes))
	}
	if notes[0].Content != "Bob Builder has changed this task status to Completed" {
		t.Fatalf("unexpected note content %q", notes[0].Content)
	}
	if notes[0].CreatedBy != env.userID {
		t.Fatalf("expected note created by %d, got %d", env.userID, notes[0].CreatedBy)
	}
}

func TestCheck_RejectsLikeSubmitWithoutWriting(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.logSevenHours(t)

	overlapping := env.request(15, 0, 17, 0)
	if _, err := env.service.Check(overlapping); !errors.Is(err, ErrOverBooked) {
		t.Fatalf("expected ErrOverBooked, got %v", err)
	}
	future := env.request(9, 0, 10, 0)
	future.Date = testDay.AddDate(0, 0, 1)
	if _, err := env.service.Check(future); !errors.Is(err, ErrFutureTimeLog) {
		t.Fatalf("expected ErrFutureTimeLog, got %v", err)
	}
	other := env.request(16, 0, 17, 0)
	other.ResourceID = env.otherID
	if _, err := env.service.Check(other); !errors.Is(err, ErrOnBehalf) {
		t.Fatalf("expected ErrOnBehalf, got %v", err)
	}

	preview, err := env.service.Check(env.request(16, 0, 17, 0))
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if preview.CandidateSeconds != 3600 {
		t.Fatalf("expected 3600 candidate seconds, got %d", preview.CandidateSeconds)
	}
	logs, err := env.store.ListTimeLogs()
	if err != nil {
		t.Fatalf("list time logs: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("expected only the seeded log, got %d", len(logs))
	}
}

func TestCreateTask_EmptyScheduleCannotTakeTimeLogs(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	task, err := env.store.GetTask(env.taskID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	_, err = env.store.CreateTask(worklog.Task{ProjectID: task.ProjectID, Name: "Paint", ScheduleTiming: 0, ScheduleUnit: timerange.Hours, Status: worklog.StatusNew})
	if !errors.Is(err, storage.ErrEmptySchedule) {
		t.Fatalf("expected ErrEmptySchedule, got %v", err)
	}
}
