package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"tasklog/entry"
	"tasklog/storage"
	"tasklog/timerange"
	"tasklog/worklog"
)

type testServer struct {
	url    string
	taskID int64
}

func newTestServer(t *testing.T) testServer {
	t.Helper()

	store, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "web_test.db"))
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
	if _, err := store.CreateUser(worklog.User{Name: "Bob Builder", Login: "bob"}); err != nil {
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
	bookings := entry.NewService(store, accountant, entry.Options{
		Now:           func() time.Time { return time.Date(2026, time.March, 10, 12, 0, 0, 0, time.Local) },
		RevisionTypes: []string{"Client Revision"},
	})

	user, err := store.GetUser(userID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	ts := httptest.NewServer(NewServer(store, bookings, Options{
		LoggedIn: user,
		Statuses: []string{"NEW", "WIP", "CMPL"},
	}))
	t.Cleanup(ts.Close)

	return testServer{url: ts.URL, taskID: taskID}
}

func (s testServer) post(t *testing.T, path, body string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(s.url+path, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post %s: %v", path, err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp, data
}

func (s testServer) get(t *testing.T, path string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(s.url + path)
	if err != nil {
		t.Fatalf("get %s: %v", path, err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp, data
}

func (s testServer) timeLogBody(login, start, end string) string {
	return `{"taskId":` + strconv.FormatInt(s.taskID, 10) +
		`,"login":"` + login + `","date":"2026-03-10","start":"` + start + `","end":"` + end + `"}`
}

func TestServer_TaskShowsBalance(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	resp, body := ts.get(t, "/api/tasks/"+strconv.FormatInt(ts.taskID, 10))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}

	var view TaskView
	if err := json.Unmarshal(body, &view); err != nil {
		t.Fatalf("decode task: %v", err)
	}
	if view.ScheduledSeconds != 28800 || view.RemainingSeconds != 28800 {
		t.Fatalf("unexpected balance %+v", view)
	}
	if !view.HasSchedule || view.Overrun {
		t.Fatalf("unexpected flags %+v", view)
	}
	if !strings.Contains(view.Path, "Comp") {
		t.Fatalf("expected task path to contain name, got %q", view.Path)
	}
}

func TestServer_TaskInvalidAndMissing(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	if resp, _ := ts.get(t, "/api/tasks/abc"); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if resp, _ := ts.get(t, "/api/tasks/999"); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestServer_PreviewDoesNotBook(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	resp, body := ts.post(t, "/api/timelogs/preview", ts.timeLogBody("", "09:05", "12:38"))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}

	var view PreviewView
	if err := json.Unmarshal(body, &view); err != nil {
		t.Fatalf("decode preview: %v", err)
	}
	if view.Start != "09:00" || view.End != "12:30" {
		t.Fatalf("expected snapped 09:00 - 12:30, got %s - %s", view.Start, view.End)
	}
	if view.CandidateSeconds != 12600 {
		t.Fatalf("expected 12600 candidate seconds, got %d", view.CandidateSeconds)
	}
	if !strings.Contains(view.Message, "4 h 30 min will remain") {
		t.Fatalf("unexpected message %q", view.Message)
	}

	_, calendar := ts.get(t, "/api/calendar")
	if strings.TrimSpace(string(calendar)) != "[]" {
		t.Fatalf("expected empty calendar after preview, got %s", calendar)
	}
}

func TestServer_SubmitBooksAndShowsInCalendar(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	resp, body := ts.post(t, "/api/timelogs", ts.timeLogBody("ada", "09:00", "12:30"))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, body)
	}
	var submitted SubmitView
	if err := json.Unmarshal(body, &submitted); err != nil {
		t.Fatalf("decode submit: %v", err)
	}
	if submitted.TimeLogID <= 0 || submitted.Extended {
		t.Fatalf("unexpected submit result %+v", submitted)
	}

	resp, body = ts.get(t, "/api/calendar?login=ada")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}
	var days []CalendarDayView
	if err := json.Unmarshal(body, &days); err != nil {
		t.Fatalf("decode calendar: %v", err)
	}
	if len(days) != 1 || days[0].Date != "2026-03-10" || days[0].LoggedSeconds != 12600 {
		t.Fatalf("unexpected calendar %+v", days)
	}
	if !strings.Contains(days[0].Tooltip, "09:00 - 12:30") {
		t.Fatalf("unexpected tooltip %q", days[0].Tooltip)
	}
}

func TestServer_SubmitErrorStatuses(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	if resp, body := ts.post(t, "/api/timelogs", ts.timeLogBody("", "09:00", "10:00")); resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, body)
	}

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{name: "overbooked", body: ts.timeLogBody("", "09:30", "10:30"), status: http.StatusConflict},
		{name: "other resource", body: ts.timeLogBody("bob", "11:00", "12:00"), status: http.StatusForbidden},
		{name: "unknown resource", body: ts.timeLogBody("carl", "11:00", "12:00"), status: http.StatusNotFound},
		{name: "empty interval", body: ts.timeLogBody("", "11:00", "11:05"), status: http.StatusUnprocessableEntity},
		{name: "bad clock", body: ts.timeLogBody("", "eleven", "12:00"), status: http.StatusBadRequest},
		{name: "unknown field", body: `{"task":1}`, status: http.StatusBadRequest},
	}
	for _, tc := range tests {
		resp, body := ts.post(t, "/api/timelogs", tc.body)
		if resp.StatusCode != tc.status {
			t.Fatalf("%s: expected %d, got %d: %s", tc.name, tc.status, resp.StatusCode, body)
		}
	}
}

func TestServer_ProjectValidate(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	resp, body := ts.post(t, "/api/projects/validate", `{"name":"Big/Film","code":"","status":"WIP","fps":25}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}

	var result projectValidation
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatalf("decode validation: %v", err)
	}
	if result.Valid {
		t.Fatalf("expected invalid form")
	}
	if result.DerivedCode != "BF" {
		t.Fatalf("expected derived code BF, got %q", result.DerivedCode)
	}
	if result.Errors["name"] != "Invalid character" || result.Errors["code"] != "Enter a code" {
		t.Fatalf("unexpected errors %+v", result.Errors)
	}

	_, body = ts.post(t, "/api/projects/validate", `{"name":"Big Film","code":"BF","status":"wip","fps":25}`)
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatalf("decode validation: %v", err)
	}
	if !result.Valid || len(result.Errors) != 0 {
		t.Fatalf("expected valid form, got %+v", result)
	}
}
