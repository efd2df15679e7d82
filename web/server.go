// Package web serves a localhost-only JSON API over the time-log dialog; it
// intentionally has no auth/CSRF protection in this mode.
package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"tasklog/entry"
	"tasklog/internal/timeutil"
	"tasklog/output"
	"tasklog/project"
	"tasklog/storage"
	"tasklog/timerange"
	"tasklog/worklog"
)

type Store interface {
	GetUserByLogin(login string) (worklog.User, error)
	GetTask(id int64) (worklog.Task, error)
	TaskPath(id int64) (string, error)
	TotalLoggedSeconds(taskID int64) (int64, error)
	ListTimeLogDetails(resourceID int64) ([]storage.TimeLogDetail, error)
}

type Bookings interface {
	Preview(req entry.Request) (entry.Preview, error)
	Submit(req entry.Request) (entry.Result, error)
}

type Options struct {
	// LoggedIn is the user every request acts as.
	LoggedIn worklog.User
	Statuses []string
	Logger   *slog.Logger
}

type Server struct {
	store     Store
	bookings  Bookings
	validator *project.Validator
	loggedIn  worklog.User
	logger    *slog.Logger
	mux       *http.ServeMux
}

type timeLogRequest struct {
	TaskID       int64  `json:"taskId"`
	Login        string `json:"login"`
	TimeLogID    int64  `json:"timeLogId"`
	Date         string `json:"date"`
	Start        string `json:"start"`
	End          string `json:"end"`
	Edited       string `json:"edited"`
	Description  string `json:"description"`
	Outcome      string `json:"outcome"`
	RevisionType string `json:"revisionType"`
	OnBehalf     bool   `json:"onBehalf"`
}

type projectFormRequest struct {
	Name        string `json:"name"`
	Code        string `json:"code"`
	Type        string `json:"type"`
	Status      string `json:"status"`
	FPS         int    `json:"fps"`
	ImageFormat string `json:"imageFormat"`
	ImageWidth  int    `json:"imageWidth"`
	ImageHeight int    `json:"imageHeight"`
	Repository  string `json:"repository"`
	Structure   string `json:"structure"`
}

type projectValidation struct {
	Valid       bool              `json:"valid"`
	DerivedCode string            `json:"derivedCode"`
	Errors      map[string]string `json:"errors"`
}

func NewServer(store Store, bookings Bookings, opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	server := &Server{
		store:     store,
		bookings:  bookings,
		validator: project.NewValidator(opts.Statuses),
		loggedIn:  opts.LoggedIn,
		logger:    logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/calendar", server.handleAPICalendar)
	mux.HandleFunc("GET /api/tasks/{id}", server.handleAPITask)
	mux.HandleFunc("POST /api/timelogs/preview", server.handleAPITimeLogPreview)
	mux.HandleFunc("POST /api/timelogs", server.handleAPITimeLogSubmit)
	mux.HandleFunc("POST /api/projects/validate", server.handleAPIProjectValidate)
	server.mux = mux

	return server
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.logger.Debug("request", "method", r.Method, "path", r.URL.Path)
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleAPICalendar(w http.ResponseWriter, r *http.Request) {
	resource, err := s.resource(r.URL.Query().Get("login"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	details, err := s.store.ListTimeLogDetails(resource.ID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, BuildCalendarView(output.BuildCalendar(details)))
}

func (s *Server) handleAPITask(w http.ResponseWriter, r *http.Request) {
	id, err := parsePositiveInt64(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid task id", http.StatusBadRequest)
		return
	}
	task, err := s.store.GetTask(id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	path, err := s.store.TaskPath(id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	logged, err := s.store.TotalLoggedSeconds(id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	view, err := BuildTaskView(task, path, logged)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleAPITimeLogPreview(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeTimeLog(w, r)
	if !ok {
		return
	}
	preview, err := s.bookings.Preview(req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, BuildPreviewView(preview))
}

func (s *Server) handleAPITimeLogSubmit(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeTimeLog(w, r)
	if !ok {
		return
	}
	result, err := s.bookings.Submit(req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	status := http.StatusCreated
	if req.TimeLogID > 0 {
		status = http.StatusOK
	}
	writeJSON(w, status, BuildSubmitView(result))
}

func (s *Server) handleAPIProjectValidate(w http.ResponseWriter, r *http.Request) {
	var body projectFormRequest
	if err := decodeJSON(r, &body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	form := project.Form{
		Name:        body.Name,
		Code:        body.Code,
		Type:        body.Type,
		Status:      body.Status,
		FPS:         body.FPS,
		ImageFormat: body.ImageFormat,
		ImageWidth:  body.ImageWidth,
		ImageHeight: body.ImageHeight,
		Repository:  body.Repository,
		Structure:   body.Structure,
	}

	resp := projectValidation{
		Valid:       true,
		DerivedCode: project.DeriveCode(body.Name),
		Errors:      map[string]string{},
	}
	if err := s.validator.Validate(form); err != nil {
		var fieldErrs project.FieldErrors
		if !errors.As(err, &fieldErrs) {
			s.writeError(w, err)
			return
		}
		resp.Valid = false
		for field, message := range fieldErrs {
			resp.Errors[lowerFirst(field)] = message
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// decodeTimeLog writes a 400 response and returns false when the body cannot
// be turned into a request.
func (s *Server) decodeTimeLog(w http.ResponseWriter, r *http.Request) (entry.Request, bool) {
	var body timeLogRequest
	if err := decodeJSON(r, &body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return entry.Request{}, false
	}
	req, err := s.buildRequest(body)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.writeError(w, err)
		} else {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
		return entry.Request{}, false
	}
	return req, true
}

func (s *Server) buildRequest(body timeLogRequest) (entry.Request, error) {
	day, err := timeutil.ParseDay(strings.TrimSpace(body.Date))
	if err != nil {
		return entry.Request{}, fmt.Errorf("invalid date %q (expected %s)", body.Date, timeutil.DayLayout)
	}
	start, err := timerange.ParseClock(body.Start)
	if err != nil {
		return entry.Request{}, fmt.Errorf("start: %w", err)
	}
	end, err := timerange.ParseClock(body.End)
	if err != nil {
		return entry.Request{}, fmt.Errorf("end: %w", err)
	}
	edited, err := timerange.ParseBound(strings.TrimSpace(body.Edited))
	if err != nil {
		return entry.Request{}, err
	}
	resource, err := s.resource(body.Login)
	if err != nil {
		return entry.Request{}, err
	}

	return entry.Request{
		TaskID:         body.TaskID,
		ResourceID:     resource.ID,
		LoggedInUserID: s.loggedIn.ID,
		TimeLogID:      body.TimeLogID,
		Date:           day,
		Start:          start,
		End:            end,
		Edited:         edited,
		Description:    body.Description,
		Outcome:        entry.Outcome(strings.ToLower(strings.TrimSpace(body.Outcome))),
		RevisionType:   body.RevisionType,
		OnBehalf:       body.OnBehalf,
	}, nil
}

func (s *Server) resource(login string) (worklog.User, error) {
	login = strings.TrimSpace(login)
	if login == "" || login == s.loggedIn.Login {
		return s.loggedIn, nil
	}
	return s.store.GetUserByLogin(login)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	http.Error(w, err.Error(), status)
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, entry.ErrOverBooked):
		return http.StatusConflict
	case errors.Is(err, entry.ErrOnBehalf):
		return http.StatusForbidden
	case errors.Is(err, entry.ErrMissingTask),
		errors.Is(err, entry.ErrMissingResource),
		errors.Is(err, entry.ErrUnknownOutcome),
		errors.Is(err, entry.ErrUnknownRevisionType),
		errors.Is(err, entry.ErrFutureTimeLog),
		errors.Is(err, timerange.ErrInvalidInterval),
		errors.Is(err, timerange.ErrZeroSchedule),
		errors.Is(err, timerange.ErrNegativeDuration):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func parsePositiveInt64(value string) (int64, error) {
	parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, err
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("value must be > 0")
	}
	return parsed, nil
}

func lowerFirst(value string) string {
	if value == "" {
		return value
	}
	return strings.ToLower(value[:1]) + value[1:]
}

func decodeJSON(r *http.Request, out any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		return err
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("request body must contain a single JSON object")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
