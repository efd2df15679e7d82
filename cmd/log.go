package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tasklog/config"
	"tasklog/entry"
	"tasklog/internal/timeutil"
	"tasklog/timerange"
)

var (
	logDBPath      string
	logTaskID      int64
	logDate        string
	logStart       string
	logEnd         string
	logDescription string
	logAs          string
	logOnBehalf    bool
	logEditID      int64
	logAdjust      string
	logComplete    bool
	logReview      bool
	logRevision    string
	logPreview     bool
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Book a time log against a task",
	Long: `Book or edit a time log and show how it affects the task schedule.

Start and end snap down to the configured resolution. Without --start and
--end the current time slot is used. When only one bound is given, or --adjust
names the bound that was changed, the other bound moves so the interval stays
at least one step long.

A log that runs past the task schedule extends the schedule and records a note
of the selected revision type (default: the first of timelog.revision_types).`,
	Example: `
  # Preview the effect on the task schedule
  tasklog log --task 3 --start 09:00 --end 12:30 --preview

  # Book a time log for today
  tasklog log --task 3 --start 09:00 --end 12:30 --description "Keying"

  # Book for another resource and send the task to review
  tasklog log --task 3 --as bob --on-behalf --date 2026-03-09 --start 14:00 --end 18:00 --review

  # Move the start of an existing log; the end follows if needed
  tasklog log --task 3 --edit 42 --start 12:40 --end 12:30 --adjust start
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}
		outcome, err := resolveOutcome(logComplete, logReview)
		if err != nil {
			return err
		}

		store, err := openStore(logDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		service, accountant, err := newEntryService(store, cfg)
		if err != nil {
			return err
		}
		user, err := loggedInUser(store, cfg)
		if err != nil {
			return err
		}
		resource, err := resolveResource(store, logAs, user)
		if err != nil {
			return err
		}

		window, err := resolveLogWindow(logDate, logStart, logEnd, logAdjust, time.Now(), accountant)
		if err != nil {
			return err
		}

		req := entry.Request{
			TaskID:         logTaskID,
			ResourceID:     resource.ID,
			LoggedInUserID: user.ID,
			TimeLogID:      logEditID,
			Date:           window.Date,
			Start:          window.Start,
			End:            window.End,
			Edited:         window.Edited,
			Description:    logDescription,
			Outcome:        outcome,
			RevisionType:   logRevision,
			OnBehalf:       logOnBehalf,
		}

		if logPreview {
			preview, err := service.Preview(req)
			if err != nil {
				return err
			}
			printPreview(os.Stdout, preview)
			return nil
		}

		result, err := service.Submit(req)
		if err != nil {
			return err
		}
		printPreview(os.Stdout, result.Preview)
		fmt.Printf("Time log booked. ID: %d, Resource: %s\n", result.TimeLogID, resource.Login)
		if result.Extended {
			fmt.Printf("Task schedule extended to %d %s\n", result.Schedule, result.ScheduleUnit)
		}
		if result.Status != result.Preview.Task.Status {
			fmt.Printf("Task status: %s\n", result.Status)
		}
		return nil
	},
}

type logWindow struct {
	Date   time.Time
	Start  timerange.Clock
	End    timerange.Clock
	Edited timerange.Bound
}

func resolveLogWindow(dateValue, startValue, endValue, adjust string, now time.Time, accountant *timerange.Accountant) (logWindow, error) {
	window := logWindow{Date: timeutil.StartOfDay(now)}
	if strings.TrimSpace(dateValue) != "" {
		day, err := timeutil.ParseDay(strings.TrimSpace(dateValue))
		if err != nil {
			return logWindow{}, fmt.Errorf("invalid --date %q (expected %s)", dateValue, timeutil.DayLayout)
		}
		window.Date = day
	}

	edited, err := timerange.ParseBound(adjust)
	if err != nil {
		return logWindow{}, err
	}
	window.Edited = edited

	hasStart := strings.TrimSpace(startValue) != ""
	hasEnd := strings.TrimSpace(endValue) != ""
	switch {
	case !hasStart && !hasEnd:
		slot := accountant.DefaultInterval(now)
		window.Start, window.End = slot.Start, slot.End
		return window, nil
	case hasStart && !hasEnd:
		start, err := timerange.ParseClock(startValue)
		if err != nil {
			return logWindow{}, fmt.Errorf("--start: %w", err)
		}
		window.Start, window.End, window.Edited = start, start, timerange.StartBound
		return window, nil
	case !hasStart && hasEnd:
		end, err := timerange.ParseClock(endValue)
		if err != nil {
			return logWindow{}, fmt.Errorf("--end: %w", err)
		}
		window.Start, window.End, window.Edited = end, end, timerange.EndBound
		return window, nil
	}

	if window.Start, err = timerange.ParseClock(startValue); err != nil {
		return logWindow{}, fmt.Errorf("--start: %w", err)
	}
	if window.End, err = timerange.ParseClock(endValue); err != nil {
		return logWindow{}, fmt.Errorf("--end: %w", err)
	}
	return window, nil
}

func resolveOutcome(complete, review bool) (entry.Outcome, error) {
	switch {
	case complete && review:
		return "", fmt.Errorf("--complete and --review cannot be combined")
	case complete:
		return entry.OutcomeComplete, nil
	case review:
		return entry.OutcomeReview, nil
	default:
		return entry.OutcomeContinue, nil
	}
}

func printPreview(out io.Writer, preview entry.Preview) {
	fmt.Fprintf(out, "Interval: %s %s (%s)\n",
		preview.Start.Format(timeutil.DayLayout),
		preview.Interval,
		timerange.FormatHoursMinutes(preview.CandidateSeconds),
	)
	fmt.Fprintf(out, "Completed: %.1f%%\n", preview.Balance.Percentage)
	fmt.Fprintln(out, preview.Message)
}

func init() {
	rootCmd.AddCommand(logCmd)

	logCmd.Flags().StringVar(&logDBPath, "db", "", "Path to local SQLite database (default: database.path from config)")
	logCmd.Flags().Int64VarP(&logTaskID, "task", "t", 0, "Task ID")
	logCmd.Flags().StringVarP(&logDate, "date", "d", "", "Day of the time log, YYYY-MM-DD (default: today)")
	logCmd.Flags().StringVarP(&logStart, "start", "s", "", "Start time, HH:MM")
	logCmd.Flags().StringVarP(&logEnd, "end", "e", "", "End time, HH:MM")
	logCmd.Flags().StringVar(&logDescription, "description", "", "Description")
	logCmd.Flags().StringVar(&logAs, "as", "", "Resource login (default: user.login from config)")
	logCmd.Flags().BoolVar(&logOnBehalf, "on-behalf", false, "Confirm booking for another resource")
	logCmd.Flags().Int64Var(&logEditID, "edit", 0, "ID of an existing time log to change")
	logCmd.Flags().StringVar(&logAdjust, "adjust", "", "Bound that was changed: start|end")
	logCmd.Flags().BoolVar(&logComplete, "complete", false, "Mark the task completed")
	logCmd.Flags().BoolVar(&logReview, "review", false, "Send the task to review")
	logCmd.Flags().StringVar(&logRevision, "revision", "", "Revision type of a schedule extension")
	logCmd.Flags().BoolVar(&logPreview, "preview", false, "Only show the effect on the task schedule")

	_ = logCmd.MarkFlagRequired("task")
}
