package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tasklog/storage"
	"tasklog/timerange"
	"tasklog/worklog"
)

const defaultTaskSchedule = 10

var (
	taskDBPath   string
	taskProject  string
	taskParentID int64
	taskName     string
	taskSchedule int64
	taskUnit     string
	taskStatus   string
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Add, show and list tasks.",
}

var taskAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a task to a project",
	Example: `
  tasklog task add --project BF --name SH010 --schedule 2 --unit d
  tasklog task add --project BF --parent 1 --name Comp --schedule 8 --unit h
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		task, err := newTask(taskName, taskSchedule, taskUnit, taskStatus)
		if err != nil {
			return err
		}

		store, err := openStore(taskDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		p, err := store.GetProjectByCode(taskProject)
		if err != nil {
			return err
		}
		task.ProjectID = p.ID
		if taskParentID > 0 {
			parent, err := store.GetTask(taskParentID)
			if err != nil {
				return err
			}
			if parent.ProjectID != p.ID {
				return fmt.Errorf("parent task %d belongs to another project", parent.ID)
			}
			task.ParentID = &parent.ID
		}

		id, err := store.CreateTask(task)
		if err != nil {
			return err
		}
		path, err := store.TaskPath(id)
		if err != nil {
			return err
		}
		fmt.Printf("Task created. ID: %d, Path: %s\n", id, path)
		return nil
	},
}

// newTask checks the flag values of task add; the schedule must be positive.
func newTask(name string, schedule int64, unitValue, status string) (worklog.Task, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return worklog.Task{}, fmt.Errorf("--name is required")
	}
	unit, err := timerange.ParseUnit(unitValue)
	if err != nil {
		return worklog.Task{}, err
	}
	if schedule <= 0 {
		return worklog.Task{}, fmt.Errorf("--schedule must be greater than 0, got %d", schedule)
	}
	return worklog.Task{
		Name:           name,
		ScheduleTiming: schedule,
		ScheduleUnit:   unit,
		Status:         strings.ToUpper(strings.TrimSpace(status)),
	}, nil
}

var taskShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show schedule, logged effort and notes of a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var id int64
		if _, err := fmt.Sscan(args[0], &id); err != nil || id <= 0 {
			return fmt.Errorf("invalid task id %q", args[0])
		}

		store, err := openStore(taskDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		return printTask(os.Stdout, store, id)
	},
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(taskDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		tasks, err := store.ListTasks()
		if err != nil {
			return err
		}
		for _, task := range tasks {
			path, err := store.TaskPath(task.ID)
			if err != nil {
				return err
			}
			fmt.Printf("%d\t%s\t%s\t%d %s\n", task.ID, task.Status, path, task.ScheduleTiming, task.ScheduleUnit)
		}
		return nil
	},
}

func printTask(out io.Writer, store *storage.SQLiteStore, id int64) error {
	task, err := store.GetTask(id)
	if err != nil {
		return err
	}
	path, err := store.TaskPath(id)
	if err != nil {
		return err
	}
	scheduled, err := task.ScheduleSeconds()
	if err != nil {
		return err
	}
	logged, err := store.TotalLoggedSeconds(id)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Task: %s\n", path)
	fmt.Fprintf(out, "Status: %s\n", task.Status)
	fmt.Fprintf(out, "Schedule: %d %s\n", task.ScheduleTiming, task.ScheduleUnit)
	fmt.Fprintf(out, "Logged: %s\n", timerange.FormatHoursMinutes(logged))

	balance, err := timerange.Evaluate(timerange.TaskEffort{ScheduledSeconds: scheduled, LoggedSeconds: logged}, 0, 0)
	switch {
	case errors.Is(err, timerange.ErrZeroSchedule):
		fmt.Fprintln(out, "Completed: no schedule")
	case err != nil:
		return err
	case balance.Overrun:
		fmt.Fprintf(out, "Completed: %.1f%%\n", balance.Percentage)
		fmt.Fprintf(out, "Overrun: %s\n", timerange.FormatHoursMinutes(balance.AbsRemaining()))
	default:
		fmt.Fprintf(out, "Completed: %.1f%%\n", balance.Percentage)
		fmt.Fprintf(out, "Remaining: %s\n", timerange.FormatHoursMinutes(balance.RemainingSeconds))
	}

	notes, err := store.ListNotes(id)
	if err != nil {
		return err
	}
	if len(notes) == 0 {
		return nil
	}
	fmt.Fprintln(out, "Notes:")
	for _, note := range notes {
		fmt.Fprintf(out, "  %s [%s] %s\n", note.CreatedAt.Local().Format("2006-01-02 15:04"), note.Type, note.Content)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(taskCmd)
	taskCmd.AddCommand(taskAddCmd, taskShowCmd, taskListCmd)

	taskCmd.PersistentFlags().StringVar(&taskDBPath, "db", "", "Path to local SQLite database (default: database.path from config)")
	taskAddCmd.Flags().StringVarP(&taskProject, "project", "p", "", "Project code")
	taskAddCmd.Flags().Int64Var(&taskParentID, "parent", 0, "Parent task ID")
	taskAddCmd.Flags().StringVar(&taskName, "name", "", "Task name")
	taskAddCmd.Flags().Int64Var(&taskSchedule, "schedule", defaultTaskSchedule, "Scheduled effort in --unit, greater than 0")
	taskAddCmd.Flags().StringVar(&taskUnit, "unit", "h", "Schedule unit: min|h|d")
	taskAddCmd.Flags().StringVar(&taskStatus, "status", worklog.StatusNew, "Task status: NEW|WIP|PREV|CMPL")

	_ = taskAddCmd.MarkFlagRequired("project")
}
