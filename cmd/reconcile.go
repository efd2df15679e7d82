package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tasklog/config"
	"tasklog/internal/timeutil"
	"tasklog/reconcile"
	"tasklog/timerange"
)

var (
	reconcileDBPath   string
	reconcileDryRun   bool
	reconcileRevision string
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Extend overrun task schedules and report overbooked resources",
	Long: `Check every task that is not completed against the effort logged on it.

A task whose logged effort exceeds its schedule gets the schedule raised to the
logged total, expressed in the coarsest whole unit, and a note of the selected
revision type. Time logs of one resource that overlap are listed; they are not
changed.`,
	Example: `
  # Show what would change
  tasklog reconcile --dry-run

  # Extend schedules as client revisions
  tasklog reconcile --revision "Client Revision"

  # Typical workflow: import, reconcile, export
  tasklog import -i ./timelogs.csv --reconcile off
  tasklog reconcile
  tasklog export --output ./timelogs.xlsx
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}
		revision, err := resolveRevisionType(reconcileRevision, cfg.TimeLog.RevisionTypes)
		if err != nil {
			return err
		}

		store, err := openStore(reconcileDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		options := reconcile.Options{
			RevisionType: revision,
			DryRun:       reconcileDryRun,
			Logger:       commandLogger(),
		}
		if !reconcileDryRun {
			user, err := loggedInUser(store, cfg)
			if err != nil {
				return err
			}
			options.CreatedBy = user.ID
		}

		result, err := reconcile.Run(store, options)
		if err != nil {
			return err
		}
		printReconcileResult(os.Stdout, result)
		return nil
	},
}

// resolveRevisionType matches value against the configured revision types,
// case-insensitively. Empty selects the first one.
func resolveRevisionType(value string, configured []string) (string, error) {
	value = strings.TrimSpace(value)
	if len(configured) == 0 {
		return "", fmt.Errorf("no revision types configured")
	}
	if value == "" {
		return configured[0], nil
	}
	for _, candidate := range configured {
		if strings.EqualFold(candidate, value) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("unknown revision type %q (configured: %s)", value, strings.Join(configured, ", "))
}

func printReconcileResult(out io.Writer, result *reconcile.Result) {
	fmt.Fprintf(out, "Reconcile completed. Tasks checked: %d, Tasks overrun: %d, Tasks extended: %d, Overbookings: %d\n",
		result.TasksChecked,
		result.TasksOverrun,
		result.TasksExtended,
		len(result.Overbookings),
	)
	for _, conflict := range result.Overbookings {
		fmt.Fprintf(out, "  resource %d: time log %d (%s) overlaps time log %d (%s)\n",
			conflict.Candidate.ResourceID,
			conflict.Candidate.ID,
			formatSpan(conflict.Candidate.Interval()),
			conflict.Existing.ID,
			formatSpan(conflict.Existing.Interval()),
		)
	}
}

func formatSpan(interval timerange.TimeInterval) string {
	return fmt.Sprintf("%s %s - %s",
		interval.Start.Local().Format(timeutil.DayLayout),
		interval.Start.Local().Format("15:04"),
		interval.End.Local().Format("15:04"),
	)
}

func init() {
	rootCmd.AddCommand(reconcileCmd)

	reconcileCmd.Flags().StringVar(&reconcileDBPath, "db", "", "Path to local SQLite database (default: database.path from config)")
	reconcileCmd.Flags().BoolVar(&reconcileDryRun, "dry-run", false, "Report overruns without changing schedules")
	reconcileCmd.Flags().StringVar(&reconcileRevision, "revision", "", "Revision type of the extension notes (default: first configured)")
}
