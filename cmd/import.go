package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tasklog/config"
	"tasklog/importer"
	"tasklog/reconcile"
)

var (
	importInputs        []string
	importFormat        string
	importDBPath        string
	importDryRun        bool
	importOnBehalf      bool
	importReconcileMode string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import CSV/Excel time logs into the local SQLite database",
	Long: `Read source files and book every row as a time log.

Each row needs task (or task_id), date, start and end. Optional columns are
resource (login, default: user.login from config), description, outcome
(complete|review) and revision. Rows are booked through the same checks as
"tasklog log": times snap to the configured resolution, future days and
overbooked intervals are rejected, and overruns extend the task schedule.

A rejected row does not stop the import; rejected rows are listed at the end.
When --format is omitted, format is inferred from each input file extension.`,
	Example: `
  # Import one CSV file
  tasklog import -i ./timelogs.csv

  # Check an Excel sheet without booking anything
  tasklog import -i ./march.xlsx --dry-run

  # Import rows of other resources and reconcile afterwards
  tasklog import -i ./team.csv --on-behalf --reconcile on
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}
		shouldReconcile, err := resolveReconcileMode(importReconcileMode, cfg.Import.AutoReconcileAfterImport)
		if err != nil {
			return err
		}

		store, err := openStore(importDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		service, _, err := newEntryService(store, cfg)
		if err != nil {
			return err
		}
		user, err := loggedInUser(store, cfg)
		if err != nil {
			return err
		}

		mapper := importer.NewTimeLogMapper(store, user.ID, importOnBehalf)
		result, err := importer.Run(importInputs, mapper, service, importer.RunOptions{
			Format: importFormat,
			DryRun: importDryRun,
			Logger: commandLogger(),
		})
		if err != nil {
			return err
		}
		printImportResult(os.Stdout, result, importDryRun)

		if !shouldReconcile || importDryRun {
			return nil
		}
		reconcileResult, err := reconcile.Run(store, reconcile.Options{
			CreatedBy:    user.ID,
			RevisionType: cfg.TimeLog.RevisionTypes[0],
			Logger:       commandLogger(),
		})
		if err != nil {
			return err
		}
		fmt.Print("Auto-reconcile: ")
		printReconcileResult(os.Stdout, reconcileResult)
		return nil
	},
}

func printImportResult(out io.Writer, result *importer.Result, dryRun bool) {
	verb := "Import completed."
	if dryRun {
		verb = "Dry run completed."
	}
	fmt.Fprintf(out, "%s Files: %d, Rows read: %d, Rows imported: %d, Rows rejected: %d, Tasks extended: %d\n",
		verb,
		result.FilesProcessed,
		result.RowsRead,
		result.RowsImported,
		result.RowsRejected,
		result.TasksExtended,
	)
	for _, rejected := range result.Rejected {
		fmt.Fprintf(out, "  %s\n", rejected.Error())
	}
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringArrayVarP(&importInputs, "input", "i", nil, "Input file path (repeatable)")
	importCmd.Flags().StringVarP(&importFormat, "format", "f", "", "Input format: csv|excel (optional, inferred from extension when omitted)")
	importCmd.Flags().StringVar(&importDBPath, "db", "", "Path to local SQLite database (default: database.path from config)")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Check every row without booking it")
	importCmd.Flags().BoolVar(&importOnBehalf, "on-behalf", false, "Allow rows of other resources")
	importCmd.Flags().StringVar(&importReconcileMode, "reconcile", "auto", "Reconcile mode after import: auto|on|off")

	_ = importCmd.MarkFlagRequired("input")
}

func resolveReconcileMode(mode string, configDefault bool) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		return configDefault, nil
	case "on", "true", "yes":
		return true, nil
	case "off", "false", "no":
		return false, nil
	default:
		return false, fmt.Errorf("invalid reconcile mode %q (supported: auto|on|off)", mode)
	}
}
