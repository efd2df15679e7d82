package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"tasklog/config"
	"tasklog/output"
)

var (
	exportFormat string
	exportOutput string
	exportDBPath string
	exportAs     string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the time logs of a resource to CSV/Excel",
	Long: `Export every time log of a resource with its task path.

The columns match the import format, so an export can be imported into another
database. Output format can be selected explicitly via --format or inferred
from --output extension.`,
	Example: `
  # Export your own time logs to CSV
  tasklog export --output ./timelogs.csv

  # Export the time logs of another resource to Excel
  tasklog export --as bob --output ./bob.xlsx

  # Force Excel format independent of extension
  tasklog export --format excel --output ./timelogs.out
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}
		format := exportFormat
		if strings.TrimSpace(format) == "" {
			format = detectExportFormat(exportOutput)
		}
		writer, err := output.WriterForFormat(format)
		if err != nil {
			return err
		}

		store, err := openStore(exportDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		user, err := loggedInUser(store, cfg)
		if err != nil {
			return err
		}
		resource, err := resolveResource(store, exportAs, user)
		if err != nil {
			return err
		}

		details, err := store.ListTimeLogDetails(resource.ID)
		if err != nil {
			return err
		}
		rows := output.RowsFromDetails(details, resource.Login)
		if err := writer.Write(exportOutput, rows); err != nil {
			return err
		}
		fmt.Printf("Export completed. Rows: %d, Resource: %s, Format: %s, File: %s\n", len(rows), resource.Login, format, exportOutput)
		return nil
	},
}

func detectExportFormat(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "csv":
		return "csv"
	case "xlsx", "xlsm", "xls":
		return "excel"
	default:
		return "csv"
	}
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Output format: csv|excel (optional, inferred from output extension)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path")
	exportCmd.Flags().StringVar(&exportDBPath, "db", "", "Path to local SQLite database (default: database.path from config)")
	exportCmd.Flags().StringVar(&exportAs, "as", "", "Resource login (default: user.login from config)")

	_ = exportCmd.MarkFlagRequired("output")
}
