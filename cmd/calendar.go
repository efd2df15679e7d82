package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tasklog/config"
	"tasklog/output"
	"tasklog/timerange"
)

var (
	calendarDBPath string
	calendarAs     string
	calendarOutput string
	calendarFormat string
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Show logged effort per day as a green heat map",
	Long: `List every day with time logs of a resource.

Each day carries a colour whose green channel grows with the logged time
(255 is a full 24 hours) and a tooltip listing the time logs of the day.
With --output the calendar is written to CSV or Excel instead; Excel cells are
filled with the day colour.`,
	Example: `
  # Print your own calendar
  tasklog calendar

  # Write the calendar of another resource to Excel
  tasklog calendar --as bob --output ./bob-calendar.xlsx
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}
		store, err := openStore(calendarDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		user, err := loggedInUser(store, cfg)
		if err != nil {
			return err
		}
		resource, err := resolveResource(store, calendarAs, user)
		if err != nil {
			return err
		}
		details, err := store.ListTimeLogDetails(resource.ID)
		if err != nil {
			return err
		}
		days := output.BuildCalendar(details)

		if strings.TrimSpace(calendarOutput) == "" {
			printCalendar(os.Stdout, days)
			return nil
		}
		format := calendarFormat
		if strings.TrimSpace(format) == "" {
			format = detectExportFormat(calendarOutput)
		}
		if err := output.WriteCalendar(calendarOutput, format, days); err != nil {
			return err
		}
		fmt.Printf("Calendar written. Days: %d, Resource: %s, Format: %s, File: %s\n", len(days), resource.Login, format, calendarOutput)
		return nil
	},
}

func printCalendar(out io.Writer, days []output.CalendarDay) {
	if len(days) == 0 {
		fmt.Fprintln(out, "No time logs.")
		return
	}
	for _, day := range days {
		fmt.Fprintf(out, "%s  %s  %s\n", day.Date, day.Color(), timerange.FormatHoursMinutes(day.LoggedSeconds))
		for _, line := range strings.Split(day.Tooltip, "\n") {
			fmt.Fprintf(out, "    %s\n", line)
		}
	}
}

func init() {
	rootCmd.AddCommand(calendarCmd)

	calendarCmd.Flags().StringVar(&calendarDBPath, "db", "", "Path to local SQLite database (default: database.path from config)")
	calendarCmd.Flags().StringVar(&calendarAs, "as", "", "Resource login (default: user.login from config)")
	calendarCmd.Flags().StringVarP(&calendarOutput, "output", "o", "", "Write the calendar to a file instead of printing it")
	calendarCmd.Flags().StringVarP(&calendarFormat, "format", "f", "", "Output format: csv|excel (optional, inferred from output extension)")
}
