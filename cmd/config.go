package cmd

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage tasklog configuration file values.",
	Long: `Create, edit, display, and delete the tasklog configuration file.

The configuration stores application-wide values:
- database.path
- user.login (the user entering time logs)
- timelog.resolution_minutes / timelog.revision_types
- project.default_fps / project.statuses
- import.auto_reconcile_after_import`,
	Example: `
  # Create default config in $HOME/.tasklog.yaml
  tasklog config create

  # Show active config and source file
  tasklog config show

  # Open active config in editor (creates example if missing)
  tasklog config edit

  # Delete active config file
  tasklog config delete
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
