package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"tasklog/config"
)

var configShowYAML bool

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the currently loaded configuration and the resolved config file path.

This command validates the configuration before printing values.`,
	Example: `
  # Show active configuration
  tasklog config show

  # Print the resolved values as YAML, e.g. to seed another config file
  tasklog config show --yaml
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			fmt.Println("Invalid config:", err)
			return
		}

		if configShowYAML {
			if err := printConfigYAML(os.Stdout, cfg); err != nil {
				fmt.Println("Render config:", err)
			}
			return
		}

		if configPath := viper.ConfigFileUsed(); configPath != "" {
			fmt.Println("Config file loaded from:", configPath)
		} else {
			fmt.Println("No config file loaded, showing defaults.")
		}
		printConfig(os.Stdout, cfg)
	},
}

func printConfig(out io.Writer, cfg *config.Config) {
	fmt.Fprintln(out, "Configuration:")
	fmt.Fprintf(out, "database.path: %s\n", cfg.Database.Path)
	fmt.Fprintf(out, "user.login: %s\n", cfg.User.Login)
	fmt.Fprintf(out, "timelog.resolution_minutes: %d\n", cfg.TimeLog.ResolutionMinutes)
	for i, revisionType := range cfg.TimeLog.RevisionTypes {
		fmt.Fprintf(out, "timelog.revision_types[%d]: %s\n", i, revisionType)
	}
	fmt.Fprintf(out, "project.default_fps: %d\n", cfg.Project.DefaultFPS)
	fmt.Fprintf(out, "project.statuses: %s\n", strings.Join(cfg.Project.Statuses, ", "))
	fmt.Fprintf(out, "import.auto_reconcile_after_import: %t\n", cfg.Import.AutoReconcileAfterImport)
}

func printConfigYAML(out io.Writer, cfg *config.Config) error {
	encoder := yaml.NewEncoder(out)
	encoder.SetIndent(2)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return encoder.Close()
}

func init() {
	configCmd.AddCommand(configShowCmd)

	configShowCmd.Flags().BoolVar(&configShowYAML, "yaml", false, "Print resolved values as YAML")
}
