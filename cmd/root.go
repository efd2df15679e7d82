/*
Copyright © 2025 riad@rsworld.eu

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tasklog/config"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tasklog",
	Short: "Track time logs against scheduled pipeline tasks.",
	Long: `
**********************************************
*                 TASKLOG                    *
**********************************************

This CLI books time logs of studio resources against project tasks in a local SQLite
database. Every booking shows how much of the task schedule remains, extends overrun
schedules with a revision note, and keeps one resource from being booked twice.

Time values snap to the configured resolution (default 10 minutes).
`,
	Example: `
  # Create configuration file
  tasklog config create

  # Set up a project, a resource and a task
  tasklog project create --name "Big Film" --code BF
  tasklog user add --name "Ada Artist" --login ada
  tasklog task add --project BF --name Comp --schedule 8 --unit h

  # Preview and book a time log
  tasklog log --task 1 --start 09:00 --end 12:30 --preview
  tasklog log --task 1 --start 09:00 --end 12:30 --description "Keying"

  # Show the calendar heat map of a resource
  tasklog calendar --as ada

  # Export raw time logs
  tasklog export --output ./timelogs.csv
`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.tasklog.yaml, then ./.tasklog.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Write debug logs to stderr")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".tasklog" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".tasklog")
	}

	viper.SetEnvPrefix("tasklog")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "No config file found. Create one first with: tasklog config create")
	}
}
