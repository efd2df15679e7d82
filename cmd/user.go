package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tasklog/worklog"
)

var (
	userDBPath string
	userName   string
	userLogin  string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage resources time logs are booked for.",
}

var userAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a resource",
	Example: `
  tasklog user add --name "Ada Artist" --login ada
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(userName)
		login := strings.TrimSpace(userLogin)
		if name == "" || login == "" {
			return fmt.Errorf("--name and --login are required")
		}

		store, err := openStore(userDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		id, err := store.CreateUser(worklog.User{Name: name, Login: login})
		if err != nil {
			return err
		}
		fmt.Printf("User created. ID: %d, Login: %s\n", id, login)
		return nil
	},
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List resources",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(userDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		users, err := store.ListUsers()
		if err != nil {
			return err
		}
		for _, user := range users {
			fmt.Printf("%d\t%s\t%s\n", user.ID, user.Login, user.Name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userAddCmd, userListCmd)

	userCmd.PersistentFlags().StringVar(&userDBPath, "db", "", "Path to local SQLite database (default: database.path from config)")
	userAddCmd.Flags().StringVar(&userName, "name", "", "Display name")
	userAddCmd.Flags().StringVar(&userLogin, "login", "", "Unique login")
}
