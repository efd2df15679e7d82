package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"

	"tasklog/config"
	"tasklog/entry"
	"tasklog/storage"
	"tasklog/timerange"
	"tasklog/worklog"
)

const defaultDBPath = "./tasklog.db"

func newLogger(out io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
}

func commandLogger() *slog.Logger {
	return newLogger(os.Stderr, verbose)
}

// resolveDBPath prefers the --db flag, then database.path from config.
func resolveDBPath(flagValue string) string {
	if strings.TrimSpace(flagValue) != "" {
		return flagValue
	}
	if configured := strings.TrimSpace(viper.GetString(config.KeyDatabasePath)); configured != "" {
		return configured
	}
	return defaultDBPath
}

func openStore(flagValue string) (*storage.SQLiteStore, error) {
	path := resolveDBPath(flagValue)
	commandLogger().Debug("opening database", "path", path)
	return storage.OpenSQLite(path)
}

// loggedInUser is the user named by user.login in config.
func loggedInUser(store *storage.SQLiteStore, cfg *config.Config) (worklog.User, error) {
	login := strings.TrimSpace(cfg.User.Login)
	if login == "" {
		return worklog.User{}, fmt.Errorf("user.login is not configured; set it with: tasklog config edit")
	}
	user, err := store.GetUserByLogin(login)
	if err != nil {
		return worklog.User{}, fmt.Errorf("logged-in user: %w", err)
	}
	return user, nil
}

// resolveResource returns the user named by login, or fallback when login is empty.
func resolveResource(store *storage.SQLiteStore, login string, fallback worklog.User) (worklog.User, error) {
	if strings.TrimSpace(login) == "" {
		return fallback, nil
	}
	return store.GetUserByLogin(strings.TrimSpace(login))
}

func newEntryService(store *storage.SQLiteStore, cfg *config.Config) (*entry.Service, *timerange.Accountant, error) {
	accountant, err := timerange.NewAccountant(cfg.TimeLog.ResolutionMinutes)
	if err != nil {
		return nil, nil, err
	}
	service := entry.NewService(store, accountant, entry.Options{
		Logger:        commandLogger(),
		RevisionTypes: cfg.TimeLog.RevisionTypes,
	})
	return service, accountant, nil
}
