package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"tasklog/config"
	"tasklog/web"
)

const serveIndexPath = "/api/calendar"

var (
	servePort   int
	serveDBPath string
	serveNoOpen bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start a local JSON API for the time-log dialog",
	Long: `Start an HTTP server on 127.0.0.1 that acts as the configured user.

Endpoints:
  GET  /api/calendar?login=      logged effort per day
  GET  /api/tasks/{id}           task schedule and balance
  POST /api/timelogs/preview     show the effect of a time log
  POST /api/timelogs             book or edit a time log
  POST /api/projects/validate    check a project form`,
	Example: `
  # Start local server on default port
  tasklog serve

  # Start with explicit db and custom port, without opening a browser
  tasklog serve --port 9090 --db ./tasklog.db --no-open
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}
		store, err := openStore(serveDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		bookings, _, err := newEntryService(store, cfg)
		if err != nil {
			return err
		}
		user, err := loggedInUser(store, cfg)
		if err != nil {
			return err
		}

		handler := web.NewServer(store, bookings, web.Options{
			LoggedIn: user,
			Statuses: cfg.Project.Statuses,
			Logger:   commandLogger(),
		})
		server := &http.Server{
			Addr:              fmt.Sprintf("127.0.0.1:%d", servePort),
			Handler:           withIndexRedirect(handler),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.ListenAndServe()
		}()

		listenURL := fmt.Sprintf("http://localhost:%d", servePort)
		fmt.Printf("Listening on %s as %s\n", listenURL, user.Login)
		if !serveNoOpen {
			if openErr := openURLInBrowser(listenURL + serveIndexPath); openErr != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to open browser: %v\n", openErr)
			}
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-sigCh:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				return fmt.Errorf("shutdown server: %w", err)
			}
			err := <-errCh
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVar(&servePort, "port", 8080, "HTTP port for the local server")
	serveCmd.Flags().StringVar(&serveDBPath, "db", "", "Path to local SQLite database (default: database.path from config)")
	serveCmd.Flags().BoolVar(&serveNoOpen, "no-open", false, "Do not open browser automatically")
}

func withIndexRedirect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && r.URL.Path == "/" {
			http.Redirect(w, r, serveIndexPath, http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func openURLInBrowser(rawURL string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", rawURL)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL)
	default:
		cmd = exec.Command("xdg-open", rawURL)
	}
	return cmd.Start()
}
