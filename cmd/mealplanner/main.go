package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mealplanner/mealplanner/internal/browser"
	"github.com/mealplanner/mealplanner/internal/config"
	"github.com/mealplanner/mealplanner/internal/logging"
	"github.com/mealplanner/mealplanner/internal/session"
	"github.com/mealplanner/mealplanner/internal/tui"
	"github.com/mealplanner/mealplanner/pkg/client"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

// openBrowser is swapped out in tests.
var openBrowser = browser.Open

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	if len(args) > 0 {
		switch args[0] {
		case "--version", "version", "-v":
			fmt.Fprintln(stdout, "mealplanner "+version)
			return nil
		case "help", "--help", "-h":
			printHelp(stdout)
			return nil
		}
	}

	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}
	logFile, err := logging.OpenFile(cfg.LogPath())
	if err != nil {
		return err
	}
	defer logFile.Close() //nolint:errcheck

	format, err := logging.ParseFormat(cfg.LogFormat)
	if err != nil {
		return err
	}
	logger := logging.New(logFile, logging.ParseLevel(cfg.LogLevel), format,
		slog.String("version", version),
		slog.Int("pid", os.Getpid()),
	)
	store := session.New(session.NewFileBackend(cfg.SessionPath()), logger)
	store.Load()

	if len(args) > 0 {
		switch args[0] {
		case "logout":
			return runLogout(store, stdout)
		case "whoami":
			return runWhoami(store, stdout)
		case "docs":
			return openDocs(cfg.APIURL, stdout)
		default:
			return fmt.Errorf("unknown command %q (try: mealplanner help)", args[0])
		}
	}

	c := client.New(cfg.APIURL,
		client.WithTimeout(cfg.HTTPTimeout),
		client.WithLogger(logger),
	)
	logger.Info("starting", "api_url", cfg.APIURL, "authenticated", store.IsAuthenticated())

	app := tui.NewApp(c, store, logger)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func runLogout(store *session.Store, stdout io.Writer) error {
	if !store.IsAuthenticated() {
		fmt.Fprintln(stdout, "Already logged out.")
		return nil
	}
	if err := store.Clear(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	fmt.Fprintln(stdout, "Logged out.")
	return nil
}

func runWhoami(store *session.Store, stdout io.Writer) error {
	user, ok := store.User()
	if !ok {
		fmt.Fprintln(stdout, "Not logged in. Run mealplanner to log in.")
		return nil
	}
	fmt.Fprintln(stdout, user)
	return nil
}

// openDocs opens the API's interactive docs, printing the URL if no browser
// could be started.
func openDocs(apiURL string, stdout io.Writer) error {
	url := apiURL + "/docs"
	if err := openBrowser(url); err != nil {
		fmt.Fprintln(stdout, url)
	}
	return nil
}
