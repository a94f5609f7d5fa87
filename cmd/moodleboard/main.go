package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/mattn/go-isatty"

	"github.com/jct-tools/moodleboard/internal/cli"
	"github.com/jct-tools/moodleboard/internal/db"
	"github.com/jct-tools/moodleboard/internal/grid"
	"github.com/jct-tools/moodleboard/internal/reconcile"
	"github.com/jct-tools/moodleboard/internal/schedule"
	"github.com/jct-tools/moodleboard/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Local store path: env var or default ~/.moodleboard/local.db
	localPath := os.Getenv("MOODLEBOARD_DB")
	if localPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		localPath = filepath.Join(home, ".moodleboard", "local.db")
	}

	// Synced store path: env var or default next to the local store. A
	// separate file stands in for the roaming storage area.
	syncPath := os.Getenv("MOODLEBOARD_SYNC_DB")
	if syncPath == "" {
		syncPath = filepath.Join(filepath.Dir(localPath), "sync.db")
	}

	pagePath := os.Getenv("MOODLEBOARD_PAGE")
	if pagePath == "" {
		pagePath = "dashboard.html"
	}

	localDB, err := db.OpenDB(localPath)
	if err != nil {
		return fmt.Errorf("opening local store: %w", err)
	}
	defer localDB.Close()

	syncDB, err := db.OpenDB(syncPath)
	if err != nil {
		return fmt.Errorf("opening synced store: %w", err)
	}
	defer syncDB.Close()

	logger := slog.New(slog.DiscardHandler)
	if parsed, _ := strconv.ParseBool(os.Getenv("MOODLEBOARD_DEBUG")); parsed {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	local := store.NewSQLiteBackend(localDB, db.NewSQLiteUnitOfWork(localDB))
	synced := store.NewSQLiteBackend(syncDB, db.NewSQLiteUnitOfWork(syncDB))
	adapter := store.NewAdapter(local, synced, store.WithLogger(logger))

	var observers []schedule.OpObserver
	if os.Getenv("MOODLEBOARD_LOG_OPS") != "" {
		observers = append(observers, schedule.NewLogOpObserver(os.Stderr))
	}
	state := schedule.NewService(adapter, observers...)

	app := &cli.App{
		State:    state,
		Grid:     grid.NewController(state, grid.WithControllerLogger(logger)),
		Engine:   reconcile.NewEngine(state, adapter, reconcile.WithEngineLogger(logger)),
		Store:    adapter,
		PagePath: pagePath,
	}

	// Detect interactive terminal for form and TUI entrypoints.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
