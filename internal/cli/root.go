// Package cli wires the engine's operations to cobra commands and the
// interactive weekly-grid TUI.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/jct-tools/moodleboard/internal/grid"
	"github.com/jct-tools/moodleboard/internal/reconcile"
	"github.com/jct-tools/moodleboard/internal/schedule"
	"github.com/jct-tools/moodleboard/internal/store"
)

// App holds references to the shared components used by CLI commands.
type App struct {
	State  *schedule.Service
	Grid   *grid.Controller
	Engine *reconcile.Engine
	Store  *store.Adapter

	// PagePath is the host page file the engine reconciles.
	PagePath string

	// IsInteractive reports whether stdin is an interactive terminal; forms
	// and the TUI refuse to start without one.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "moodleboard" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "moodleboard",
		Short: "Course-list redesign engine: accents, favorites, weekly schedule",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Pull the persisted records into memory before any command runs.
			// Load never fails; storage errors degrade to defaults.
			app.State.Load(cmd.Context())
		},
	}

	root.AddCommand(
		newRunCmd(app),
		newRenderCmd(app),
		newFavCmd(app),
		newScheduleCmd(app),
		newGridCmd(app),
	)

	return root
}
