package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jct-tools/moodleboard/internal/page"
	"github.com/jct-tools/moodleboard/internal/watch"
)

func newRunCmd(app *App) *cobra.Command {
	var tick time.Duration

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Watch the page file and keep it reconciled",
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := watch.NewRunner(app.PagePath, app.Engine, app.Grid,
				watch.WithTick(tick))
			err := runner.Run(cmd.Context())
			if err == cmd.Context().Err() {
				return nil
			}
			return err
		},
	}
	cmd.Flags().DurationVar(&tick, "tick", 5*time.Second, "periodic reconciliation interval")
	return cmd
}

func newRenderCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "render",
		Short: "Run a single reconciliation pass over the page file",
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := watch.NewRunner(app.PagePath, app.Engine, app.Grid)
			if err := runner.PassOnce(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "reconciled %s\n", app.PagePath)
			return nil
		},
	}
}

// loadPage parses the configured page file.
func loadPage(app *App) (*page.Document, error) {
	f, err := os.Open(app.PagePath)
	if err != nil {
		return nil, fmt.Errorf("opening page %s: %w", app.PagePath, err)
	}
	defer f.Close()
	return page.Parse(f)
}
