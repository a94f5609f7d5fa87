package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jct-tools/moodleboard/internal/reconcile"
)

func newGridCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "grid",
		Short: "Interactive weekly schedule with drag and drop",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive != nil && !app.IsInteractive() {
				return fmt.Errorf("grid needs an interactive terminal")
			}

			// Course drag sources come from the reconciled page; a missing
			// page file just means an empty course pane.
			var courses []reconcile.CourseRef
			if doc, err := loadPage(app); err == nil {
				app.Engine.Pass(cmd.Context(), doc)
				courses = reconcile.Collect(doc)
			}

			m := newGridModel(cmd.Context(), app, courses)
			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
			_, err := p.Run()
			return err
		},
	}
}
