package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newFavCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fav",
		Short: "Manage favorite courses",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle <course-id>",
		Short: "Star or unstar a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			on, err := app.State.ToggleFavorite(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("saving favorites: %w", err)
			}
			if on {
				fmt.Fprintf(cmd.OutOrStdout(), "★ %s\n", args[0])
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "☆ %s\n", args[0])
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List favorite course ids",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, id := range app.State.Favorites().IDs() {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	})

	return cmd
}
