package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/jct-tools/moodleboard/internal/domain"
	"github.com/jct-tools/moodleboard/internal/reconcile"
)

func newScheduleCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Manage the weekly schedule",
	}
	cmd.AddCommand(
		newScheduleShowCmd(app),
		newSchedulePickCmd(app),
		newScheduleAddCmd(app),
		newScheduleDropDayCmd(app),
		newScheduleRemoveCmd(app),
		newScheduleClearCmd(app),
	)
	return cmd
}

func newScheduleShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the weekly schedule by day",
		RunE: func(cmd *cobra.Command, args []string) error {
			byDay := app.State.Schedules().ByDay()
			for _, day := range domain.Weekdays {
				fmt.Fprintf(cmd.OutOrStdout(), "%s:\n", day.Label())
				for _, entry := range byDay[day] {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s  %s\n", entry.CourseID, entry.Name)
				}
			}
			return nil
		},
	}
}

// newSchedulePickCmd is the day-picker: a multiselect over the six days,
// prefilled from the course's current record.
func newSchedulePickCmd(app *App) *cobra.Command {
	var name, url string

	cmd := &cobra.Command{
		Use:   "pick <course-id>",
		Short: "Choose a course's days interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive != nil && !app.IsInteractive() {
				return fmt.Errorf("schedule pick needs an interactive terminal")
			}
			courseID := args[0]
			rec, ok := app.State.Record(courseID)
			if name == "" {
				if ok {
					name = rec.Name
				} else if ref := findCourse(cmd.Context(), app, courseID); ref != nil {
					name = ref.Name
					if url == "" {
						url = ref.URL
					}
				} else {
					name = domain.DefaultCourseName(courseID)
				}
			}
			if url == "" && ok {
				url = rec.URL
			}

			days := append([]domain.Weekday(nil), rec.Days...)
			options := make([]huh.Option[domain.Weekday], 0, len(domain.Weekdays))
			for _, d := range domain.Weekdays {
				options = append(options, huh.NewOption(d.Label(), d))
			}
			form := huh.NewForm(
				huh.NewGroup(
					huh.NewMultiSelect[domain.Weekday]().
						Title(fmt.Sprintf("בחר ימים עבור: %s", name)).
						Options(options...).
						Value(&days),
				),
			)
			if err := form.Run(); err != nil {
				return err
			}

			// An empty selection removes the course from the schedule.
			if err := app.State.SetDays(cmd.Context(), courseID, name, days, url); err != nil {
				return fmt.Errorf("saving schedule: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name when the course has no record yet")
	cmd.Flags().StringVar(&url, "url", "", "course URL when the course has no record yet")
	return cmd
}

func newScheduleAddCmd(app *App) *cobra.Command {
	var name, url string

	cmd := &cobra.Command{
		Use:   "add <course-id> <day>",
		Short: "Assign a course to a day",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, ok := domain.ParseWeekday(args[1])
			if !ok {
				return fmt.Errorf("invalid day %q", args[1])
			}
			if name == "" {
				if ref := findCourse(cmd.Context(), app, args[0]); ref != nil {
					name = ref.Name
					if url == "" {
						url = ref.URL
					}
				}
			}
			if err := app.State.AddDay(cmd.Context(), args[0], day, name, url); err != nil {
				return fmt.Errorf("saving schedule: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name when the course has no record yet")
	cmd.Flags().StringVar(&url, "url", "", "course URL when the course has no record yet")
	return cmd
}

func newScheduleDropDayCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "drop-day <course-id> <day>",
		Short: "Remove a single day assignment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, ok := domain.ParseWeekday(args[1])
			if !ok {
				return fmt.Errorf("invalid day %q", args[1])
			}
			if err := app.State.RemoveDay(cmd.Context(), args[0], day); err != nil {
				return fmt.Errorf("saving schedule: %w", err)
			}
			return nil
		},
	}
}

func newScheduleRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <course-id>",
		Short: "Remove a course from the schedule entirely",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive != nil && app.IsInteractive() {
				rec, ok := app.State.Record(args[0])
				name := args[0]
				if ok && rec.Name != "" {
					name = rec.Name
				}
				if !confirm(fmt.Sprintf("למחוק את %s מהלוח זמנים?", name)) {
					return nil
				}
			}
			if err := app.State.RemoveCourse(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("saving schedule: %w", err)
			}
			return nil
		},
	}
}

// newScheduleClearCmd empties the schedule after two sequential
// confirmations. There is no undo, hence the double gate.
func newScheduleClearCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every course from the schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive != nil && !app.IsInteractive() {
				return fmt.Errorf("schedule clear needs an interactive terminal")
			}
			if len(app.State.Schedules()) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "אין קורסים במערכת למחיקה")
				return nil
			}
			if !confirm("⚠️ האם אתה בטוח שברצונך למחוק את כל הקורסים מהלוח זמנים?") {
				return nil
			}
			if !confirm("האם אתה בטוח לחלוטין? כל הקורסים יימחקו מהלוח זמנים.") {
				return nil
			}
			if err := app.Grid.ClearAll(cmd.Context()); err != nil {
				return fmt.Errorf("שגיאה במחיקת הקורסים: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "כל הקורסים נמחקו מהלוח זמנים")
			return nil
		},
	}
}

func confirm(title string) bool {
	ok := false
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().Title(title).Value(&ok),
	))
	if err := form.Run(); err != nil {
		return false
	}
	return ok
}

// findCourse resolves a course from the page file, best effort.
func findCourse(ctx context.Context, app *App, courseID string) *reconcile.CourseRef {
	doc, err := loadPage(app)
	if err != nil {
		return nil
	}
	app.Engine.Pass(ctx, doc)
	for _, ref := range reconcile.Collect(doc) {
		if ref.ID == courseID {
			return &ref
		}
	}
	return nil
}
