package cli

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jct-tools/moodleboard/internal/domain"
	"github.com/jct-tools/moodleboard/internal/grid"
	"github.com/jct-tools/moodleboard/internal/reconcile"
	"github.com/jct-tools/moodleboard/internal/schedule"
	"github.com/jct-tools/moodleboard/internal/store"
	"github.com/jct-tools/moodleboard/internal/testutil"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	localDB := testutil.NewTestDB(t)
	syncDB := testutil.NewTestDB(t)
	adapter := store.NewAdapter(
		store.NewSQLiteBackend(localDB, testutil.NewTestUoW(localDB)),
		store.NewSQLiteBackend(syncDB, testutil.NewTestUoW(syncDB)),
	)
	state := schedule.NewService(adapter)
	state.Load(context.Background())
	return &App{
		State:  state,
		Grid:   grid.NewController(state),
		Engine: reconcile.NewEngine(state, adapter),
		Store:  adapter,
	}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func press(t *testing.T, m gridModel, keys ...string) gridModel {
	t.Helper()
	for _, k := range keys {
		updated, _ := m.Update(keyMsg(k))
		var ok bool
		m, ok = updated.(gridModel)
		require.True(t, ok)
	}
	return m
}

func testCourses() []reconcile.CourseRef {
	return []reconcile.CourseRef{
		{ID: "101", Name: "אלגברה", URL: "u1"},
		{ID: "102", Name: "אינפי", URL: "u2"},
	}
}

func TestGridModel_KeyboardPickAndDrop(t *testing.T) {
	app := newTestApp(t)
	m := newGridModel(context.Background(), app, testCourses())

	// Pick the first course, switch to the grid, move to Monday, drop.
	m = press(t, m, "enter", "tab", "right", "enter")

	rec, ok := app.State.Record("101")
	require.True(t, ok)
	assert.Equal(t, []domain.Weekday{domain.Monday}, rec.Days)
	assert.Nil(t, m.holding)
}

func TestGridModel_DeleteAllNeedsBothConfirmations(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	require.NoError(t, app.State.AddDay(ctx, "101", domain.Monday, "x", ""))
	m := newGridModel(ctx, app, testCourses())

	m = press(t, m, "D")
	assert.Equal(t, 1, m.confirmStage)

	// Declining at the second prompt aborts the whole flow.
	m = press(t, m, "y", "n")
	assert.Equal(t, 0, m.confirmStage)
	assert.NotEmpty(t, app.State.Schedules(), "declined confirmation must not clear")

	m = press(t, m, "D", "y", "y")
	assert.Empty(t, app.State.Schedules())
	assert.Equal(t, "כל הקורסים נמחקו מהלוח זמנים", m.status)
}

func TestGridModel_DeleteAllOnEmptySchedule(t *testing.T) {
	app := newTestApp(t)
	m := newGridModel(context.Background(), app, testCourses())

	m = press(t, m, "D")
	assert.Equal(t, 0, m.confirmStage)
	assert.Equal(t, "אין קורסים במערכת למחיקה", m.status)
}

func TestGridModel_ToggleFavoriteReordersCourses(t *testing.T) {
	app := newTestApp(t)
	m := newGridModel(context.Background(), app, testCourses())

	// Star the second course; it moves to the front of the pane.
	m = press(t, m, "j", "f")
	assert.True(t, app.State.IsFavorite("102"))
	assert.Equal(t, "102", m.displayCourses()[0].ID)
	assert.Equal(t, "101", m.displayCourses()[1].ID)
}

func TestGridModel_RemoveFromDay(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	require.NoError(t, app.State.AddDay(ctx, "101", domain.Monday, "x", ""))
	m := newGridModel(ctx, app, testCourses())

	// Move to the grid's Monday column and remove the only item.
	m = press(t, m, "tab", "right", "x")
	_, ok := app.State.Record("101")
	assert.False(t, ok)
	assert.Nil(t, m.holding)
}

func TestGridModel_ViewRenders(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	require.NoError(t, app.State.AddDay(ctx, "101", domain.Monday, "אלגברה", ""))
	m := newGridModel(ctx, app, testCourses())

	view := m.View()
	assert.Contains(t, view, "לוח זמנים שבועי")
	assert.Contains(t, view, domain.Monday.Label())
	assert.Contains(t, view, "אלגברה")
	assert.Contains(t, view, "גרור קורס לכאן")
}
