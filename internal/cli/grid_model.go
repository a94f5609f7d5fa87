package cli

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jct-tools/moodleboard/internal/domain"
	"github.com/jct-tools/moodleboard/internal/grid"
	"github.com/jct-tools/moodleboard/internal/reconcile"
)

const (
	paneCourses = iota
	paneGrid
)

const gridColWidth = 18

// heldItem is an in-flight drag: the transfer payload plus where it was
// picked up, so a drop on the origin without movement stays a click.
type heldItem struct {
	payload grid.Payload
	fromDay domain.Weekday // set when picked off a grid column
	moved   bool
}

// settleMsg re-renders the grid a beat after a persisted drop, so rapid
// repeated drops don't churn the view.
type settleMsg struct{}

type gridKeys struct {
	Up, Down, Left, Right key.Binding
	Pick                  key.Binding
	Remove                key.Binding
	Favorite              key.Binding
	ToggleView            key.Binding
	DeleteAll             key.Binding
	Switch                key.Binding
	Quit                  key.Binding
}

func (k gridKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Pick, k.Remove, k.Favorite, k.ToggleView, k.DeleteAll, k.Quit}
}

func (k gridKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Switch},
		{k.Pick, k.Remove, k.Favorite, k.ToggleView, k.DeleteAll, k.Quit},
	}
}

func newGridKeys() gridKeys {
	return gridKeys{
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "down")),
		Left:       key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "left")),
		Right:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "right")),
		Pick:       key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "pick up / drop")),
		Remove:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove from day")),
		Favorite:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "toggle favorite")),
		ToggleView: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "show/hide grid")),
		DeleteAll:  key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete all")),
		Switch:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
		Quit:       key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "quit")),
	}
}

type gridModel struct {
	ctx context.Context
	app *App

	courses []reconcile.CourseRef
	byDay   map[domain.Weekday][]domain.DayEntry

	focus     int
	courseIdx int
	col, row  int

	holding *heldItem
	tracker *grid.Tracker

	// confirmStage walks the two-step delete-all gate: 0 idle, 1 after the
	// first warning, 2 after the second.
	confirmStage int

	status string
	width  int
	keys   gridKeys
	help   help.Model
}

func newGridModel(ctx context.Context, app *App, courses []reconcile.CourseRef) gridModel {
	tracker := grid.NewTracker()
	tracker.SetThreshold(1) // cell coordinates, not pixels
	m := gridModel{
		ctx:     ctx,
		app:     app,
		courses: courses,
		tracker: tracker,
		keys:    newGridKeys(),
		help:    help.New(),
	}
	m.refresh()
	return m
}

func (m *gridModel) refresh() {
	m.byDay = m.app.State.Schedules().ByDay()
}

// displayCourses returns the course pane order: favorites first, original
// relative order preserved within each group.
func (m *gridModel) displayCourses() []reconcile.CourseRef {
	out := append([]reconcile.CourseRef(nil), m.courses...)
	sort.SliceStable(out, func(i, j int) bool {
		fi, fj := m.app.State.IsFavorite(out[i].ID), m.app.State.IsFavorite(out[j].ID)
		return fi && !fj
	})
	return out
}

func (m gridModel) Init() tea.Cmd { return nil }

func settleCmd() tea.Cmd {
	return tea.Tick(grid.SettleDelay, func(time.Time) tea.Msg { return settleMsg{} })
}

func (m gridModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case settleMsg:
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

func (m gridModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirmStage > 0 {
		return m.handleConfirmKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.holding != nil {
			m.holding = nil
			m.status = ""
			return m, nil
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Switch):
		if m.focus == paneCourses {
			m.focus = paneGrid
		} else {
			m.focus = paneCourses
		}
		m.markMoved()
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.focus == paneCourses && m.courseIdx > 0 {
			m.courseIdx--
		} else if m.focus == paneGrid && m.row > 0 {
			m.row--
		}
		m.markMoved()
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.focus == paneCourses && m.courseIdx < len(m.courses)-1 {
			m.courseIdx++
		} else if m.focus == paneGrid {
			m.row++
		}
		m.markMoved()
		return m, nil

	case key.Matches(msg, m.keys.Left):
		if m.focus == paneGrid && m.col > 0 {
			m.col--
		}
		m.markMoved()
		return m, nil

	case key.Matches(msg, m.keys.Right):
		if m.focus == paneGrid && m.col < len(domain.Weekdays)-1 {
			m.col++
		}
		m.markMoved()
		return m, nil

	case key.Matches(msg, m.keys.Pick):
		return m.handlePick()

	case key.Matches(msg, m.keys.Remove):
		if m.focus != paneGrid {
			return m, nil
		}
		day := domain.Weekdays[m.col]
		if entry, ok := m.entryAt(m.col, m.row); ok {
			if err := m.app.Grid.RemoveAssignment(m.ctx, entry.CourseID, day); err != nil {
				m.status = "שמירה נכשלה: " + err.Error()
			}
			return m, settleCmd()
		}
		return m, nil

	case key.Matches(msg, m.keys.Favorite):
		if m.focus != paneCourses {
			return m, nil
		}
		courses := m.displayCourses()
		if m.courseIdx < len(courses) {
			if _, err := m.app.State.ToggleFavorite(m.ctx, courses[m.courseIdx].ID); err != nil {
				m.status = "שמירה נכשלה: " + err.Error()
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.ToggleView):
		if _, err := m.app.Grid.ToggleView(m.ctx); err != nil {
			m.status = "שמירה נכשלה: " + err.Error()
		}
		return m, nil

	case key.Matches(msg, m.keys.DeleteAll):
		if len(m.app.State.Schedules()) == 0 {
			m.status = "אין קורסים במערכת למחיקה"
			return m, nil
		}
		m.confirmStage = 1
		return m, nil
	}
	return m, nil
}

func (m gridModel) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() != "y" {
		m.confirmStage = 0
		m.status = ""
		return m, nil
	}
	if m.confirmStage == 1 {
		m.confirmStage = 2
		return m, nil
	}
	m.confirmStage = 0
	if err := m.app.Grid.ClearAll(m.ctx); err != nil {
		m.status = "שגיאה במחיקת הקורסים. נסה שוב."
		return m, nil
	}
	m.status = "כל הקורסים נמחקו מהלוח זמנים"
	return m, settleCmd()
}

func (m gridModel) handlePick() (tea.Model, tea.Cmd) {
	if m.focus == paneCourses {
		courses := m.displayCourses()
		if m.holding != nil {
			m.holding = nil
			m.status = ""
			return m, nil
		}
		if m.courseIdx < len(courses) {
			c := courses[m.courseIdx]
			if c.ID == "" {
				return m, nil
			}
			m.holding = &heldItem{payload: grid.Payload{
				CourseID:   c.ID,
				CourseName: c.Name,
				CourseURL:  c.URL,
			}}
			m.status = "גרור קורס לכאן: בחר יום ולחץ enter"
		}
		return m, nil
	}

	day := domain.Weekdays[m.col]
	if m.holding == nil {
		if entry, ok := m.entryAt(m.col, m.row); ok {
			m.holding = &heldItem{
				payload: grid.Payload{
					CourseID:     entry.CourseID,
					CourseName:   entry.Name,
					CourseURL:    entry.URL,
					FromSchedule: true,
				},
				fromDay: day,
			}
		}
		return m, nil
	}

	// A pick-up released in place without movement is a click, which
	// navigates instead of dropping.
	if m.holding.fromDay == day && !m.holding.moved {
		m.status = "פתיחה: " + m.holding.payload.CourseURL
		m.holding = nil
		return m, nil
	}
	return m.drop(day)
}

func (m gridModel) drop(day domain.Weekday) (tea.Model, tea.Cmd) {
	h := m.holding
	m.holding = nil
	if h == nil {
		return m, nil
	}
	// The payload round-trips through its serialized form, same as a DOM
	// dataTransfer drop.
	if err := m.app.Grid.DropRaw(m.ctx, h.payload.Encode(), h.fromDay, day); err != nil {
		m.status = "שמירה נכשלה: " + err.Error()
	} else {
		m.status = ""
	}
	m.refresh()
	return m, settleCmd()
}

func (m *gridModel) markMoved() {
	if m.holding != nil {
		m.holding.moved = true
	}
}

// ── mouse ────────────────────────────────────────────────────────────────────

func (m gridModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		m.tracker.Start(msg.X, msg.Y)
		if zone, ok := m.hitTest(msg.X, msg.Y); ok {
			m.holding = zone
		}
		return m, nil

	case tea.MouseActionMotion:
		m.tracker.Move(msg.X, msg.Y)
		if m.tracker.IsDrag() {
			m.markMoved()
		}
		return m, nil

	case tea.MouseActionRelease:
		wasDrag := m.tracker.End()
		if m.holding == nil {
			return m, nil
		}
		if wasDrag {
			if col, ok := m.columnAt(msg.X, msg.Y); ok {
				return m.drop(domain.Weekdays[col])
			}
			m.holding = nil
			return m, nil
		}
		// Click: navigation, suppressed only mid-drag, which this is not.
		m.status = "פתיחה: " + m.holding.payload.CourseURL
		m.holding = nil
		return m, nil
	}
	return m, nil
}

// hitTest resolves a press position into a drag source.
func (m *gridModel) hitTest(x, y int) (*heldItem, bool) {
	if i := y - m.coursesTop(); i >= 0 && i < len(m.displayCourses()) {
		c := m.displayCourses()[i]
		if c.ID == "" {
			return nil, false
		}
		return &heldItem{payload: grid.Payload{CourseID: c.ID, CourseName: c.Name, CourseURL: c.URL}}, true
	}
	col, ok := m.columnAt(x, y)
	if !ok {
		return nil, false
	}
	row := y - m.gridTop() - 1
	entry, ok := m.entryAt(col, row)
	if !ok {
		return nil, false
	}
	return &heldItem{
		payload: grid.Payload{
			CourseID:     entry.CourseID,
			CourseName:   entry.Name,
			CourseURL:    entry.URL,
			FromSchedule: true,
		},
		fromDay: domain.Weekdays[col],
	}, true
}

// columnAt maps an x position inside the grid block to a day column.
func (m *gridModel) columnAt(x, y int) (int, bool) {
	if y < m.gridTop() {
		return 0, false
	}
	col := x / (gridColWidth + 1)
	if col < 0 || col >= len(domain.Weekdays) {
		return 0, false
	}
	return col, true
}

func (m *gridModel) entryAt(col, row int) (domain.DayEntry, bool) {
	entries := m.byDay[domain.Weekdays[col]]
	if row < 0 || row >= len(entries) {
		return domain.DayEntry{}, false
	}
	return entries[row], true
}

// coursesTop is the screen row of the first course line.
func (m *gridModel) coursesTop() int { return 2 }

// gridTop is the screen row of the day-header line.
func (m *gridModel) gridTop() int { return m.coursesTop() + len(m.courses) + 1 }

// ── view ─────────────────────────────────────────────────────────────────────

var (
	gridTitleStyle  = lipgloss.NewStyle().Bold(true)
	dayHeaderStyle  = lipgloss.NewStyle().Bold(true).Width(gridColWidth).Align(lipgloss.Center)
	dayCellStyle    = lipgloss.NewStyle().Width(gridColWidth)
	dropTargetStyle = lipgloss.NewStyle().Width(gridColWidth).Reverse(true)
	heldStyle       = lipgloss.NewStyle().Width(gridColWidth).Faint(true)
	cursorStyle     = lipgloss.NewStyle().Width(gridColWidth).Underline(true)
	emptyDayStyle   = lipgloss.NewStyle().Width(gridColWidth).Faint(true)
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

func (m gridModel) View() string {
	var b strings.Builder
	b.WriteString(gridTitleStyle.Render("לוח זמנים שבועי"))
	b.WriteString("\n\n")

	courses := m.displayCourses()
	for i, c := range courses {
		star := "☆"
		if m.app.State.IsFavorite(c.ID) {
			star = "★"
		}
		line := star + " " + truncate(c.Name, gridColWidth*3)
		if m.focus == paneCourses && i == m.courseIdx {
			line = "> " + line
		} else {
			line = "  " + line
		}
		if m.holding != nil && !m.holding.payload.FromSchedule && m.holding.payload.CourseID == c.ID {
			line = lipgloss.NewStyle().Faint(true).Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	columns := make([]string, 0, len(domain.Weekdays))
	maxRows := 1
	for _, day := range domain.Weekdays {
		if n := len(m.byDay[day]); n > maxRows {
			maxRows = n
		}
	}
	for ci, day := range domain.Weekdays {
		var col strings.Builder
		header := dayHeaderStyle
		if m.holding != nil && m.focus == paneGrid && ci == m.col {
			header = header.Reverse(true)
		}
		col.WriteString(header.Render(day.Label()))
		col.WriteString("\n")

		entries := m.byDay[day]
		if len(entries) == 0 {
			col.WriteString(emptyDayStyle.Render("גרור קורס לכאן"))
			col.WriteString("\n")
		}
		for ri, entry := range entries {
			style := dayCellStyle
			switch {
			case m.holding != nil && m.holding.payload.FromSchedule &&
				m.holding.payload.CourseID == entry.CourseID && m.holding.fromDay == day:
				style = heldStyle
			case m.focus == paneGrid && ci == m.col && ri == m.row:
				style = cursorStyle
			}
			col.WriteString(style.Render(truncate(entry.Name, gridColWidth-2) + " ✕"))
			col.WriteString("\n")
		}
		for pad := len(entries); pad < maxRows; pad++ {
			col.WriteString(dayCellStyle.Render(""))
			col.WriteString("\n")
		}
		columns = append(columns, col.String())
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, columns...))
	b.WriteString("\n")

	switch m.confirmStage {
	case 1:
		b.WriteString(statusStyle.Render("⚠️ האם אתה בטוח שברצונך למחוק את כל הקורסים מהלוח זמנים? פעולה זו לא ניתנת לביטול! (y/n)"))
	case 2:
		b.WriteString(statusStyle.Render("האם אתה בטוח לחלוטין? כל הקורסים יימחקו מהלוח זמנים. (y/n)"))
	default:
		if m.status != "" {
			b.WriteString(m.status)
		}
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
