// Package grid renders the six-day weekly schedule view and applies
// drag-and-drop transfers to the schedule state machine.
package grid

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/net/html"

	"github.com/jct-tools/moodleboard/internal/domain"
	"github.com/jct-tools/moodleboard/internal/page"
	"github.com/jct-tools/moodleboard/internal/schedule"
)

// SettleDelay is how long callers wait after a persisted drop before
// re-rendering the grid, so rapid repeated drops don't churn the view.
const SettleDelay = 300 * time.Millisecond

// ViewID is the grid container's element id in the page.
const ViewID = "jct-weekly-schedule"

// ToggleID is the show/hide button's element id.
const ToggleID = "jct-schedule-toggle"

const (
	toggleOpenLabel   = "✕ סגור לוח זמנים"
	toggleClosedLabel = "📅 הצג לוח זמנים שבועי"
)

// Controller owns the weekly grid view: rendering it from schedule state and
// translating drop payloads into state-machine operations.
type Controller struct {
	state  *schedule.Service
	logger *slog.Logger
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithControllerLogger routes drop diagnostics to the given logger.
func WithControllerLogger(l *slog.Logger) ControllerOption {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewController creates a grid controller over the shared state machine.
func NewController(state *schedule.Service, opts ...ControllerOption) *Controller {
	c := &Controller{state: state, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// EnsureView guarantees the toggle button and grid container exist in the
// page, inserted just before the first courses grid (or at the top of the
// main region when none is decorated yet), then renders the grid.
func (c *Controller) EnsureView(doc *page.Document) {
	if page.FindFirst(doc.Root(), page.ByID(ViewID)) != nil {
		c.Render(doc)
		return
	}
	region := page.FindFirst(doc.Root(), page.ByID("region-main"))
	if region == nil {
		region = page.FindFirst(doc.Root(), page.ByTag("main"))
	}
	if region == nil {
		return
	}

	toggle := page.NewElement("button")
	page.SetAttr(toggle, "id", ToggleID)
	page.SetAttr(toggle, "class", "jct-schedule-toggle")
	page.SetAttr(toggle, "data-action", "toggle-schedule-view")

	container := page.NewElement("div")
	page.SetAttr(container, "id", ViewID)
	page.SetAttr(container, "class", "jct-weekly-schedule")

	if coursesGrid := page.FindFirst(region, page.ByClass("jct-courses-grid")); coursesGrid != nil && coursesGrid.Parent != nil {
		page.InsertBeforeNode(coursesGrid, toggle)
		page.InsertBeforeNode(coursesGrid, container)
	} else {
		page.InsertFirst(region, container)
		page.InsertFirst(region, toggle)
	}

	c.Render(doc)
}

// Render rebuilds the grid container's contents from the schedule map. Day
// columns follow the fixed Sunday-through-Friday order; within a column,
// courses appear in schedule-map iteration order, unspecified but stable for
// the session since every render groups from the same map.
func (c *Controller) Render(doc *page.Document) {
	container := page.FindFirst(doc.Root(), page.ByID(ViewID))
	if container == nil {
		c.EnsureView(doc)
		return
	}

	open := c.state.ViewOpen()
	if open {
		page.SetStyleProp(container, "display", "block")
	} else {
		page.SetStyleProp(container, "display", "none")
	}
	if toggle := page.FindFirst(doc.Root(), page.ByID(ToggleID)); toggle != nil {
		if open {
			page.SetText(toggle, toggleOpenLabel)
		} else {
			page.SetText(toggle, toggleClosedLabel)
		}
	}

	for child := container.FirstChild; child != nil; {
		next := child.NextSibling
		container.RemoveChild(child)
		child = next
	}

	container.AppendChild(c.buildHeader())
	container.AppendChild(c.buildGrid())
}

func (c *Controller) buildHeader() *html.Node {
	header := page.NewElement("div")
	page.SetAttr(header, "class", "jct-schedule-header")

	title := page.NewElement("h2")
	page.SetText(title, "לוח זמנים שבועי")
	header.AppendChild(title)

	hint := page.NewElement("p")
	page.SetAttr(hint, "class", "jct-schedule-hint")
	page.SetText(hint, "גרור 📅 לימים או לחץ עליו לעריכה")
	header.AppendChild(hint)

	deleteAll := page.NewElement("button")
	page.SetAttr(deleteAll, "class", "jct-schedule-delete-all-btn")
	page.SetAttr(deleteAll, "title", "מחק את כל הקורסים מהלוח זמנים")
	page.SetAttr(deleteAll, "data-action", "clear-all")
	page.SetText(deleteAll, "🗑️ מחק הכל")
	header.AppendChild(deleteAll)

	return header
}

func (c *Controller) buildGrid() *html.Node {
	gridEl := page.NewElement("div")
	page.SetAttr(gridEl, "class", "jct-schedule-grid")

	byDay := c.state.Schedules().ByDay()
	for _, day := range domain.Weekdays {
		column := page.NewElement("div")
		page.SetAttr(column, "class", "jct-schedule-day")
		page.SetAttr(column, "data-day", string(day))

		head := page.NewElement("div")
		page.SetAttr(head, "class", "jct-schedule-day-header")
		page.SetText(head, day.Label())
		column.AppendChild(head)

		courses := page.NewElement("div")
		page.SetAttr(courses, "class", "jct-schedule-day-courses")
		page.SetAttr(courses, "data-day", string(day))

		entries := byDay[day]
		if len(entries) == 0 {
			empty := page.NewElement("div")
			page.SetAttr(empty, "class", "jct-schedule-empty")
			page.SetText(empty, "גרור קורס לכאן")
			courses.AppendChild(empty)
		}
		for _, entry := range entries {
			courses.AppendChild(c.buildItem(entry, day))
		}

		column.AppendChild(courses)
		gridEl.AppendChild(column)
	}
	return gridEl
}

func (c *Controller) buildItem(entry domain.DayEntry, day domain.Weekday) *html.Node {
	item := page.NewElement("div")
	page.SetAttr(item, "class", "jct-schedule-course-item")
	page.SetAttr(item, "data-course-id", entry.CourseID)
	page.SetAttr(item, "draggable", "true")
	page.SetAttr(item, "data-payload", Payload{
		CourseID:     entry.CourseID,
		CourseName:   entry.Name,
		CourseURL:    entry.URL,
		FromSchedule: true,
	}.Encode())

	link := page.NewElement("a")
	page.SetAttr(link, "href", entry.URL)
	page.SetAttr(link, "class", "jct-schedule-course-link")
	page.SetText(link, entry.Name)
	item.AppendChild(link)

	remove := page.NewElement("button")
	page.SetAttr(remove, "class", "jct-schedule-remove-course")
	page.SetAttr(remove, "data-course-id", entry.CourseID)
	page.SetAttr(remove, "data-day", string(day))
	page.SetAttr(remove, "data-action", "remove-day")
	page.SetAttr(remove, "title", "הסר מיום זה")
	page.SetText(remove, "✕")
	item.AppendChild(remove)

	return item
}

// Drop applies a drag payload to a target day. from is the column the item
// was dragged out of when the payload carries FromSchedule; it is empty for
// drags that started on a course card. A move between columns removes the old
// assignment first, then adds the new one; dropping an item back on its own
// column is a no-op. The optimistic state update happens inside the state
// machine; persistence errors propagate to the caller.
func (c *Controller) Drop(ctx context.Context, p Payload, from, target domain.Weekday) error {
	if p.FromSchedule && from != "" && from != target {
		if _, ok := c.state.Record(p.CourseID); ok {
			if err := c.state.RemoveDay(ctx, p.CourseID, from); err != nil {
				return err
			}
		}
	}
	return c.state.AddDay(ctx, p.CourseID, target, p.CourseName, p.CourseURL)
}

// DropRaw decodes and applies a serialized payload. A missing or malformed
// payload is logged and ignored, never surfaced.
func (c *Controller) DropRaw(ctx context.Context, raw string, from, target domain.Weekday) error {
	p, err := DecodePayload(raw)
	if err != nil {
		c.logger.Warn("ignoring invalid drop", "error", err)
		return nil
	}
	return c.Drop(ctx, p, from, target)
}

// RemoveAssignment handles a grid item's per-day remove control: only that
// day's assignment goes, unless it was the record's last day.
func (c *Controller) RemoveAssignment(ctx context.Context, courseID string, day domain.Weekday) error {
	return c.state.RemoveDay(ctx, courseID, day)
}

// ClearAll empties the whole schedule. Callers must have collected the two
// sequential confirmations before getting here; the operation itself is
// unconditional and has no undo.
func (c *Controller) ClearAll(ctx context.Context) error {
	return c.state.ClearAll(ctx)
}

// ToggleView flips and persists the grid panel's visibility, returning the
// new state.
func (c *Controller) ToggleView(ctx context.Context) (bool, error) {
	open := !c.state.ViewOpen()
	return open, c.state.SetViewOpen(ctx, open)
}
