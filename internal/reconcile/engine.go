// Package reconcile brings the host page's DOM in line with the persisted
// state: it tags course containers, decorates every card exactly once, keeps
// accent colors current, and reorders favorites to the front. Passes are
// idempotent; the host page may rebuild its DOM at any time and the next pass
// starts fresh on the new element instances.
package reconcile

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/html"

	"github.com/jct-tools/moodleboard/internal/domain"
	"github.com/jct-tools/moodleboard/internal/grid"
	"github.com/jct-tools/moodleboard/internal/page"
	"github.com/jct-tools/moodleboard/internal/schedule"
	"github.com/jct-tools/moodleboard/internal/store"
)

// Engine runs reconciliation passes over a parsed page.
type Engine struct {
	state  *schedule.Service
	store  *store.Adapter
	logger *slog.Logger

	// processed marks element instances that already went through full
	// decoration. Identity is the node pointer, so a rebuilt card is a new,
	// unseen instance. Individual decorations are still existence-guarded.
	processed map[*html.Node]bool

	placeholderURL string
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithEngineLogger routes pass telemetry to the given logger.
func WithEngineLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithPlaceholderURL sets the image used when a card has no course image.
func WithPlaceholderURL(url string) EngineOption {
	return func(e *Engine) { e.placeholderURL = url }
}

// NewEngine creates a reconciliation engine over the shared state and store.
func NewEngine(state *schedule.Service, adapter *store.Adapter, opts ...EngineOption) *Engine {
	e := &Engine{
		state:          state,
		store:          adapter,
		logger:         slog.New(slog.DiscardHandler),
		processed:      make(map[*html.Node]bool),
		placeholderURL: "assets/placeholder.svg",
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Pass runs one full reconciliation sweep. It never fails: a malformed card
// is skipped, a panic anywhere in the sweep is caught and logged, and the
// rest of the page is still decorated. An uncaught failure here would stop
// all further reconciliation, so the boundary is absolute.
func (e *Engine) Pass(ctx context.Context, doc *page.Document) {
	passID := uuid.New().String()
	start := time.Now()
	cards := 0

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("reconcile pass panicked", "pass", passID, "panic", r)
		}
	}()

	e.markContainers(doc)
	cards = e.ensureStructureAndColor(ctx, doc)
	e.removeEmptyDecorBox(doc)

	if htmlEl := page.FindFirst(doc.Root(), page.ByTag("html")); htmlEl != nil {
		page.SetStyleProp(htmlEl, "--jct-columns", strconv.Itoa(e.store.LoadColumnCount(ctx)))
	}

	for _, grid := range page.FindAll(doc.Root(), gridMatch) {
		e.Reorder(grid)
	}

	e.logger.Debug("reconcile_pass",
		"pass", passID,
		"cards", cards,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

// markContainers tags every recognized course container with the grid class.
// Idempotent: already-tagged containers are left alone.
func (e *Engine) markContainers(doc *page.Document) {
	for _, rule := range containerRules {
		for _, el := range page.FindAll(doc.Root(), rule) {
			page.AddClass(el, GridClass)
		}
	}
}

// ensureStructureAndColor decorates every card in every grid container:
// thumbnail wrapper, accent custom properties, favorite and schedule
// controls, stable index, clickable marker. Every decoration is guarded by
// an existence check so the sweep is idempotent per element; the accent is
// deliberately recomputed on every pass so palette and settings changes
// propagate without a reload.
func (e *Engine) ensureStructureAndColor(ctx context.Context, doc *page.Document) int {
	palette := e.store.LoadPalette(ctx)
	cards := page.FindAll(doc.Root(), cardMatch)
	for _, card := range cards {
		e.decorateCard(card, palette)
	}
	return len(cards)
}

func (e *Engine) decorateCard(card *html.Node, palette domain.Palette) {
	if page.StyleProp(card, "position") == "" {
		page.SetStyleProp(card, "position", "relative")
	}

	e.ensureThumb(card)

	// Accent: parse the term from card text, fall back to a hash of the
	// course id so the color stays stable without parseable text.
	term, ok := domain.ParseTerm(page.Text(card))
	if !ok {
		id, _ := page.ResolveID(card)
		term = domain.FallbackTerm(id)
	}
	accent := palette.ColorFor(term.Year, term.SemIdx)
	styled := e.styledCardEl(card)
	page.SetStyleProp(styled, "--jct-accent-h", strconv.Itoa(accent.H))
	page.SetStyleProp(styled, "--jct-accent-s", strconv.Itoa(accent.S)+"%")
	page.SetStyleProp(styled, "--jct-accent-l", strconv.Itoa(accent.L)+"%")

	courseID, _ := page.ResolveID(card)
	e.ensureFavToggle(card, courseID)
	e.ensureScheduleButton(card, courseID)

	if page.Attr(card, "data-jct-idx") == "" && card.Parent != nil {
		idx := 0
		for _, sibling := range page.Children(card.Parent) {
			if sibling == card {
				break
			}
			idx++
		}
		page.SetAttr(card, "data-jct-idx", strconv.Itoa(idx))
	}

	if link := page.CourseLink(card); link != nil && !page.HasClass(card, "jct-clickable") {
		// The interactive layer navigates the whole card to this URL unless
		// the click lands on a control or follows a drag gesture.
		page.AddClass(card, "jct-clickable")
		page.SetStyleProp(card, "cursor", "pointer")
		page.SetAttr(card, "data-jct-href", page.Attr(link, "href"))
	}

	e.processed[card] = true
}

// ensureThumb guarantees a thumbnail wrapper as the card's first child,
// holding either the page's own course image (moved, not cloned) or a
// placeholder.
func (e *Engine) ensureThumb(card *html.Node) {
	thumb := page.FindFirst(card, page.ByClass("jct-thumb-wrap"))
	if thumb == nil {
		thumb = page.NewElement("div")
		page.SetAttr(thumb, "class", "jct-thumb-wrap")
		page.InsertFirst(card, thumb)
	}
	if img := page.FindFirst(card, cardImageMatch); img != nil && img.Parent != thumb {
		for c := thumb.FirstChild; c != nil; {
			next := c.NextSibling
			thumb.RemoveChild(c)
			c = next
		}
		page.AppendChild(thumb, img)
		page.AddClass(img, "jct-thumb-img")
	}
	if page.FindFirst(thumb, page.ByTag("img")) == nil &&
		page.FindFirst(thumb, page.ByClass("jct-course-thumb")) == nil {
		ph := page.NewElement("img")
		page.SetAttr(ph, "class", "jct-thumb-img")
		page.SetAttr(ph, "alt", "")
		page.SetAttr(ph, "src", e.placeholderURL)
		page.AppendChild(thumb, ph)
	}
}

func (e *Engine) ensureFavToggle(card *html.Node, courseID string) {
	btn := page.FindFirst(card, page.ByClass("jct-fav-toggle"))
	if btn == nil {
		btn = page.NewElement("button")
		page.SetAttr(btn, "type", "button")
		page.SetAttr(btn, "class", "jct-fav-toggle")
		page.SetAttr(btn, "title", "Toggle favorite")
		page.SetAttr(btn, "data-action", "toggle-favorite")
		page.AppendChild(card, btn)
	}
	fav := e.state.IsFavorite(courseID)
	page.SetAttr(card, "data-jct-fav", favFlag(fav))
	page.ToggleClass(btn, "jct-fav-on", fav)
	page.SetAttr(btn, "aria-pressed", strconv.FormatBool(fav))
	if fav {
		page.SetText(btn, "★")
	} else {
		page.SetText(btn, "☆")
	}
}

func (e *Engine) ensureScheduleButton(card *html.Node, courseID string) {
	btn := page.FindFirst(card, page.ByClass("jct-schedule-btn"))
	if btn == nil {
		btn = page.NewElement("button")
		page.SetAttr(btn, "type", "button")
		page.SetAttr(btn, "class", "jct-schedule-btn")
		page.SetAttr(btn, "title", "הוסף ללוח זמנים (לחץ לעריכה, גרור להוספה)")
		page.SetAttr(btn, "draggable", "true")
		page.SetAttr(btn, "data-action", "open-schedule")
		page.SetText(btn, "📅")
		page.AppendChild(card, btn)
	}
	// The drag payload is refreshed every pass so a renamed course drags
	// with its current name.
	if courseID != "" {
		page.SetAttr(btn, "data-payload", cardPayload(card, courseID))
	}
}

// styledCardEl returns the element the accent lands on.
func (e *Engine) styledCardEl(card *html.Node) *html.Node {
	if cardStyleMatch(card) {
		return card
	}
	if el := page.FindFirst(card, cardStyleMatch); el != nil {
		return el
	}
	return card
}

// removeEmptyDecorBox drops the host's empty centering box, the one
// host-authored element this system removes.
func (e *Engine) removeEmptyDecorBox(doc *page.Document) {
	boxMatch := page.ByClass("box", "py-3", "d-flex", "justify-content-center")
	for _, box := range page.FindAll(doc.Root(), boxMatch) {
		if len(page.Children(box)) == 0 {
			page.Detach(box)
		}
	}
}

// cardPayload builds the drag payload for a card's schedule affordance.
func cardPayload(card *html.Node, courseID string) string {
	return grid.Payload{
		CourseID:   courseID,
		CourseName: page.ResolveName(card),
		CourseURL:  page.ResolveURL(card),
	}.Encode()
}

func favFlag(on bool) string {
	if on {
		return "1"
	}
	return "0"
}
