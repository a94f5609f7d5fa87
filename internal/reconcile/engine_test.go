package reconcile

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/jct-tools/moodleboard/internal/domain"
	"github.com/jct-tools/moodleboard/internal/page"
	"github.com/jct-tools/moodleboard/internal/schedule"
	"github.com/jct-tools/moodleboard/internal/store"
	"github.com/jct-tools/moodleboard/internal/testutil"
)

func newTestEngine(t *testing.T) (*Engine, *schedule.Service, *store.Adapter) {
	t.Helper()
	localDB := testutil.NewTestDB(t)
	syncDB := testutil.NewTestDB(t)
	adapter := store.NewAdapter(
		store.NewSQLiteBackend(localDB, testutil.NewTestUoW(localDB)),
		store.NewSQLiteBackend(syncDB, testutil.NewTestUoW(syncDB)),
	)
	state := schedule.NewService(adapter)
	state.Load(context.Background())
	return NewEngine(state, adapter), state, adapter
}

func findAllClass(doc *page.Document, class string) []*html.Node {
	return page.FindAll(doc.Root(), page.ByClass(class))
}

func TestPass_TagsContainers(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	doc := testutil.DashboardPage(t, testutil.Card{ID: "101", Name: "אלגברה"})

	engine.Pass(context.Background(), doc)

	grids := findAllClass(doc, GridClass)
	require.NotEmpty(t, grids)
}

func TestPass_DecoratesCards(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	doc := testutil.DashboardPage(t,
		testutil.Card{ID: "101", Name: "אלגברה"},
		testutil.Card{ID: "102", Name: "אינפי"},
	)

	engine.Pass(context.Background(), doc)

	cards := testutil.Cards(doc)
	require.Len(t, cards, 2)
	for _, card := range cards {
		assert.NotNil(t, page.FindFirst(card, page.ByClass("jct-thumb-wrap")))
		assert.NotNil(t, page.FindFirst(card, page.ByClass("jct-fav-toggle")))

		btn := page.FindFirst(card, page.ByClass("jct-schedule-btn"))
		require.NotNil(t, btn)
		assert.Equal(t, "true", page.Attr(btn, "draggable"))
		assert.Equal(t, "open-schedule", page.Attr(btn, "data-action"))
		assert.NotEmpty(t, page.Attr(btn, "data-payload"))

		assert.NotEmpty(t, page.StyleProp(card, "--jct-accent-h"))
		assert.NotEmpty(t, page.StyleProp(card, "--jct-accent-s"))
		assert.NotEmpty(t, page.StyleProp(card, "--jct-accent-l"))
		assert.Equal(t, "relative", page.StyleProp(card, "position"))
		assert.True(t, page.HasClass(card, "jct-clickable"))
		assert.Contains(t, page.Attr(card, "data-jct-href"), "/course/view.php")
	}
	assert.Equal(t, "0", page.Attr(cards[0], "data-jct-idx"))
	assert.Equal(t, "1", page.Attr(cards[1], "data-jct-idx"))
}

func TestPass_Idempotent(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	doc := testutil.DashboardPage(t, testutil.Card{ID: "101", Name: "אלגברה"})
	ctx := context.Background()

	engine.Pass(ctx, doc)
	engine.Pass(ctx, doc)
	engine.Pass(ctx, doc)

	card := testutil.Cards(doc)[0]
	assert.Len(t, page.FindAll(card, page.ByClass("jct-fav-toggle")), 1)
	assert.Len(t, page.FindAll(card, page.ByClass("jct-schedule-btn")), 1)
	assert.Len(t, page.FindAll(card, page.ByClass("jct-thumb-wrap")), 1)
}

func TestPass_MovesCourseImageIntoThumb(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	doc := testutil.DashboardPage(t, testutil.Card{ID: "101", Name: "אלגברה"})

	engine.Pass(context.Background(), doc)

	card := testutil.Cards(doc)[0]
	thumb := page.FindFirst(card, page.ByClass("jct-thumb-wrap"))
	require.NotNil(t, thumb)
	img := page.FindFirst(thumb, page.ByTag("img"))
	require.NotNil(t, img, "the host image moves into the wrapper")
	assert.Contains(t, page.Attr(img, "src"), "pluginfile")
	assert.Len(t, page.FindAll(card, page.ByTag("img")), 1, "moved, not cloned")
}

func TestPass_PlaceholderWhenNoImage(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	doc := testutil.FrontpagePage(t, testutil.Card{ID: "101", Name: "אלגברה"})

	engine.Pass(context.Background(), doc)

	card := testutil.Cards(doc)[0]
	thumb := page.FindFirst(card, page.ByClass("jct-thumb-wrap"))
	require.NotNil(t, thumb)
	img := page.FindFirst(thumb, page.ByTag("img"))
	require.NotNil(t, img)
	assert.Equal(t, "assets/placeholder.svg", page.Attr(img, "src"))
}

func TestPass_FavoriteStateReflectedOnCard(t *testing.T) {
	engine, state, _ := newTestEngine(t)
	ctx := context.Background()
	_, err := state.ToggleFavorite(ctx, "101")
	require.NoError(t, err)

	doc := testutil.DashboardPage(t,
		testutil.Card{ID: "101", Name: "אלגברה"},
		testutil.Card{ID: "102", Name: "אינפי"},
	)
	engine.Pass(ctx, doc)

	var fav, plain *html.Node
	for _, card := range testutil.Cards(doc) {
		id, _ := page.ResolveID(card)
		if id == "101" {
			fav = card
		} else {
			plain = card
		}
	}
	require.NotNil(t, fav)
	require.NotNil(t, plain)

	assert.Equal(t, "1", page.Attr(fav, "data-jct-fav"))
	favBtn := page.FindFirst(fav, page.ByClass("jct-fav-toggle"))
	assert.True(t, page.HasClass(favBtn, "jct-fav-on"))
	assert.Equal(t, "true", page.Attr(favBtn, "aria-pressed"))
	assert.Equal(t, "★", page.Text(favBtn))

	assert.Equal(t, "0", page.Attr(plain, "data-jct-fav"))
	assert.Equal(t, "☆", page.Text(page.FindFirst(plain, page.ByClass("jct-fav-toggle"))))
}

func TestPass_AccentStableAcrossPasses(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	doc := testutil.DashboardPage(t, testutil.Card{ID: "101", Name: "קורס בלי שנה"})
	ctx := context.Background()

	engine.Pass(ctx, doc)
	card := testutil.Cards(doc)[0]
	h := page.StyleProp(card, "--jct-accent-h")
	s := page.StyleProp(card, "--jct-accent-s")
	l := page.StyleProp(card, "--jct-accent-l")

	engine.Pass(ctx, doc)
	assert.Equal(t, h, page.StyleProp(card, "--jct-accent-h"))
	assert.Equal(t, s, page.StyleProp(card, "--jct-accent-s"))
	assert.Equal(t, l, page.StyleProp(card, "--jct-accent-l"))
}

func TestPass_UsesSavedPalette(t *testing.T) {
	engine, _, adapter := newTestEngine(t)
	ctx := context.Background()
	raw, err := json.Marshal(domain.DefaultPalette)
	require.NoError(t, err)
	require.NoError(t, adapter.Save(ctx, store.KindPalette, raw))

	// Row 5784, column 0 of the default palette.
	doc := testutil.DashboardPage(t, testutil.Card{ID: "101", Name: `מכינה אלול תשפ"ד`})
	engine.Pass(ctx, doc)

	card := testutil.Cards(doc)[0]
	want := domain.HexToHSL("#3b82f6")
	assert.Equal(t, "217", page.StyleProp(card, "--jct-accent-h"))
	assert.Equal(t, "90%", page.StyleProp(card, "--jct-accent-s"))
	assert.Equal(t, "60%", page.StyleProp(card, "--jct-accent-l"))
	assert.Equal(t, domain.HSL{H: 217, S: 90, L: 60}, want)
}

func TestPass_SetsColumnCountOnRoot(t *testing.T) {
	engine, _, adapter := newTestEngine(t)
	ctx := context.Background()
	require.NoError(t, adapter.Save(ctx, store.KindColumnCount, json.RawMessage(`5`)))

	doc := testutil.DashboardPage(t, testutil.Card{ID: "101", Name: "אלגברה"})
	engine.Pass(ctx, doc)

	htmlEl := page.FindFirst(doc.Root(), page.ByTag("html"))
	require.NotNil(t, htmlEl)
	assert.Equal(t, "5", page.StyleProp(htmlEl, "--jct-columns"))
}

func TestPass_RemovesEmptyDecorBox(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	doc, err := page.ParseString(`<html><body>
		<div id="region-main">
			<div class="box py-3 d-flex justify-content-center"></div>
			<div class="box py-3 d-flex justify-content-center"><span>kept</span></div>
		</div>
	</body></html>`)
	require.NoError(t, err)

	engine.Pass(context.Background(), doc)

	boxes := page.FindAll(doc.Root(), page.ByClass("box", "py-3", "d-flex", "justify-content-center"))
	require.Len(t, boxes, 1)
	assert.Equal(t, "kept", page.Text(boxes[0]))
}

func TestCollect(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	doc := testutil.DashboardPage(t,
		testutil.Card{ID: "101", Name: "אלגברה"},
		testutil.Card{ID: "102", Name: "אינפי"},
	)
	engine.Pass(context.Background(), doc)

	refs := Collect(doc)
	require.Len(t, refs, 2)
	assert.Equal(t, "101", refs[0].ID)
	assert.Equal(t, "אלגברה", refs[0].Name)
	assert.Contains(t, refs[0].URL, "id=101")
}
