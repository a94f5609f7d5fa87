package reconcile

import (
	"sort"
	"strconv"

	"golang.org/x/net/html"

	"github.com/jct-tools/moodleboard/internal/page"
)

// cardMeta is one container child with its ordering inputs resolved.
type cardMeta struct {
	card *html.Node
	fav  bool
	idx  int
}

// Reorder sorts a grid container's children favorites-first, preserving the
// original relative order within each group via the stamped stable index.
// A pass over an already-ordered container touches nothing; once a card has
// to move, the remaining cards are appended in target order. Indices are
// re-stamped only when something moved. Returns whether any DOM move
// happened.
func (e *Engine) Reorder(container *html.Node) bool {
	if container == nil {
		return false
	}
	children := page.Children(container)
	withMeta := make([]cardMeta, 0, len(children))
	for i, card := range children {
		idx := i
		if v, err := strconv.Atoi(page.Attr(card, "data-jct-idx")); err == nil {
			idx = v
		}
		// The cached attribute tolerates resolver misses on cards whose
		// link the host stripped mid-rebuild.
		id, _ := page.ResolveID(card)
		fav := e.state.IsFavorite(id) || page.Attr(card, "data-jct-fav") == "1"
		withMeta = append(withMeta, cardMeta{card: card, fav: fav, idx: idx})
	}

	sorted := append([]cardMeta(nil), withMeta...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.fav != b.fav {
			return a.fav
		}
		return a.idx < b.idx
	})

	changed := false
	for pos, meta := range sorted {
		current := page.Children(container)
		// After the first move, later cards may sit at their target slot
		// only transiently: appending an earlier card pushes them back.
		// From that point every remaining card is re-appended in order.
		if changed || pos >= len(current) || current[pos] != meta.card {
			changed = true
			page.AppendChild(container, meta.card)
		}
	}
	if changed {
		for i, card := range page.Children(container) {
			page.SetAttr(card, "data-jct-idx", strconv.Itoa(i))
		}
	}
	return changed
}
