package reconcile

import (
	"github.com/jct-tools/moodleboard/internal/page"
)

// CourseRef is one card's resolved identity, for surfaces that need the
// course list without the DOM (the grid TUI's drag sources).
type CourseRef struct {
	ID   string
	Name string
	URL  string
}

// Collect resolves every card in the page's grid containers. Cards without a
// resolvable id are skipped; they stay decorated in the page but cannot back
// identity-dependent operations.
func Collect(doc *page.Document) []CourseRef {
	var out []CourseRef
	seen := make(map[string]bool)
	for _, card := range page.FindAll(doc.Root(), cardMatch) {
		id, ok := page.ResolveID(card)
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, CourseRef{
			ID:   id,
			Name: page.ResolveName(card),
			URL:  page.ResolveURL(card),
		})
	}
	return out
}
