package testutil

import (
	"fmt"
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/jct-tools/moodleboard/internal/page"
)

// Card describes one course card in a fixture dashboard page.
type Card struct {
	ID   string
	Name string
}

// DashboardPage builds a block_myoverview-style dashboard with the given
// course cards and parses it.
func DashboardPage(t *testing.T, cards ...Card) *page.Document {
	t.Helper()
	var items strings.Builder
	for _, c := range cards {
		fmt.Fprintf(&items, `
			<div class="list-group-item course-listitem">
				<div class="coursename">
					<a href="https://moodle.jct.ac.il/course/view.php?id=%s">%s</a>
				</div>
				<img class="courseimage" src="https://moodle.jct.ac.il/pluginfile.php/%s/course/overview/img.jpg">
			</div>`, c.ID, c.Name, c.ID)
	}
	html := fmt.Sprintf(`<!DOCTYPE html>
<html><body>
	<div id="region-main">
		<section class="block_myoverview block">
			<div data-region="courses-view" class="courses-view">
				<div class="list-group">%s</div>
			</div>
		</section>
	</div>
</body></html>`, items.String())

	doc, err := page.ParseString(html)
	if err != nil {
		t.Fatalf("parsing fixture page: %v", err)
	}
	return doc
}

// FrontpagePage builds a frontpage-course-list page, the other container shape
// the reconciler recognizes.
func FrontpagePage(t *testing.T, cards ...Card) *page.Document {
	t.Helper()
	var items strings.Builder
	for _, c := range cards {
		fmt.Fprintf(&items, `
			<div class="coursebox">
				<div class="coursename">
					<a href="/course/view.php?id=%s">%s</a>
				</div>
			</div>`, c.ID, c.Name)
	}
	html := fmt.Sprintf(`<!DOCTYPE html>
<html><body>
	<main>
		<div id="frontpage-course-list">
			<div class="courses">%s</div>
		</div>
	</main>
</body></html>`, items.String())

	doc, err := page.ParseString(html)
	if err != nil {
		t.Fatalf("parsing fixture page: %v", err)
	}
	return doc
}

// Cards returns the decorated course cards of doc in document order,
// identified by their stamped index attribute.
func Cards(doc *page.Document) []*html.Node {
	return page.FindAll(doc.Root(), func(n *html.Node) bool {
		return page.Attr(n, "data-jct-idx") != ""
	})
}
