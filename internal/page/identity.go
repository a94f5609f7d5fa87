package page

import (
	"regexp"

	"golang.org/x/net/html"
)

// courseIDRe extracts the numeric id parameter from a course-view URL.
var courseIDRe = regexp.MustCompile(`[?&]id=(\d+)`)

// courseLinkMatch covers the anchor shapes the host templates use for the
// course link, in priority order of the original selector list.
var courseLinkMatch = All(
	ByTag("a"),
	Any(
		ByAttrContains("href", "/course/view.php"),
		HasAncestor(ByClass("coursename")),
		HasAncestor(ByClass("course-title")),
	),
)

// titleMatch covers the elements whose text is the course's display name.
var titleMatch = All(
	ByTag("a"),
	Any(
		HasAncestor(ByClass("coursename")),
		HasAncestor(ByClass("course-title")),
		ByClass("course-title"),
	),
)

// UnnamedCourse is the display label for a card with no resolvable title.
const UnnamedCourse = "קורס ללא שם"

// CourseLink returns the card's main course anchor, or nil.
func CourseLink(card *html.Node) *html.Node {
	return FindFirst(card, courseLinkMatch)
}

// ResolveID extracts a stable course identifier from a card element. It is a
// pure function of DOM content so reconciliation and drag-drop can call it
// repeatedly without drift. Strategies in order: the numeric id parameter of
// a course-view link, then a data-course-id attribute. ok is false when
// neither yields a value; identity-dependent operations skip such cards.
func ResolveID(card *html.Node) (string, bool) {
	if link := CourseLink(card); link != nil {
		if m := courseIDRe.FindStringSubmatch(Attr(link, "href")); m != nil {
			return m[1], true
		}
	}
	if id := Attr(card, "data-course-id"); id != "" {
		return id, true
	}
	return "", false
}

// ResolveName extracts the card's display name: the first non-empty title
// element, then the first line of the card's full text, then a localized
// default. Never empty.
func ResolveName(card *html.Node) string {
	if el := FindFirst(card, titleMatch); el != nil {
		if name := Text(el); name != "" {
			return name
		}
	}
	if line := FirstLine(Text(card)); line != "" {
		return line
	}
	return UnnamedCourse
}

// ResolveURL returns the card's course URL, or "#" when it has none.
func ResolveURL(card *html.Node) string {
	if link := CourseLink(card); link != nil {
		if href := Attr(link, "href"); href != "" {
			return href
		}
	}
	return "#"
}
