package reconcile

import "github.com/jct-tools/moodleboard/internal/page"

// GridClass tags every recognized course container so later passes and the
// ordering engine can find them without re-running the host selectors.
const GridClass = "jct-courses-grid"

// containerRules lists the host-page shapes that hold course cards, one entry
// per template. Supporting a new host template means adding a rule here.
var containerRules = []page.Match{
	page.All(page.ByClass("courses-view"), page.HasAncestor(page.ByClass("block_myoverview"))),
	page.All(page.ByClass("list-group"), page.HasAncestor(page.ByClass("block_myoverview"))),
	page.All(page.ByClass("list-group"), page.HasAncestor(page.ByAttrContains("data-region", "courses-view"))),
	page.ByClass("dashboard-card-deck"),
	page.All(page.ByClass("courses"), page.HasAncestor(page.ByID("frontpage-course-list"))),
	page.All(page.ByClass("course-list"), page.HasAncestor(page.ByID("frontpage-course-list"))),
	page.All(page.ByClass("courses"), page.HasAncestor(page.ByClass("course_category_tree"))),
}

var gridMatch = page.ByClass(GridClass)

// cardMatch covers the card shapes across host templates, scoped to tagged
// grid containers.
var cardMatch = page.Any(
	page.All(page.ByClass("list-group-item"), page.HasAncestor(gridMatch)),
	page.All(page.ByClass("coursebox"), page.HasAncestor(gridMatch)),
	page.All(page.ByClass("card", "course"), page.HasAncestor(gridMatch)),
	page.All(page.ByTag("li"), page.ChildOf(page.All(page.ByClass("course-list"), page.HasAncestor(gridMatch)))),
	page.All(page.ByClass("dashboard-card"), page.ChildOf(gridMatch)),
)

// cardStyleMatch picks the element the accent custom properties land on:
// the card itself when it is one of the styled shapes, else its first styled
// descendant, else the card.
var cardStyleMatch = page.Any(
	page.ByClass("list-group-item"),
	page.ByClass("coursebox"),
	page.ByClass("card", "course"),
)

// cardImageMatch finds the host page's own course image, which is moved (not
// cloned) into the thumbnail wrapper.
var cardImageMatch = page.All(
	page.ByTag("img"),
	page.Any(
		page.ByClass("courseimage"),
		page.HasAncestor(page.ByClass("courseimage")),
		page.ByAttrContains("src", "pluginfile"),
		page.ByAttrContains("src", "/course/overview"),
	),
)
