package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// Term is a card's resolved academic slot: a Hebrew year row and a semester
// column into the palette.
type Term struct {
	Year   int
	SemIdx int
}

var (
	hebrewYearRe  = regexp.MustCompile(`תש[פצ]["']?[דוהזחטצ]`)
	numericYearRe = regexp.MustCompile(`57[8-9][0-9]`)
	semesterRe    = regexp.MustCompile(`(?:^|\W)(א|ב|1|2|3)(?:\W|$)`)
)

var hebrewYearLookup = map[string]int{
	`תשפ"ד`: 5784,
	`תשפ"ה`: 5785,
	`תשפ"ו`: 5786,
	`תשפ"ז`: 5787,
	`תשפ"ח`: 5788,
	`תשפ"ט`: 5789,
	`תש"צ`:  5790,
}

var semesterIndex = map[string]int{
	"אלול": 0, "1": 0,
	"א": 1, "2": 1,
	"ב": 2, "3": 2,
}

// ParseTerm extracts the Hebrew academic year and semester column from free
// card text. It is a pure text match: the year via the תשפ״ד-style token
// (apostrophe normalized to gershayim) or a bare 578x/579x number, the
// semester via the אלול token or a standalone א/ב/1/2/3. ok is false when
// either part is missing; callers then fall back to FallbackTerm.
func ParseTerm(text string) (Term, bool) {
	var t Term

	yearOK := false
	if m := hebrewYearRe.FindString(text); m != "" {
		if y, ok := hebrewYearLookup[strings.ReplaceAll(m, "'", `"`)]; ok {
			t.Year = y
			yearOK = true
		}
	}
	if !yearOK {
		if m := numericYearRe.FindString(text); m != "" {
			t.Year, _ = strconv.Atoi(m)
			yearOK = true
		}
	}

	semOK := false
	if strings.Contains(text, "אלול") {
		t.SemIdx = 0
		semOK = true
	} else if m := semesterRe.FindStringSubmatch(text); m != nil {
		if idx, ok := semesterIndex[m[1]]; ok {
			t.SemIdx = idx
			semOK = true
		}
	}

	return t, yearOK && semOK
}

// FallbackTerm derives a stable pseudo-random year row and semester column
// from the course id, so a card whose text carries no parseable term still
// keeps the same accent across reconciliation passes. The hash matches the
// 32-bit `h = h*31 + c` string hash the settings surface assumes.
func FallbackTerm(courseID string) Term {
	var h int32
	for _, r := range courseID {
		h = h<<5 - h + int32(r)
	}
	a := int64(h)
	if a < 0 {
		a = -a
	}
	b := int64(h >> 3)
	if b < 0 {
		b = -b
	}
	return Term{
		Year:   HebrewYears[a%int64(len(HebrewYears))],
		SemIdx: int(b % 3),
	}
}
