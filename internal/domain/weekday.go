package domain

type Weekday string

const (
	Sunday    Weekday = "sunday"
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
)

// LegacySaturday is no longer a valid assignment target; the institution holds
// no Saturday classes. It only appears in pre-migration records and is
// stripped on load.
const LegacySaturday Weekday = "saturday"

// Weekdays lists the assignable days in display order, Sunday first.
var Weekdays = []Weekday{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday}

var weekdayLabels = map[Weekday]string{
	Sunday:    "ראשון",
	Monday:    "שני",
	Tuesday:   "שלישי",
	Wednesday: "רביעי",
	Thursday:  "חמישי",
	Friday:    "שישי",
}

// Label returns the Hebrew display name for the day, or the raw value for
// anything outside the canonical six.
func (d Weekday) Label() string {
	if l, ok := weekdayLabels[d]; ok {
		return l
	}
	return string(d)
}

// Valid reports whether d is one of the six assignable days.
func (d Weekday) Valid() bool {
	_, ok := weekdayLabels[d]
	return ok
}

// ParseWeekday converts a stored day string to a Weekday, rejecting saturday
// and anything unknown.
func ParseWeekday(s string) (Weekday, bool) {
	d := Weekday(s)
	if !d.Valid() {
		return "", false
	}
	return d, true
}
