package domain

import "sort"

// ScheduleRecord is the persisted per-course assignment: the display name, the
// weekdays the user placed the course on, and the course URL for navigation.
// A record with no days must not exist; callers delete it instead.
type ScheduleRecord struct {
	Name string    `json:"name"`
	Days []Weekday `json:"days"`
	URL  string    `json:"url,omitempty"`
}

// HasDay reports whether the record already contains d.
func (r ScheduleRecord) HasDay(d Weekday) bool {
	for _, have := range r.Days {
		if have == d {
			return true
		}
	}
	return false
}

// AddDay appends d if absent and reports whether the record changed.
// Days carry set semantics; a duplicate add is a no-op, not an error.
func (r *ScheduleRecord) AddDay(d Weekday) bool {
	if r.HasDay(d) {
		return false
	}
	r.Days = append(r.Days, d)
	return true
}

// RemoveDay drops d and reports whether the record changed. The caller is
// responsible for deleting the record when the last day goes.
func (r *ScheduleRecord) RemoveDay(d Weekday) bool {
	for i, have := range r.Days {
		if have == d {
			r.Days = append(r.Days[:i], r.Days[i+1:]...)
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can hand records across goroutines
// without sharing the day slice.
func (r ScheduleRecord) Clone() ScheduleRecord {
	out := r
	out.Days = append([]Weekday(nil), r.Days...)
	return out
}

// ScheduleMap maps course id to its schedule record.
type ScheduleMap map[string]ScheduleRecord

// Clone deep-copies the map.
func (m ScheduleMap) Clone() ScheduleMap {
	out := make(ScheduleMap, len(m))
	for id, rec := range m {
		out[id] = rec.Clone()
	}
	return out
}

// DayEntry is one course's appearance in a single day column of the grid.
type DayEntry struct {
	CourseID string
	Name     string
	URL      string
}

// ByDay groups the map into per-day entry lists. Entries within a column are
// sorted by course id so repeated renders of the same map produce the same
// order.
func (m ScheduleMap) ByDay() map[Weekday][]DayEntry {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make(map[Weekday][]DayEntry, len(Weekdays))
	for _, d := range Weekdays {
		out[d] = nil
	}
	for _, id := range ids {
		rec := m[id]
		if len(rec.Days) == 0 {
			continue
		}
		entry := DayEntry{CourseID: id, Name: rec.Name, URL: rec.URL}
		if entry.Name == "" {
			entry.Name = DefaultCourseName(id)
		}
		for _, d := range rec.Days {
			if _, ok := out[d]; ok {
				out[d] = append(out[d], entry)
			}
		}
	}
	return out
}

// DefaultCourseName is the label used when a course's display name is unknown.
func DefaultCourseName(id string) string {
	return "קורס " + id
}
