package store

import (
	"encoding/json"
	"fmt"

	"github.com/jct-tools/moodleboard/internal/domain"
)

// MigrateSchedules decodes a persisted courseSchedules document, upgrading
// legacy entries in place:
//
//   - an entry that is a bare array of day strings becomes a full record with
//     a default display name
//   - saturday assignments are stripped from every record
//   - records left with no days are deleted
//
// changed reports whether the serialized form differs from what was loaded,
// so the caller knows to write the upgraded document back. Running the
// migration on already-migrated data reports no change.
func MigrateSchedules(raw json.RawMessage) (domain.ScheduleMap, bool, error) {
	out := make(domain.ScheduleMap)
	if len(raw) == 0 {
		return out, false, nil
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, false, fmt.Errorf("decoding schedules: %w", err)
	}

	changed := false
	for id, entry := range entries {
		var rec domain.ScheduleRecord
		var legacyDays []string
		if err := json.Unmarshal(entry, &legacyDays); err == nil {
			// Old format: the course mapped straight to its day list.
			rec = domain.ScheduleRecord{Name: domain.DefaultCourseName(id)}
			changed = true
			rec.Days, _ = filterDays(legacyDays)
		} else {
			var stored struct {
				Name string   `json:"name"`
				Days []string `json:"days"`
				URL  string   `json:"url"`
			}
			if err := json.Unmarshal(entry, &stored); err != nil {
				return nil, false, fmt.Errorf("decoding schedule for course %s: %w", id, err)
			}
			rec = domain.ScheduleRecord{Name: stored.Name, URL: stored.URL}
			var dropped bool
			rec.Days, dropped = filterDays(stored.Days)
			if dropped {
				changed = true
			}
		}
		if len(rec.Days) == 0 {
			// No empty-day records: the course is removed instead.
			changed = true
			continue
		}
		out[id] = rec
	}
	return out, changed, nil
}

// filterDays keeps only valid assignable days, reporting whether anything
// (saturday or garbage) was dropped.
func filterDays(days []string) ([]domain.Weekday, bool) {
	out := make([]domain.Weekday, 0, len(days))
	dropped := false
	for _, s := range days {
		d, ok := domain.ParseWeekday(s)
		if !ok {
			dropped = true
			continue
		}
		out = append(out, d)
	}
	return out, dropped
}

// EncodeSchedules serializes a schedule map for persistence.
func EncodeSchedules(m domain.ScheduleMap) (json.RawMessage, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encoding schedules: %w", err)
	}
	return raw, nil
}
