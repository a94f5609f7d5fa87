// Package schedule owns the in-memory schedule map, favorite set, and grid
// visibility flag, and their persistence through the store adapter. It is the
// only writer of the persisted schedule document.
package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/jct-tools/moodleboard/internal/domain"
	"github.com/jct-tools/moodleboard/internal/store"
)

// Service is the state machine over the persisted user records. All
// operations are idempotent and preserve the no-empty-day-record invariant:
// removing the last day of a course removes the course.
//
// Persistence is optimistic: the in-memory state is mutated first and a
// failed write is surfaced to the caller without rolling memory back, so the
// UI keeps reflecting intent even when the persisted copy lags. The store
// adapter's coalescing rule serializes the writes themselves.
type Service struct {
	store    *store.Adapter
	observer OpObserver

	schedules domain.ScheduleMap
	favorites domain.FavoriteSet
	viewOpen  bool
}

// NewService creates a Service over the given store adapter.
func NewService(adapter *store.Adapter, observers ...OpObserver) *Service {
	return &Service{
		store:     adapter,
		observer:  opObserverOrNoop(observers),
		schedules: domain.ScheduleMap{},
		favorites: domain.FavoriteSet{},
	}
}

// Load pulls all three records into memory. It never fails; the adapter
// degrades to defaults on storage errors.
func (s *Service) Load(ctx context.Context) {
	s.schedules = s.store.LoadSchedules(ctx)
	s.favorites = s.store.LoadFavorites(ctx)
	s.viewOpen = s.store.LoadViewVisible(ctx)
}

// Schedules returns a snapshot of the schedule map.
func (s *Service) Schedules() domain.ScheduleMap {
	return s.schedules.Clone()
}

// Record returns the schedule record for a course, if one exists.
func (s *Service) Record(courseID string) (domain.ScheduleRecord, bool) {
	rec, ok := s.schedules[courseID]
	return rec.Clone(), ok
}

// Favorites returns a snapshot of the favorite set.
func (s *Service) Favorites() domain.FavoriteSet {
	return s.favorites.Clone()
}

// IsFavorite reports whether the course is starred.
func (s *Service) IsFavorite(courseID string) bool {
	return s.favorites.Has(courseID)
}

// ToggleFavorite flips a course's favorite state and persists the set.
// Returns the new state; callers get the persistence error but the in-memory
// toggle stands either way.
func (s *Service) ToggleFavorite(ctx context.Context, courseID string) (bool, error) {
	if courseID == "" {
		return false, nil
	}
	on := s.favorites.Toggle(courseID)
	err := s.observe(ctx, "toggle_favorite", map[string]any{"course": courseID, "on": on}, func() error {
		return s.store.SaveFavorites(ctx, s.favorites)
	})
	return on, err
}

// SetDays replaces a course's full day assignment. An empty day set deletes
// the record instead of storing it.
func (s *Service) SetDays(ctx context.Context, courseID, name string, days []domain.Weekday, url string) error {
	for _, d := range days {
		if !d.Valid() {
			return fmt.Errorf("invalid day %q", d)
		}
	}
	return s.observe(ctx, "set_days", map[string]any{"course": courseID, "days": len(days)}, func() error {
		if len(days) == 0 {
			delete(s.schedules, courseID)
		} else {
			s.schedules[courseID] = domain.ScheduleRecord{
				Name: name,
				Days: append([]domain.Weekday(nil), days...),
				URL:  url,
			}
		}
		return s.store.SaveSchedules(ctx, s.schedules)
	})
}

// RemoveCourse deletes a course's record unconditionally.
func (s *Service) RemoveCourse(ctx context.Context, courseID string) error {
	return s.observe(ctx, "remove_course", map[string]any{"course": courseID}, func() error {
		delete(s.schedules, courseID)
		return s.store.SaveSchedules(ctx, s.schedules)
	})
}

// AddDay assigns a course to a day, creating the record on first assignment.
// Adding a day the course already has is a no-op, not an error.
func (s *Service) AddDay(ctx context.Context, courseID string, day domain.Weekday, fallbackName, fallbackURL string) error {
	if !day.Valid() {
		return fmt.Errorf("invalid day %q", day)
	}
	return s.observe(ctx, "add_day", map[string]any{"course": courseID, "day": string(day)}, func() error {
		rec, ok := s.schedules[courseID]
		if !ok {
			name := fallbackName
			if name == "" {
				name = domain.DefaultCourseName(courseID)
			}
			rec = domain.ScheduleRecord{Name: name, URL: fallbackURL}
		}
		if !rec.AddDay(day) {
			return nil
		}
		s.schedules[courseID] = rec
		return s.store.SaveSchedules(ctx, s.schedules)
	})
}

// RemoveDay removes one day assignment; the record goes with its last day.
func (s *Service) RemoveDay(ctx context.Context, courseID string, day domain.Weekday) error {
	return s.observe(ctx, "remove_day", map[string]any{"course": courseID, "day": string(day)}, func() error {
		rec, ok := s.schedules[courseID]
		if !ok {
			return nil
		}
		if !rec.RemoveDay(day) {
			return nil
		}
		if len(rec.Days) == 0 {
			delete(s.schedules, courseID)
		} else {
			s.schedules[courseID] = rec
		}
		return s.store.SaveSchedules(ctx, s.schedules)
	})
}

// ClearAll replaces the schedule map with an empty one. The operation itself
// is unconditional; the double confirmation lives at the UI boundary.
func (s *Service) ClearAll(ctx context.Context) error {
	return s.observe(ctx, "clear_all", nil, func() error {
		s.schedules = domain.ScheduleMap{}
		return s.store.SaveSchedules(ctx, s.schedules)
	})
}

// ViewOpen reports whether the weekly grid panel is expanded.
func (s *Service) ViewOpen() bool {
	return s.viewOpen
}

// SetViewOpen persists the grid panel's expanded state.
func (s *Service) SetViewOpen(ctx context.Context, open bool) error {
	s.viewOpen = open
	return s.store.SaveViewVisible(ctx, open)
}

func (s *Service) observe(ctx context.Context, name string, fields map[string]any, fn func() error) error {
	start := time.Now()
	err := fn()
	s.observer.ObserveOp(ctx, OpEvent{
		Name:      name,
		Duration:  time.Since(start),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
		StartedAt: start,
	})
	return err
}
