package store

import (
	"context"
	"encoding/json"

	"github.com/jct-tools/moodleboard/internal/domain"
)

// LoadFavorites returns the persisted favorite set, empty on any failure.
func (a *Adapter) LoadFavorites(ctx context.Context) domain.FavoriteSet {
	raw := a.Load(ctx, KindFavorites)
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		a.logger.Warn("malformed favorites record", "error", err)
		return domain.FavoriteSet{}
	}
	return domain.NewFavoriteSet(ids)
}

// SaveFavorites persists the favorite set as a sorted id array.
func (a *Adapter) SaveFavorites(ctx context.Context, favs domain.FavoriteSet) error {
	raw, err := json.Marshal(favs.IDs())
	if err != nil {
		return err
	}
	return a.Save(ctx, KindFavorites, raw)
}

// LoadSchedules returns the persisted schedule map, running the legacy-shape
// migration. When migration changes the document it is written back
// immediately so the old shape never round-trips again; on the preferred tier
// the read-migrate-write happens inside one transaction. Failures degrade to
// an empty map and are logged, never surfaced.
func (a *Adapter) LoadSchedules(ctx context.Context) domain.ScheduleMap {
	if up, ok := a.preferred(KindSchedules).(Updater); ok {
		var m domain.ScheduleMap
		err := up.Update(ctx, KindSchedules, func(old json.RawMessage) (json.RawMessage, bool, error) {
			var changed bool
			var err error
			m, changed, err = MigrateSchedules(old)
			if err != nil {
				return nil, false, err
			}
			raw, err := EncodeSchedules(m)
			return raw, changed, err
		})
		if err == nil {
			if raw, encErr := EncodeSchedules(m); encErr == nil {
				a.remember(KindSchedules, raw)
			}
			return m
		}
		a.logger.Warn("schedules load failed on preferred tier", "error", err)
	}

	raw := a.Load(ctx, KindSchedules)
	m, changed, err := MigrateSchedules(raw)
	if err != nil {
		a.logger.Warn("malformed schedules record", "error", err)
		return domain.ScheduleMap{}
	}
	if changed {
		if migrated, err := EncodeSchedules(m); err == nil {
			if err := a.Save(ctx, KindSchedules, migrated); err != nil {
				a.logger.Warn("migrated schedules save failed", "error", err)
			}
		}
	}
	return m
}

// SaveSchedules persists the schedule map.
func (a *Adapter) SaveSchedules(ctx context.Context, m domain.ScheduleMap) error {
	raw, err := EncodeSchedules(m)
	if err != nil {
		return err
	}
	return a.Save(ctx, KindSchedules, raw)
}

// LoadViewVisible returns whether the weekly grid panel was left expanded.
func (a *Adapter) LoadViewVisible(ctx context.Context) bool {
	var visible bool
	if err := json.Unmarshal(a.Load(ctx, KindViewVisibility), &visible); err != nil {
		a.logger.Warn("malformed view-visibility record", "error", err)
		return false
	}
	return visible
}

// SaveViewVisible persists the grid panel's expanded state.
func (a *Adapter) SaveViewVisible(ctx context.Context, visible bool) error {
	raw, err := json.Marshal(visible)
	if err != nil {
		return err
	}
	return a.Save(ctx, KindViewVisibility, raw)
}

// LoadPalette returns the settings surface's accent palette, or nil when none
// has been saved; a nil palette resolves every card to the default accent.
func (a *Adapter) LoadPalette(ctx context.Context) domain.Palette {
	var p domain.Palette
	if err := json.Unmarshal(a.Load(ctx, KindPalette), &p); err != nil {
		a.logger.Warn("malformed palette record", "error", err)
		return nil
	}
	return p
}

// LoadColumnCount returns the settings surface's column preference, clamped
// to the 3..6 range the layout supports.
func (a *Adapter) LoadColumnCount(ctx context.Context) int {
	count := 3
	if err := json.Unmarshal(a.Load(ctx, KindColumnCount), &count); err != nil {
		a.logger.Warn("malformed column-count record", "error", err)
		return 3
	}
	if count < 3 {
		return 3
	}
	if count > 6 {
		return 6
	}
	return count
}
