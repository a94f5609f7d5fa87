package store

import (
	"context"
	"encoding/json"
	"errors"
)

// Kind names one logical persisted record. The values double as storage keys
// and match the extension-storage keys the records originally lived under.
type Kind string

const (
	KindFavorites      Kind = "favoriteCourseIds"
	KindSchedules      Kind = "courseSchedules"
	KindViewVisibility Kind = "scheduleViewVisible"

	// Written by the settings surface; this package only reads them.
	KindPalette     Kind = "paletteByYearHeb"
	KindColumnCount Kind = "columnCount"
)

// ErrNotFound is returned by a Backend when a record kind has never been
// written. The adapter substitutes the kind's default value.
var ErrNotFound = errors.New("record not found")

// Backend is one storage tier holding raw JSON documents keyed by kind.
type Backend interface {
	Get(ctx context.Context, kind Kind) (json.RawMessage, error)
	Set(ctx context.Context, kind Kind, value json.RawMessage) error
}

// Updater is implemented by backends that can apply a read-modify-write
// atomically. The adapter uses it for the migration write-back so a
// concurrent save cannot interleave with the upgrade.
type Updater interface {
	Update(ctx context.Context, kind Kind, fn func(old json.RawMessage) (json.RawMessage, bool, error)) error
}
