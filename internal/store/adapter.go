package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"
)

// saveBackoff is how long a save waits before retrying while another save of
// the same kind is in flight.
const saveBackoff = 200 * time.Millisecond

// Adapter is the tiered persistence front for the three user records plus the
// read-only settings records. Schedules and view visibility prefer the fast
// local tier and fall back to the synced tier; favorites and the settings
// records live on the synced tier only, so they follow the user across
// machines.
//
// Load never fails: any backend error degrades to the last value seen in this
// process (or the kind's default) and is only logged. Save serializes writes
// per kind: a save arriving while one is in flight waits and retries instead
// of racing it.
type Adapter struct {
	local  Backend
	synced Backend
	logger *slog.Logger

	mu        sync.Mutex
	inFlight  map[Kind]bool
	lastKnown map[Kind]json.RawMessage
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger routes degradation warnings to the given logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Adapter) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewAdapter wires the two tiers. synced may equal local when no synced
// store is configured.
func NewAdapter(local, synced Backend, opts ...Option) *Adapter {
	a := &Adapter{
		local:     local,
		synced:    synced,
		logger:    slog.New(slog.DiscardHandler),
		inFlight:  make(map[Kind]bool),
		lastKnown: make(map[Kind]json.RawMessage),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

type tier struct {
	name    string
	backend Backend
}

// tiersFor returns the backends to try for a kind, in preference order.
func (a *Adapter) tiersFor(kind Kind) []tier {
	switch kind {
	case KindSchedules, KindViewVisibility:
		return []tier{{"local", a.local}, {"synced", a.synced}}
	default:
		return []tier{{"synced", a.synced}}
	}
}

// Load fetches the raw document for kind. A missing record yields the kind's
// default; a failing tier is skipped; when every tier fails the last known
// in-process value is returned. Load never returns an error.
func (a *Adapter) Load(ctx context.Context, kind Kind) json.RawMessage {
	for _, t := range a.tiersFor(kind) {
		raw, err := t.backend.Get(ctx, kind)
		if err == ErrNotFound {
			return a.remember(kind, defaultValue(kind))
		}
		if err != nil {
			a.logger.Warn("record load failed", "kind", string(kind), "tier", t.name, "error", err)
			continue
		}
		return a.remember(kind, raw)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if raw, ok := a.lastKnown[kind]; ok {
		return raw
	}
	return defaultValue(kind)
}

// Save writes the raw document for kind, preferring the kind's first tier and
// falling back to the next on error. Concurrent saves of the same kind are
// serialized: a second call waits saveBackoff and retries until the in-flight
// one finishes. Returns an error only when every tier refused the write.
func (a *Adapter) Save(ctx context.Context, kind Kind, value json.RawMessage) error {
	for {
		a.mu.Lock()
		if !a.inFlight[kind] {
			a.inFlight[kind] = true
			a.lastKnown[kind] = value
			a.mu.Unlock()
			break
		}
		a.mu.Unlock()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(saveBackoff):
		}
	}
	defer func() {
		a.mu.Lock()
		delete(a.inFlight, kind)
		a.mu.Unlock()
	}()

	var lastErr error
	for _, t := range a.tiersFor(kind) {
		if err := t.backend.Set(ctx, kind, value); err != nil {
			a.logger.Warn("record save failed", "kind", string(kind), "tier", t.name, "error", err)
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}

// preferred returns the first tier's backend for a kind.
func (a *Adapter) preferred(kind Kind) Backend {
	return a.tiersFor(kind)[0].backend
}

func (a *Adapter) remember(kind Kind, raw json.RawMessage) json.RawMessage {
	a.mu.Lock()
	a.lastKnown[kind] = raw
	a.mu.Unlock()
	return raw
}

func defaultValue(kind Kind) json.RawMessage {
	switch kind {
	case KindFavorites:
		return json.RawMessage(`[]`)
	case KindSchedules:
		return json.RawMessage(`{}`)
	case KindViewVisibility:
		return json.RawMessage(`false`)
	case KindColumnCount:
		return json.RawMessage(`3`)
	default:
		return json.RawMessage(`null`)
	}
}
