package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jct-tools/moodleboard/internal/db"
)

// SQLiteBackend implements a storage tier over the records table.
type SQLiteBackend struct {
	db  db.DBTX
	uow db.UnitOfWork
}

// NewSQLiteBackend creates a backend over the given connection. uow may be
// nil, in which case Update degrades to a non-transactional get+set.
func NewSQLiteBackend(conn db.DBTX, uow db.UnitOfWork) *SQLiteBackend {
	return &SQLiteBackend{db: conn, uow: uow}
}

func (b *SQLiteBackend) Get(ctx context.Context, kind Kind) (json.RawMessage, error) {
	return getRecord(ctx, b.db, kind)
}

func (b *SQLiteBackend) Set(ctx context.Context, kind Kind, value json.RawMessage) error {
	return setRecord(ctx, b.db, kind, value)
}

// Update applies fn to the current value inside a transaction. fn returns the
// new value and whether anything changed; an unchanged result skips the write.
func (b *SQLiteBackend) Update(ctx context.Context, kind Kind, fn func(old json.RawMessage) (json.RawMessage, bool, error)) error {
	if b.uow == nil {
		old, err := b.Get(ctx, kind)
		if err != nil && err != ErrNotFound {
			return err
		}
		next, changed, err := fn(old)
		if err != nil || !changed {
			return err
		}
		return b.Set(ctx, kind, next)
	}
	return b.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		old, err := getRecord(ctx, tx, kind)
		if err != nil && err != ErrNotFound {
			return err
		}
		next, changed, err := fn(old)
		if err != nil || !changed {
			return err
		}
		return setRecord(ctx, tx, kind, next)
	})
}

func getRecord(ctx context.Context, conn db.DBTX, kind Kind) (json.RawMessage, error) {
	row := conn.QueryRowContext(ctx, `SELECT value FROM records WHERE kind = ?`, string(kind))
	var value string
	if err := row.Scan(&value); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scanning record %s: %w", kind, err)
	}
	return json.RawMessage(value), nil
}

func setRecord(ctx context.Context, conn db.DBTX, kind Kind, value json.RawMessage) error {
	_, err := conn.ExecContext(ctx,
		`INSERT OR REPLACE INTO records (kind, value, updated_at) VALUES (?, ?, ?)`,
		string(kind), string(value), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("writing record %s: %w", kind, err)
	}
	return nil
}
