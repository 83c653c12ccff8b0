// Package sqlite stores the transaction document in a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/iho/gobudget/internal/domain"
)

const kvTable = "kv_store"

const upsertSuffix = "ON CONFLICT(store_key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at"

// KeyValueStore implements usecase.KeyValueStore on a kv_store table.
type KeyValueStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewKeyValueStore creates a KeyValueStore over an opened, migrated database.
func NewKeyValueStore(db *sql.DB) *KeyValueStore {
	return &KeyValueStore{db: db, now: time.Now}
}

// Get returns the payload stored under key.
func (s *KeyValueStore) Get(ctx context.Context, key string) ([]byte, error) {
	query, args, err := squirrel.Select("payload").
		From(kvTable).
		Where(squirrel.Eq{"store_key": key}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var payload string
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrKeyNotFound
		}
		return nil, fmt.Errorf("select %q: %w", key, err)
	}
	return []byte(payload), nil
}

// Set upserts value under key.
func (s *KeyValueStore) Set(ctx context.Context, key string, value []byte) error {
	query, args, err := squirrel.Insert(kvTable).
		Columns("store_key", "payload", "updated_at").
		Values(key, string(value), s.now().UTC().Format(time.RFC3339Nano)).
		Suffix(upsertSuffix).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert %q: %w", key, err)
	}
	return nil
}

// Ping checks the database handle.
func (s *KeyValueStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
