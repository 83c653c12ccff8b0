// Package postgres stores the transaction document in a PostgreSQL table.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/iho/gobudget/internal/domain"
)

const kvTable = "kv_store"

const upsertSuffix = "ON CONFLICT (store_key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at"

type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// KeyValueStore implements usecase.KeyValueStore on the kv_store table.
type KeyValueStore struct {
	db      pgxQuerier
	retrier *Retrier
	now     func() time.Time
}

// NewKeyValueStore creates a KeyValueStore. db is usually a *pgxpool.Pool.
func NewKeyValueStore(db pgxQuerier, retrier *Retrier) *KeyValueStore {
	return &KeyValueStore{
		db:      db,
		retrier: retrier,
		now:     time.Now,
	}
}

// Get returns the payload stored under key.
func (s *KeyValueStore) Get(ctx context.Context, key string) ([]byte, error) {
	query, args, err := squirrel.Select("payload").
		From(kvTable).
		Where(squirrel.Eq{"store_key": key}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var payload string
	if err := s.db.QueryRow(ctx, query, args...).Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
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
		Values(key, string(value), s.now().UTC()).
		Suffix(upsertSuffix).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	return s.retrier.Retry(ctx, func() error {
		if _, err := s.db.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert %q: %w", key, err)
		}
		return nil
	})
}

// Ping checks database connectivity.
func (s *KeyValueStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
