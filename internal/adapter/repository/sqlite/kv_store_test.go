package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gobudget/internal/domain"
	sqlitedb "github.com/iho/gobudget/internal/infrastructure/sqlite"
)

func newTestStore(t *testing.T) *KeyValueStore {
	t.Helper()
	db, err := sqlitedb.Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewKeyValueStore(db)
}

func TestKeyValueStoreMissingKey(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), "txns")
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)
}

func TestKeyValueStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "txns", []byte(`[{"id":"1"}]`)))
	got, err := store.Get(ctx, "txns")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1"}]`, string(got))

	require.NoError(t, store.Set(ctx, "txns", []byte(`[]`)))
	got, err = store.Get(ctx, "txns")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))
}

func TestKeyValueStoreKeysAreIndependent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "a", []byte("1")))
	require.NoError(t, store.Set(ctx, "b", []byte("2")))

	got, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "1", string(got))
}

func TestKeyValueStorePing(t *testing.T) {
	store := newTestStore(t)
	assert.NoError(t, store.Ping(context.Background()))
}
