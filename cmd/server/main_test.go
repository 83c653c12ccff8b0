package main

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/infrastructure/config"
)

func TestOpenStoreBackends(t *testing.T) {
	ctx := context.Background()

	for _, name := range []string{config.BackendMemory, config.BackendSQLite} {
		name := name
		t.Run(name, func(t *testing.T) {
			cfg := &config.Config{
				StoreBackend: name,
				SQLitePath:   filepath.Join(t.TempDir(), "budget.db"),
			}

			store, err := openStore(ctx, cfg, zerolog.Nop())
			if err != nil {
				t.Fatalf("openStore(%s) failed: %v", name, err)
			}
			defer store.close()

			if _, err := store.kv.Get(ctx, "txns"); !errors.Is(err, domain.ErrKeyNotFound) {
				t.Fatalf("expected empty store, got %v", err)
			}
			if err := store.kv.Set(ctx, "txns", []byte("[]")); err != nil {
				t.Fatalf("set failed: %v", err)
			}
			if err := store.ping.Ping(ctx); err != nil {
				t.Fatalf("ping failed: %v", err)
			}
		})
	}
}

func TestOpenStoreUnknownBackend(t *testing.T) {
	_, err := openStore(context.Background(), &config.Config{StoreBackend: "sheets"}, zerolog.Nop())
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}
