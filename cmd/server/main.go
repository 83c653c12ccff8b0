package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	httpAdapter "github.com/iho/gobudget/internal/adapter/http"
	"github.com/iho/gobudget/internal/adapter/http/dto"
	"github.com/iho/gobudget/internal/adapter/http/handler"
	"github.com/iho/gobudget/internal/adapter/http/middleware"
	memoryRepo "github.com/iho/gobudget/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/gobudget/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/gobudget/internal/adapter/repository/redis"
	sqliteRepo "github.com/iho/gobudget/internal/adapter/repository/sqlite"
	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/infrastructure/config"
	"github.com/iho/gobudget/internal/infrastructure/eventpublisher"
	"github.com/iho/gobudget/internal/infrastructure/format"
	"github.com/iho/gobudget/internal/infrastructure/idgen"
	"github.com/iho/gobudget/internal/infrastructure/logger"
	"github.com/iho/gobudget/internal/infrastructure/metrics"
	"github.com/iho/gobudget/internal/infrastructure/postgres"
	"github.com/iho/gobudget/internal/infrastructure/redis"
	"github.com/iho/gobudget/internal/infrastructure/sqlite"
	"github.com/iho/gobudget/internal/usecase"
)

const (
	limiterCleanupInterval = 10 * time.Minute
	limiterMaxIdle         = time.Hour
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}

	log.Info().Msg("server stopped")
}

// backend is an opened storage backend.
type backend struct {
	kv    usecase.KeyValueStore
	ping  usecase.HealthChecker
	close func()
}

// openStore connects the configured storage backend.
func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*backend, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		kv := memoryRepo.NewKeyValueStore()
		return &backend{kv: kv, ping: kv, close: func() {}}, nil

	case config.BackendSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		kv := sqliteRepo.NewKeyValueStore(db)
		log.Info().Str("path", cfg.SQLitePath).Msg("opened sqlite database")
		return &backend{kv: kv, ping: kv, close: func() { db.Close() }}, nil

	case config.BackendPostgres:
		if err := postgres.RunMigrations(cfg.DatabaseURL, log); err != nil {
			return nil, err
		}
		pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
			DatabaseURL:    cfg.DatabaseURL,
			MaxConns:       cfg.DatabaseMaxConns,
			MinConns:       cfg.DatabaseMinConns,
			ConnectTimeout: cfg.DatabaseTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		kv := postgresRepo.NewKeyValueStore(pool, postgresRepo.NewRetrier(log))
		log.Info().Msg("connected to postgres")
		return &backend{kv: kv, ping: kv, close: pool.Close}, nil

	case config.BackendRedis:
		client, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		kv := redisRepo.NewKeyValueStore(client)
		log.Info().Msg("connected to redis")
		return &backend{kv: kv, ping: kv, close: func() { client.Close() }}, nil

	default:
		return nil, fmt.Errorf("%w: unknown STORE_BACKEND %q", config.ErrInvalidConfig, cfg.StoreBackend)
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	currency, err := format.NewCurrency(cfg.Locale, cfg.Currency)
	if err != nil {
		return err
	}

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewWithRegisterer(reg)

	// Storage
	store, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer store.close()

	// Change notifications
	bus := eventpublisher.NewBus(eventpublisher.Config{Logger: log, Recorder: m})

	repo := usecase.NewTransactionStore(usecase.StoreConfig{
		KV:        m.InstrumentStore(store.kv, cfg.StoreBackend),
		Key:       cfg.StoreKey,
		Publisher: bus,
		Logger:    log,
		Metrics:   m,
	})

	// Use cases
	transactionUC := usecase.NewTransactionUseCase(repo, idgen.NewULIDGenerator(), loc, m)
	reportCache := gocache.New(cfg.ReportCacheTTL, 2*cfg.ReportCacheTTL)
	reportUC := usecase.NewReportUseCase(repo, currency, loc, reportCache, cfg.ReportCacheTTL)

	bus.Subscribe("reports", reportUC)
	bus.Subscribe("log", eventpublisher.NewLogPublisher(log))

	var changes *redisRepo.ChangePublisher
	if cfg.ChangesChannel != "" {
		client, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connect to redis for change notifications: %w", err)
		}
		defer client.Close()

		changes = redisRepo.NewChangePublisher(client, cfg.ChangesChannel)
		bus.Subscribe("redis", changes)
	}

	// HTTP
	presenter := dto.Presenter{Currency: currency, Location: loc}
	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m.RateLimited)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		TransactionHandler: handler.NewTransactionHandler(transactionUC, presenter),
		ReportHandler:      handler.NewReportHandler(reportUC, presenter),
		HealthHandler:      handler.NewHealthHandler(cfg.StoreBackend, store.ping),
		Logger:             log,
		RateLimiter:        limiter,
		HTTPMetrics:        middleware.NewHTTPMetrics(reg),
		MetricsHandler:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().
			Str("port", cfg.HTTPPort).
			Str("backend", cfg.StoreBackend).
			Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		ticker := time.NewTicker(limiterCleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				limiter.CleanupLimiters(limiterMaxIdle)
			}
		}
	})

	if changes != nil {
		// Other instances writing the same store announce changes here.
		g.Go(func() error {
			err := changes.Listen(gctx, func(_ context.Context, event domain.TransactionsChangedEvent) error {
				log.Debug().Str("event_type", event.Type).Msg("remote change received")
				reportUC.Invalidate()
				return nil
			})
			if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, goredis.ErrClosed) {
				return fmt.Errorf("change listener: %w", err)
			}
			return nil
		})
	}

	return g.Wait()
}
