// Package app wires configuration into stores, caches, the search engine and
// the orchestrator shared by the rectify CLI and the HTTP server.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"rectification-lab/internal/config"
	"rectification-lab/internal/domain"
	"rectification-lab/internal/ephemeris"
	"rectification-lab/internal/events"
	"rectification-lab/internal/lookup"
	"rectification-lab/internal/orchestrator"
	"rectification-lab/internal/search"
	"rectification-lab/internal/storage"
	chstore "rectification-lab/internal/storage/clickhouse"
	"rectification-lab/internal/storage/memory"
	"rectification-lab/internal/storage/migrations"
	pgstore "rectification-lab/internal/storage/postgres"
)

// App holds the wired components.
type App struct {
	Config       *config.Config
	Provider     ephemeris.Provider
	Engine       *search.Engine
	Orchestrator *orchestrator.Orchestrator
	Runs         storage.RunStore
	Publisher    events.Publisher

	closers []func()
}

// Options overrides parts of the wiring.
type Options struct {
	Provider ephemeris.Provider // default: ephemeris.NewAnalytic()
	Publish  bool               // connect to NATS when nats.url is set
}

type stores struct {
	positions storage.PositionStore
	solarDays storage.SolarDayStore
	runs      storage.RunStore
}

// Build wires an App from cfg. Close must be called to release connections.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts Options) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Provider == nil {
		opts.Provider = ephemeris.NewAnalytic()
	}

	a := &App{Config: cfg, Provider: opts.Provider}

	st, err := a.createStores(ctx, cfg.Storage, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Runs = st.runs

	a.Publisher = events.Noop{}
	if opts.Publish && cfg.NATS.URL != "" {
		pub, err := events.NewNATSPublisher(events.NATSConfig{
			URL:            cfg.NATS.URL,
			Subject:        cfg.NATS.Subject,
			MaxReconnects:  cfg.NATS.MaxReconnects,
			ReconnectWait:  cfg.NATS.ReconnectWait,
			ConnectTimeout: cfg.NATS.ConnectTimeout,
		}, logger)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.Publisher = pub
		a.closers = append(a.closers, func() { pub.Close() })
	}

	a.Engine = search.NewEngine(search.Options{
		Provider: opts.Provider,
		Positions: lookup.NewPositionCache(opts.Provider, lookup.PositionCacheOptions{
			Bucket:     cfg.Search.CacheBucket,
			MaxEntries: cfg.Search.CacheSize,
			Store:      st.positions,
			Logger:     logger,
		}),
		SolarDays:      lookup.NewSolarDays(opts.Provider, st.solarDays, logger),
		Workers:        cfg.Search.Workers,
		MaxRejections:  cfg.Search.MaxRejections,
		RefineCap:      cfg.Search.RefineCap,
		NearMissMargin: cfg.Search.NearMissMargin,
		Logger:         logger,
	})

	a.Orchestrator = orchestrator.New(orchestrator.Options{
		Engine:    a.Engine,
		Runs:      a.Runs,
		Publisher: a.Publisher,
		Logger:    logger,
	})

	return a, nil
}

func (a *App) createStores(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (stores, error) {
	if cfg.Backend != config.BackendSQL {
		return stores{
			positions: memory.NewPositionStore(),
			solarDays: memory.NewSolarDayStore(),
			runs:      memory.NewRunStore(),
		}, nil
	}

	// PostgreSQL (solar days + run summaries)
	pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
	if err != nil {
		return stores{}, fmt.Errorf("connect to postgres: %w", err)
	}
	a.closers = append(a.closers, pool.Close)
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		return stores{}, fmt.Errorf("postgres migrations: %w", err)
	}

	st := stores{
		solarDays: pgstore.NewSolarDayStore(pool),
		runs:      pgstore.NewRunStore(pool),
	}

	// ClickHouse (position snapshots) is optional
	if cfg.ClickHouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, cfg.ClickHouseDSN)
		if err != nil {
			return stores{}, fmt.Errorf("clickhouse migrations: %w", err)
		}
		a.closers = append(a.closers, func() { conn.Close() })
		st.positions = chstore.NewPositionStore(conn)
	} else {
		logger.Info("clickhouse dsn not set, position snapshots stay in memory")
	}

	return st, nil
}

// ApplyDefaults fills request fields the caller left unset from the search config.
func (a *App) ApplyDefaults(req *domain.SearchRequest) {
	if req.Step == 0 {
		req.Step = a.Config.Search.Step
	}
	if req.Tolerance == nil && a.Config.Search.Tolerance != nil {
		tol := *a.Config.Search.Tolerance
		req.Tolerance = &tol
	}
	if a.Config.Search.Strict {
		req.StrictMode = true
	}
}

// Close releases connections in reverse order of creation.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
