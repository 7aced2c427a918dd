// Package bootstrap assembles the lead store and its collaborators from configuration.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/intent-score/internal/config"
	"github.com/spec-kit/intent-score/internal/events"
	"github.com/spec-kit/intent-score/internal/observability"
	"github.com/spec-kit/intent-score/internal/persistence"
	"github.com/spec-kit/intent-score/internal/repository"
	"github.com/spec-kit/intent-score/internal/scoring"
	"github.com/spec-kit/intent-score/internal/service"
	"github.com/spec-kit/intent-score/internal/worker"
)

// Runtime holds everything the HTTP server and the CLI share.
type Runtime struct {
	Config     *config.Config
	Logger     *zap.Logger
	Metrics    *observability.Metrics
	Postgres   *persistence.Postgres
	Redis      *persistence.Redis
	Engine     *scoring.Engine
	Client     *scoring.Client
	Dispatcher events.Dispatcher
	Store      *service.LeadStore
}

// New opens the configured storage backend and loads the lead store.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Runtime, error) {
	rt := &Runtime{
		Config:     cfg,
		Logger:     logger,
		Metrics:    observability.NewMetrics(),
		Engine:     scoring.NewEngine(nil),
		Dispatcher: events.NewInMemoryDispatcher(),
	}

	slots, err := rt.openSlots(ctx)
	if err != nil {
		rt.Close()
		return nil, err
	}

	rt.Client = scoring.NewClient(scoring.ClientConfig{
		BaseURL: cfg.Scoring.BaseURL,
		Timeout: cfg.Scoring.Timeout(),
	}, rt.Engine, logger, scoring.WithMetrics(rt.Metrics))

	worker.StartAuditWorker(service.NewAuditService(rt.Dispatcher, logger))

	rt.Store = service.NewLeadStore(ctx, service.LeadStoreDependencies{
		Scorer:     rt.Client,
		Repository: repository.NewLeadRepository(slots, cfg.Storage.Slot),
		Dispatcher: rt.Dispatcher,
		Logger:     logger,
		Metrics:    rt.Metrics,
	})

	logger.Info("lead store ready",
		zap.String("driver", cfg.Storage.Driver),
		zap.String("slot", cfg.Storage.Slot),
		zap.Int("leads", rt.Store.State().Count),
	)
	return rt, nil
}

func (rt *Runtime) openSlots(ctx context.Context) (repository.SlotRepository, error) {
	cfg := rt.Config
	switch cfg.Storage.Driver {
	case config.StorageDriverRedis:
		rt.Redis = persistence.NewRedis(cfg.Redis, rt.Logger)
		return repository.NewRedisSlotRepository(rt.Redis.Client), nil

	case config.StorageDriverPostgres:
		if cfg.Postgres.DSN == "" {
			return nil, errors.New("STORAGE_DRIVER=postgres requires POSTGRES_DSN")
		}
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, rt.Logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		rt.Postgres = pg
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, rt.Logger); err != nil {
				return nil, fmt.Errorf("run migrations: %w", err)
			}
		}
		return repository.NewPostgresSlotRepository(pg.PoolHandle()), nil

	default:
		return repository.NewMemorySlotRepository(), nil
	}
}

// Close releases storage connections.
func (rt *Runtime) Close() {
	rt.Postgres.Close()
	rt.Redis.Close()
}
