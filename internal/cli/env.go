package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"cgf-quiz/internal/app"
	"cgf-quiz/internal/config"
	"cgf-quiz/internal/infra/memory"
	pgstore "cgf-quiz/internal/infra/postgres"
	redisstore "cgf-quiz/internal/infra/redis"
	"cgf-quiz/internal/infra/sqlite"
	"cgf-quiz/internal/logging"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
)

// env is everything a command needs: config, logger and an opened controller.
type env struct {
	cfg    config.Config
	logger *slog.Logger
	ctrl   *app.Controller
	close  func() error
}

func loadEnv(ctx context.Context, configPath string) (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	ctrl := app.NewController(store, logger)
	ctrl.SetHistoryLimit(cfg.History.Limit)
	if err := ctrl.Open(ctx); err != nil {
		closeStore()
		return nil, err
	}
	logger.Info("storage opened", "driver", cfg.Storage.Driver)
	return &env{cfg: cfg, logger: logger, ctrl: ctrl, close: closeStore}, nil
}

// openStore builds the configured record store. Postgres is migrated first.
func openStore(ctx context.Context, cfg config.Config) (app.Store, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		return memory.NewStore(), noop, nil
	case config.DriverSQLite:
		s, err := sqlite.Open(cfg.Storage.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case config.DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		return redisstore.NewStore(client, cfg.Redis.Prefix), client.Close, nil
	case config.DriverPostgres:
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return nil, nil, err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, nil, err
		}
		return pgstore.NewStore(pool), func() error { pool.Close(); return nil }, nil
	default:
		return nil, nil, errors.New("unknown storage driver " + cfg.Storage.Driver)
	}
}

// outcomeErr turns a failed Outcome into an error and logs any warning.
func (e *env) outcomeErr(out app.Outcome) error {
	if out.Warning != "" {
		e.logger.Warn(out.Warning, "action", out.Action)
	}
	if !out.OK {
		return fmt.Errorf("%s: %s", out.Failure.Kind, out.Failure.Message)
	}
	return nil
}
