package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adanyl0v/go-task-manager/internal/config"
	"github.com/adanyl0v/go-task-manager/internal/repository"
	"github.com/adanyl0v/go-task-manager/internal/repository/postgres"
	"github.com/adanyl0v/go-task-manager/internal/repository/sqlite"
)

var globalStore repository.Store

func MustOpenStorage() {
	cfg := config.Global()

	var err error
	switch cfg.StorageDriver {
	case config.StorageDriverPostgres:
		globalStore, err = openPostgres(cfg.Postgres)
	case config.StorageDriverSQLite:
		globalStore, err = sqlite.Open(context.Background(), cfg.SQLite.Path)
	default:
		err = fmt.Errorf("unknown storage driver: %s", cfg.StorageDriver)
	}
	if err != nil {
		globalLogger.Error().
			Err(err).
			Str("driver", cfg.StorageDriver).
			Msg("failed to open storage")
		panic(err)
	}

	globalLogger.Info().
		Str("driver", cfg.StorageDriver).
		Msg("opened storage")
}

func openPostgres(cfg config.PostgresConfig) (repository.Store, error) {
	connURL := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Username, cfg.Password, cfg.Host,
		cfg.Port, cfg.Database, cfg.SSLMode)

	poolCfg, err := pgxpool.ParseConfig(connURL)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.PingTimeout)
	defer cancel()

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	globalLogger.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Msg("connected to postgres")

	store, err := postgres.New(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return store, nil
}

func CloseStorage() {
	err := globalStore.Close()
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to close storage")
		return
	}
	globalLogger.Info().Msg("closed storage")
}
