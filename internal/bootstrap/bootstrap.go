// Package bootstrap opens the storage substrate and optional Redis connection
// selected by configuration. It is shared by the server and worker binaries.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/eduportal/backend/config"
	"github.com/eduportal/backend/pkg/database"
	"github.com/eduportal/backend/pkg/kv"
	"github.com/eduportal/backend/pkg/redis"
)

// Resources holds the opened connections.
type Resources struct {
	KV    kv.Store
	Redis *redis.Client // nil when Redis is not reachable and not required
	Pool  *pgxpool.Pool // nil unless the postgres driver is selected
}

// Open connects to the substrate named by cfg.Storage.Driver. Redis is required for the
// redis driver; for the other drivers it is optional and only feeds the change bridge.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Resources, error) {
	res := &Resources{}
	redisOpts := redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB}

	switch cfg.Storage.Driver {
	case config.DriverRedis:
		rdb, err := redis.NewClient(ctx, redisOpts, logger)
		if err != nil {
			return nil, fmt.Errorf("redis substrate: %w", err)
		}
		res.Redis = rdb
		res.KV = kv.NewRedis(rdb.Client, cfg.Storage.KeyPrefix)

	case config.DriverPostgres:
		pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
		if err != nil {
			return nil, fmt.Errorf("postgres substrate: %w", err)
		}
		if err := database.Migrate(ctx, pool, logger); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		res.Pool = pool
		res.KV = kv.NewPostgres(pool)

	default:
		res.KV = kv.NewMemory()
	}

	if res.Redis == nil {
		rdb, err := redis.NewClient(ctx, redisOpts, logger)
		if err != nil {
			logger.Warn("redis unavailable, change events stay local", zap.Error(err))
		} else {
			res.Redis = rdb
		}
	}

	logger.Info("storage ready", zap.String("driver", cfg.Storage.Driver))
	return res, nil
}

// Close releases every opened connection.
func (r *Resources) Close() {
	if r.Redis != nil {
		_ = r.Redis.Close()
	}
	if r.Pool != nil {
		r.Pool.Close()
	}
}
