package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	rediscache "sessionauth/internal/auth/adapters/cache"
	"sessionauth/internal/auth/adapters/memory"
	"sessionauth/internal/auth/adapters/postgres"
	"sessionauth/internal/auth/config"
	"sessionauth/internal/auth/db"
	"sessionauth/internal/auth/ports/cache"
	"sessionauth/internal/auth/ports/repositories"
	"sessionauth/pkg/db/redis"
	"sessionauth/pkg/logger"
	"sessionauth/pkg/shutdown"
)

// Константы для сообщений о хранилищах.
const (
	LogUsingMemoryUsers    = "using in-memory user directory"
	LogUsingPostgresUsers  = "using PostgreSQL user directory"
	LogUsingMemorySessions = "using in-memory session store"
	LogUsingRedisSessions  = "using Redis session store"
	LogClosingDB           = "closing database connections"
	LogClosingSessions     = "closing session store"

	ErrInitDB           = "failed to initialize database"
	ErrInitRedis        = "failed to initialize Redis"
	ErrUnsupportedStore = "unsupported storage driver"
)

// backend - открытое хранилище с проверкой готовности и хуком закрытия.
type backend struct {
	ready func(ctx context.Context) error
	close shutdown.Hook
}

func alwaysReady(context.Context) error { return nil }

// openUsers открывает каталог пользователей согласно AUTH_STORAGE_DRIVER.
func openUsers(ctx context.Context, cfg *config.Config) (repositories.UserRepository, backend, error) {
	log := logger.Log(ctx)

	switch cfg.Storage.Driver {
	case config.DriverMemory:
		log.Info(ctx, LogUsingMemoryUsers)
		return memory.NewUserRepository(), backend{
			ready: alwaysReady,
			close: func(context.Context) error { return nil },
		}, nil
	case config.DriverPostgres:
		log.Info(ctx, LogUsingPostgresUsers, zap.Bool("auto_migrate", cfg.Storage.AutoMigrate))
		database, err := db.New(ctx, &cfg.Postgres, cfg.Storage.AutoMigrate)
		if err != nil {
			return nil, backend{}, fmt.Errorf("%s: %w", ErrInitDB, err)
		}
		return postgres.NewRepositoryFactory(database.Pool()).UserRepository(), backend{
			ready: database.Ping,
			close: func(ctx context.Context) error {
				logger.Log(ctx).Info(ctx, LogClosingDB)
				database.Close(ctx)
				return nil
			},
		}, nil
	default:
		return nil, backend{}, fmt.Errorf("%s: %q", ErrUnsupportedStore, cfg.Storage.Driver)
	}
}

// openSessions открывает хранилище сессий согласно AUTH_SESSION_DRIVER.
func openSessions(ctx context.Context, cfg *config.Config) (cache.Cache, backend, error) {
	log := logger.Log(ctx)

	var store cache.Cache
	ready := alwaysReady

	switch cfg.Session.Driver {
	case config.DriverMemory:
		log.Info(ctx, LogUsingMemorySessions)
		store = memory.NewCache()
	case config.DriverRedis:
		log.Info(ctx, LogUsingRedisSessions, zap.String("address", cfg.Redis.GetAddress()))
		client, err := redis.NewClient(ctx, cfg.Redis.ClientConfig())
		if err != nil {
			return nil, backend{}, fmt.Errorf("%s: %w", ErrInitRedis, err)
		}
		store = rediscache.NewBreakerCache(rediscache.NewRedisCache(client), rediscache.BreakerConfig{
			ErrorThreshold:   cfg.Redis.Breaker.ErrorThreshold,
			Timeout:          cfg.Redis.Breaker.Timeout,
			SuccessThreshold: cfg.Redis.Breaker.SuccessThreshold,
		})
		ready = func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}
	default:
		return nil, backend{}, fmt.Errorf("%s: %q", ErrUnsupportedStore, cfg.Session.Driver)
	}

	return store, backend{
		ready: ready,
		close: func(ctx context.Context) error {
			logger.Log(ctx).Info(ctx, LogClosingSessions)
			return store.Close()
		},
	}, nil
}
