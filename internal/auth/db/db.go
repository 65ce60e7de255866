// Package db открывает базу данных сервиса аутентификации.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"sessionauth/internal/auth/config"
	migrations "sessionauth/migrations/auth"
	"sessionauth/pkg/db/postgres"
	"sessionauth/pkg/logger"
)

// Константы для сообщений логгера.
const (
	LogDBInitializing    = "initializing authentication database"
	LogDBInitialized     = "authentication database initialized successfully"
	LogMigrationStarting = "starting database migrations for authentication service"
)

// Константы для сообщений об ошибках.
const (
	ErrDBMigrations = "failed to apply authentication database migrations"
	ErrDBConnection = "failed to connect to authentication database"
)

// DB представляет соединение с базой данных сервиса авторизации.
type DB struct {
	database *postgres.Database
}

// New подключается к базе данных и, если включено, применяет встроенные миграции.
func New(ctx context.Context, cfg *config.PostgresConfig, autoMigrate bool) (*DB, error) {
	log := logger.Log(ctx)

	log.Info(ctx, LogDBInitializing,
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Database),
		zap.Int("min_conn", cfg.MinConn),
		zap.Int("max_conn", cfg.MaxConn))

	database, err := postgres.New(ctx, cfg.GetConnectionURL(), Options(cfg))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrDBConnection, err)
	}

	if autoMigrate {
		log.Info(ctx, LogMigrationStarting)
		if err := Migrate(ctx, cfg, postgres.Up); err != nil {
			database.Close(ctx)
			return nil, err
		}
	}

	log.Info(ctx, LogDBInitialized)

	return &DB{
		database: database,
	}, nil
}

// Options переводит конфигурацию в параметры пула.
func Options(cfg *config.PostgresConfig) postgres.Options {
	return postgres.Options{
		MinConn:      cfg.MinConn,
		MaxConn:      cfg.MaxConn,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
	}
}

// Migrate применяет или откатывает встроенные миграции схемы пользователей.
func Migrate(ctx context.Context, cfg *config.PostgresConfig, direction postgres.Direction) error {
	if err := postgres.Migrate(ctx, cfg.GetConnectionURL(), migrations.FS, direction); err != nil {
		return fmt.Errorf("%s: %w", ErrDBMigrations, err)
	}
	return nil
}

// Close закрывает соединение с базой данных.
func (db *DB) Close(ctx context.Context) {
	db.database.Close(ctx)
}

// Pool возвращает пул соединений с базой данных.
func (db *DB) Pool() *pgxpool.Pool {
	return db.database.Pool()
}

// Ping проверяет соединение с базой данных.
func (db *DB) Ping(ctx context.Context) error {
	return db.database.Ping(ctx)
}
