package postgres

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	// Драйвер pgx/v5 для golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"

	"sessionauth/pkg/logger"
)

// Константы для сообщений об ошибках миграций.
const (
	ErrCreateMigrationSource   = "failed to create migration source"
	ErrCreateMigrationInstance = "failed to create migration instance"
	ErrApplyMigrations         = "failed to apply migrations"
	ErrRollbackMigrations      = "failed to roll back migrations"
)

// Direction задает направление миграций.
type Direction string

// Поддерживаемые направления.
const (
	Up   Direction = "up"
	Down Direction = "down"
)

// ErrUnknownDirection возвращается для неизвестного направления миграций.
var ErrUnknownDirection = errors.New("unknown migration direction")

// MigrationURL приводит postgres:// URL к схеме pgx5://, которую ожидает драйвер golang-migrate.
func MigrationURL(databaseURL string) string {
	if rest, found := strings.CutPrefix(databaseURL, "postgres://"); found {
		return "pgx5://" + rest
	}
	if rest, found := strings.CutPrefix(databaseURL, "postgresql://"); found {
		return "pgx5://" + rest
	}
	return databaseURL
}

// Migrate применяет встроенные миграции из migrations в указанном направлении.
func Migrate(ctx context.Context, databaseURL string, migrations fs.FS, direction Direction) error {
	log := logger.Log(ctx).With(zap.String("direction", string(direction)))

	source, err := iofs.New(migrations, ".")
	if err != nil {
		log.Error(ctx, ErrCreateMigrationSource, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrCreateMigrationSource, err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, MigrationURL(databaseURL))
	if err != nil {
		_ = source.Close()
		log.Error(ctx, ErrCreateMigrationInstance, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrCreateMigrationInstance, err)
	}
	defer m.Close()

	switch direction {
	case Up:
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Error(ctx, ErrApplyMigrations, zap.Error(err))
			return fmt.Errorf("%s: %w", ErrApplyMigrations, err)
		}
		log.Info(ctx, LogMigrationsApplied)
	case Down:
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Error(ctx, ErrRollbackMigrations, zap.Error(err))
			return fmt.Errorf("%s: %w", ErrRollbackMigrations, err)
		}
		log.Info(ctx, LogMigrationsRolled)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownDirection, direction)
	}

	return nil
}
