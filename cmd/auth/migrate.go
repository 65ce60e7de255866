package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sessionauth/internal/auth/db"
	"sessionauth/pkg/db/postgres"
	"sessionauth/pkg/logger"
)

// Константы для миграций.
const (
	LogMigrationsApplied = "migrations completed successfully"
	ErrRunMigrations     = "failed to run migrations"
)

// NewMigrateCmd создает подкоманду применения миграций схемы пользователей.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Run database migrations",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(postgres.Up), string(postgres.Down)},
		RunE:      runMigrate,
	}
}

// parseDirection переводит аргумент команды в направление миграции; по умолчанию up.
func parseDirection(args []string) (postgres.Direction, error) {
	if len(args) == 0 {
		return postgres.Up, nil
	}
	switch postgres.Direction(args[0]) {
	case postgres.Up:
		return postgres.Up, nil
	case postgres.Down:
		return postgres.Down, nil
	default:
		return "", fmt.Errorf("%w: %s", postgres.ErrUnknownDirection, args[0])
	}
}

func runMigrate(cmd *cobra.Command, args []string) error {
	direction, err := parseDirection(args)
	if err != nil {
		return err
	}

	ctx, cfg, flush, err := bootstrap()
	if err != nil {
		return err
	}
	defer flush()

	log := logger.Log(ctx).With(zap.String("direction", string(direction)))
	if err := db.Migrate(ctx, &cfg.Postgres, direction); err != nil {
		log.Error(ctx, ErrRunMigrations, zap.Error(err))
		return err
	}

	log.Info(ctx, LogMigrationsApplied)
	cmd.Println(LogMigrationsApplied)
	return nil
}
