package main

import (
	"github.com/spf13/cobra"
)

// Путь к файлу конфигурации, общий для всех подкоманд.
var configFile string

// NewRootCmd создает корневую команду сервиса аутентификации.
// Без подкоманды запускается сервер.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "auth",
		Short:         "Session-based authentication service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}

// NewServeCmd создает подкоманду запуска HTTP сервера.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}
