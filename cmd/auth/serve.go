package main

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httpServer "sessionauth/internal/auth/adapters/http"
	"sessionauth/internal/auth/adapters/http/middleware"
	"sessionauth/internal/auth/adapters/services"
	"sessionauth/internal/auth/app"
	"sessionauth/internal/auth/observability"
	"sessionauth/pkg/logger"
	"sessionauth/pkg/shutdown"
)

// Константы для сообщений сервиса.
const (
	LogServiceStarted      = "authentication service started"
	LogServiceShutdownDone = "authentication service shutdown complete"
	LogInitServices        = "initializing services"
	LogInitUseCases        = "initializing use cases"
	LogInitHTTPServer      = "initializing HTTP server"
	LogStartingHTTP        = "starting HTTP server"
	LogStoppingHTTP        = "stopping HTTP server"
	LogStoppingMetrics     = "stopping observability server"
	LogMetricsDisabled     = "observability server disabled"

	ErrStartHTTPServer = "failed to start HTTP server"
	ErrStartMetrics    = "failed to start observability server"
	ErrShutdown        = "graceful shutdown finished with errors"
)

func runServe(_ *cobra.Command, _ []string) error {
	ctx, cfg, flush, err := bootstrap()
	if err != nil {
		return err
	}
	defer flush()

	log := logger.Log(ctx)
	log.Info(ctx, LogServiceStarted,
		zap.String("environment", string(cfg.Logging.GetEnvironment())),
		zap.String("log_level", cfg.Logging.Level),
		zap.String("startup_time", time.Now().Format(time.RFC3339)))

	userRepo, users, err := openUsers(ctx, cfg)
	if err != nil {
		log.Error(ctx, ErrInitDB, zap.Error(err))
		return err
	}

	sessionStore, sessions, err := openSessions(ctx, cfg)
	if err != nil {
		log.Error(ctx, ErrInitRedis, zap.Error(err))
		_ = users.close(ctx)
		return err
	}

	closeStores := shutdown.Sequence(users.close, sessions.close)
	var stopMetrics shutdown.Hook

	var (
		opts     []app.Option
		recorder middleware.RequestRecorder
	)
	if cfg.Metrics.Enabled {
		metricsServer := observability.NewServer(cfg.Metrics.GetAddress(), func(ctx context.Context) error {
			return errors.Join(users.ready(ctx), sessions.ready(ctx))
		})
		if _, err := metricsServer.Start(ctx); err != nil {
			log.Error(ctx, ErrStartMetrics, zap.Error(err))
			_ = shutdown.Run(ctx, cfg.Shutdown.GetTimeout(), closeStores)
			return err
		}
		opts = append(opts, app.WithRecorder(metricsServer.Metrics()))
		recorder = metricsServer.Metrics()
		stopMetrics = func(ctx context.Context) error {
			log.Info(ctx, LogStoppingMetrics)
			return metricsServer.Stop(ctx)
		}
	} else {
		log.Info(ctx, LogMetricsDisabled)
	}
	opts = append(opts, app.WithUnifiedLoginFailures(cfg.Security.UnifyLoginFailures))

	log.Info(ctx, LogInitServices)
	passwordService := services.NewServiceFactory(cfg.Security.BCryptCost).PasswordService()

	log.Info(ctx, LogInitUseCases)
	userUseCase := app.NewUserUseCase(userRepo, passwordService, opts...)
	authUseCase := app.NewAuthUseCase(userUseCase, passwordService, opts...)
	sessionUseCase := app.NewSessionUseCase(sessionStore, app.SessionSettings{
		TTL:       cfg.Session.TTL,
		KeyPrefix: cfg.Session.KeyPrefix,
	}, opts...)

	log.Info(ctx, LogInitHTTPServer)
	fiberApp := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	})

	httpServer.SetupRouter(fiberApp, httpServer.Dependencies{
		Auth:     authUseCase,
		Sessions: sessionUseCase,
		Cookie: middleware.CookieSettings{
			Name:   cfg.Session.CookieName,
			TTL:    cfg.Session.TTL,
			Secure: cfg.Session.Secure,
		},
		Metrics: recorder,
		Logger:  logger.Log(ctx),
	})

	serveCtx, stop := context.WithCancel(ctx)
	defer stop()

	log.Info(ctx, LogStartingHTTP, zap.String("address", cfg.HTTP.GetAddress()))
	go func() {
		if err := fiberApp.Listen(cfg.HTTP.GetAddress(), fiber.ListenConfig{DisableStartupMessage: true}); err != nil {
			log.Error(ctx, ErrStartHTTPServer, zap.Error(err))
			stop()
		}
	}()

	// Хранилища закрываются только после того, как HTTP сервер дождался текущих запросов.
	stages := []shutdown.Hook{func(ctx context.Context) error {
		log.Info(ctx, LogStoppingHTTP)
		return fiberApp.ShutdownWithContext(ctx)
	}}
	if stopMetrics != nil {
		stages = append(stages, stopMetrics)
	}
	stages = append(stages, closeStores)

	if err := shutdown.Wait(serveCtx, cfg.Shutdown.GetTimeout(), shutdown.Sequence(stages...)); err != nil {
		log.Error(ctx, ErrShutdown, zap.Error(err))
		return err
	}

	log.Info(ctx, LogServiceShutdownDone)
	return nil
}
