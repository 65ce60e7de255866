// Package http содержит HTTP транспорт сервиса аутентификации на fiber.
package http

import (
	"github.com/gofiber/fiber/v3"

	"sessionauth/internal/auth/adapters/http/middleware"
	"sessionauth/internal/auth/ports/api"
	"sessionauth/pkg/logger"
)

// Dependencies содержит все, что нужно маршрутизатору.
type Dependencies struct {
	Auth     api.AuthUseCase
	Sessions api.SessionUseCase
	Cookie   middleware.CookieSettings
	Metrics  middleware.RequestRecorder
	Logger   *logger.Logger
}

// SetupRouter настраивает маршрутизацию для HTTP сервера.
func SetupRouter(app *fiber.App, deps Dependencies) {
	handler := NewHandler(deps.Auth, deps.Sessions, deps.Cookie)

	// Middleware для всех запросов.
	app.Use(middleware.NewRequestIDMiddleware(deps.Logger))
	if deps.Metrics != nil {
		app.Use(middleware.NewMetricsMiddleware(deps.Metrics))
	}
	app.Use(middleware.NewLoggerMiddleware())
	app.Use(middleware.NewRecoveryMiddleware())
	app.Use(middleware.NewSessionMiddleware(deps.Cookie.Name))

	apiV1 := app.Group("/api/v1")
	apiV1.Get("/health", handler.Health)

	authRoutes := apiV1.Group("/auth")
	authRoutes.Post("/register", handler.Register)
	authRoutes.Post("/login", handler.Login)
	authRoutes.Post("/logout", handler.Logout)

	// Защищенные маршруты: middleware передаются после обработчика и выполняются до него.
	requireSession := middleware.RequireSession(deps.Sessions, deps.Cookie)
	authRoutes.Get("/profile", handler.Profile, requireSession)
	authRoutes.Post("/change-password", handler.ChangePassword, requireSession)

	// Обработчик для несуществующих маршрутов.
	app.Use(func(c fiber.Ctx) error {
		return writeError(c, fiber.StatusNotFound, MessageRouteNotFound)
	})
}
