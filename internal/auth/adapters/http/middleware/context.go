// Package middleware содержит промежуточное ПО для HTTP обработчиков.
package middleware

import (
	"context"

	"github.com/gofiber/fiber/v3"

	"sessionauth/internal/auth/domain/entities"
	"sessionauth/internal/auth/ports/api"
)

// Ключи Locals.
const (
	LocalRequestContext = "requestContext"
	LocalProfile        = "sessionProfile"
	LocalHandle         = "sessionHandle"
)

// HeaderRequestID - заголовок с идентификатором запроса.
const HeaderRequestID = "X-Request-ID"

// RequestContext возвращает контекст запроса с logger и request_id.
func RequestContext(c fiber.Ctx) context.Context {
	if ctx, ok := c.Locals(LocalRequestContext).(context.Context); ok {
		return ctx
	}
	return c.Context()
}

// Profile возвращает профиль пользователя, проверенный RequireSession.
func Profile(c fiber.Ctx) (*entities.UserProfile, bool) {
	profile, ok := c.Locals(LocalProfile).(*entities.UserProfile)
	return profile, ok
}

// SessionHandle возвращает сессию запроса.
func SessionHandle(c fiber.Ctx) api.Handle {
	if handle, ok := c.Locals(LocalHandle).(api.Handle); ok {
		return handle
	}
	return api.Handle{}
}
