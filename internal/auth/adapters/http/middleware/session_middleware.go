package middleware

import (
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"sessionauth/internal/auth/adapters/http/dto"
	"sessionauth/internal/auth/domain/services"
	"sessionauth/internal/auth/ports/api"
	"sessionauth/pkg/logger"
)

// Сообщения об ошибках сессии.
const (
	MessageUnauthenticated = "unauthenticated_error"

	LogSessionRejected = "session rejected"
)

// NewSessionMiddleware читает cookie сессии и сохраняет ее в Locals.
// Запрос без cookie получает пустую сессию.
func NewSessionMiddleware(cookieName string) fiber.Handler {
	return func(c fiber.Ctx) error {
		c.Locals(LocalHandle, api.Handle{ID: c.Cookies(cookieName)})
		return c.Next()
	}
}

// RequireSession пропускает только запросы с действующей сессией,
// кладет профиль пользователя в Locals и продлевает cookie вслед за сессией.
func RequireSession(sessions api.SessionUseCase, cookie CookieSettings) fiber.Handler {
	return func(c fiber.Ctx) error {
		requestCtx := RequestContext(c)

		profile, err := sessions.Authenticate(requestCtx, SessionHandle(c))
		if err != nil {
			logger.Log(requestCtx).Debug(requestCtx, LogSessionRejected, zap.Error(err))

			if services.Kind(err) == services.KindUnauthenticated {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Message: MessageUnauthenticated})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Message: MessageInternalError})
		}

		c.Locals(LocalProfile, profile)
		SetSessionCookie(c, cookie, SessionHandle(c))
		return c.Next()
	}
}
