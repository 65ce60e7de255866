package middleware

import (
	"github.com/gofiber/fiber/v3"

	"sessionauth/pkg/logger"
)

// NewRequestIDMiddleware присваивает запросу идентификатор и кладет logger в контекст.
// Идентификатор берется из заголовка X-Request-ID или генерируется.
func NewRequestIDMiddleware(log *logger.Logger) fiber.Handler {
	return func(c fiber.Ctx) error {
		requestID := c.Get(HeaderRequestID)
		if requestID == "" {
			requestID = logger.GenerateRequestID()
		}

		ctx := logger.NewRequestIDContext(c.Context(), requestID)
		if log != nil {
			ctx = logger.NewContext(ctx, log)
		}
		c.Locals(LocalRequestContext, ctx)
		c.Set(HeaderRequestID, requestID)

		return c.Next()
	}
}
