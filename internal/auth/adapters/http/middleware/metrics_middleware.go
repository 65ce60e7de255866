package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v3"
)

// RequestRecorder учитывает обработанные HTTP-запросы.
type RequestRecorder interface {
	RecordRequest(method, route string, status int)
}

// NewMetricsMiddleware учитывает каждый запрос по методу, шаблону маршрута и статусу.
func NewMetricsMiddleware(recorder RequestRecorder) fiber.Handler {
	return func(c fiber.Ctx) error {
		err := c.Next()

		status := c.Response().StatusCode()
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			status = fiberErr.Code
		} else if err != nil {
			status = fiber.StatusInternalServerError
		}

		route := c.Path()
		if r := c.Route(); r != nil && r.Path != "" {
			route = r.Path
		}

		recorder.RecordRequest(c.Method(), route, status)
		return err
	}
}
