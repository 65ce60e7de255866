package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"

	"sessionauth/internal/auth/ports/api"
)

// CookieSettings задает параметры cookie сессии.
type CookieSettings struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// SetSessionCookie выдает cookie сессии со свежим сроком жизни.
func SetSessionCookie(c fiber.Ctx, settings CookieSettings, handle api.Handle) {
	c.Cookie(&fiber.Cookie{
		Name:     settings.Name,
		Value:    handle.ID,
		Path:     "/",
		MaxAge:   int(settings.TTL.Seconds()),
		Secure:   settings.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// ClearSessionCookie просит клиента удалить cookie сессии.
func ClearSessionCookie(c fiber.Ctx, settings CookieSettings) {
	c.Cookie(&fiber.Cookie{
		Name:     settings.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   settings.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
