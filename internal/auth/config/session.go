package config

import "time"

// SessionConfig содержит настройки сессий и cookie.
type SessionConfig struct {
	Driver     string        `yaml:"driver" env:"AUTH_SESSION_DRIVER" env-default:"redis"`
	CookieName string        `yaml:"cookie_name" env:"AUTH_SESSION_COOKIE_NAME" env-default:"id"`
	TTL        time.Duration `yaml:"ttl" env:"AUTH_SESSION_TTL" env-default:"24h"`
	Secure     bool          `yaml:"secure" env:"AUTH_SESSION_SECURE" env-default:"false"`
	KeyPrefix  string        `yaml:"key_prefix" env:"AUTH_SESSION_KEY_PREFIX" env-default:"session:"`
}

// SecurityConfig содержит параметры хеширования и политики входа.
type SecurityConfig struct {
	BCryptCost         int  `yaml:"bcrypt_cost" env:"AUTH_BCRYPT_COST" env-default:"10"`
	UnifyLoginFailures bool `yaml:"unify_login_failures" env:"AUTH_UNIFY_LOGIN_FAILURES" env-default:"false"`
}
