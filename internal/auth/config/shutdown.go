package config

import (
	"time"
)

// defaultShutdownTimeout используется, если в конфигурации задан неположительный timeout.
const defaultShutdownTimeout = 10 * time.Second

// ShutdownConfig содержит настройки для graceful shutdown.
type ShutdownConfig struct {
	Timeout int `yaml:"timeout" env:"AUTH_GRACEFUL_SHUTDOWN_TIMEOUT" env-default:"10"`
}

// GetTimeout возвращает время на завершение хуков остановки в секундах конфигурации.
func (s *ShutdownConfig) GetTimeout() time.Duration {
	if s.Timeout <= 0 {
		return defaultShutdownTimeout
	}
	return time.Duration(s.Timeout) * time.Second
}
