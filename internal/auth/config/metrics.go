package config

import "fmt"

// MetricsConfig содержит настройки сервера метрик и проб.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" env:"AUTH_METRICS_ENABLED" env-default:"true"`
	Host    string `yaml:"host" env:"AUTH_METRICS_HOST" env-default:"0.0.0.0"`
	Port    int    `yaml:"port" env:"AUTH_METRICS_PORT" env-default:"9100"`
}

// GetAddress возвращает адрес сервера метрик.
func (c *MetricsConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
