package config

import (
	"fmt"
	"net/url"
	"time"
)

// PostgresConfig содержит настройки подключения к базе данных.
type PostgresConfig struct {
	Host         string        `yaml:"host" env:"AUTH_POSTGRES_HOST" env-default:"localhost"`
	Port         int           `yaml:"port" env:"AUTH_POSTGRES_PORT" env-default:"5432"`
	User         string        `yaml:"user" env:"AUTH_POSTGRES_USER" env-default:"postgres"`
	Password     string        `yaml:"password" env:"AUTH_POSTGRES_PASSWORD" env-default:"postgres"`
	Database     string        `yaml:"database" env:"AUTH_POSTGRES_DB" env-default:"auth"`
	SSLMode      string        `yaml:"ssl_mode" env:"AUTH_POSTGRES_SSL_MODE" env-default:"disable"`
	MinConn      int           `yaml:"min_conn" env:"AUTH_POSTGRES_MIN_CONN" env-default:"5"`
	MaxConn      int           `yaml:"max_conn" env:"AUTH_POSTGRES_MAX_CONN" env-default:"20"`
	MaxRetries   uint64        `yaml:"max_retries" env:"AUTH_POSTGRES_MAX_RETRIES" env-default:"5"`
	RetryBackoff time.Duration `yaml:"retry_backoff" env:"AUTH_POSTGRES_RETRY_BACKOFF" env-default:"500ms"`
}

// GetConnectionURL возвращает URL подключения к PostgreSQL.
func (p *PostgresConfig) GetConnectionURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Password),
		Host:     fmt.Sprintf("%s:%d", p.Host, p.Port),
		Path:     "/" + p.Database,
		RawQuery: "sslmode=" + url.QueryEscape(p.SSLMode),
	}
	return u.String()
}
