package config

import (
	"strconv"
	"time"

	"sessionauth/pkg/db/redis"
)

// RedisConfig представляет конфигурацию Redis для хранилища сессий.
type RedisConfig struct {
	Host           string        `yaml:"host" env:"AUTH_REDIS_HOST" env-default:"localhost"`
	Port           int           `yaml:"port" env:"AUTH_REDIS_PORT" env-default:"6379"`
	Password       string        `yaml:"password" env:"AUTH_REDIS_PASSWORD" env-default:""`
	DB             int           `yaml:"db" env:"AUTH_REDIS_DB" env-default:"0"`
	PoolSize       int           `yaml:"pool_size" env:"AUTH_REDIS_POOL_SIZE" env-default:"6"`
	MinIdle        int           `yaml:"min_idle" env:"AUTH_REDIS_MIN_IDLE" env-default:"1"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"AUTH_REDIS_CONNECT_TIMEOUT" env-default:"5s"`
	ReadTimeout    time.Duration `yaml:"read_timeout" env:"AUTH_REDIS_READ_TIMEOUT" env-default:"3s"`
	WriteTimeout   time.Duration `yaml:"write_timeout" env:"AUTH_REDIS_WRITE_TIMEOUT" env-default:"3s"`
	Breaker        BreakerConfig `yaml:"breaker"`
}

// GetAddress возвращает адрес Redis.
func (c *RedisConfig) GetAddress() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// ClientConfig преобразует настройки в конфигурацию общего клиента Redis.
func (c *RedisConfig) ClientConfig() *redis.Config {
	return &redis.Config{
		Host:           c.Host,
		Port:           c.Port,
		Password:       c.Password,
		DB:             c.DB,
		PoolSize:       c.PoolSize,
		MinIdle:        c.MinIdle,
		ConnectTimeout: c.ConnectTimeout,
		ReadTimeout:    c.ReadTimeout,
		WriteTimeout:   c.WriteTimeout,
	}
}

// BreakerConfig содержит пороги предохранителя хранилища сессий.
type BreakerConfig struct {
	ErrorThreshold   int           `yaml:"error_threshold" env:"AUTH_REDIS_BREAKER_ERROR_THRESHOLD" env-default:"5"`
	Timeout          time.Duration `yaml:"timeout" env:"AUTH_REDIS_BREAKER_TIMEOUT" env-default:"10s"`
	SuccessThreshold int           `yaml:"success_threshold" env:"AUTH_REDIS_BREAKER_SUCCESS_THRESHOLD" env-default:"2"`
}
