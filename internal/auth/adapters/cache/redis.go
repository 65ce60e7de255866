// Package cache содержит хранилище сессий на Redis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"sessionauth/internal/auth/ports/cache"
	"sessionauth/pkg/logger"
)

// Константы для логирования.
const (
	LogMethodGet     = "get"
	LogMethodSet     = "set"
	LogMethodDelete  = "delete"
	LogMethodTouch   = "touch"
	LogMethodReplace = "replace"

	ErrorFailedToGet     = "failed to get value from redis"
	ErrorFailedToSet     = "failed to set value in redis"
	ErrorFailedToDelete  = "failed to delete value from redis"
	ErrorFailedToTouch   = "failed to extend key lifetime in redis"
	ErrorFailedToReplace = "failed to replace value in redis"
	ErrorFailedToClose   = "failed to close redis connection"
)

// RedisCache реализует интерфейс Cache с использованием Redis.
type RedisCache struct {
	client redis.UniversalClient
}

// NewRedisCache оборачивает готовый клиент Redis.
func NewRedisCache(client redis.UniversalClient) cache.Cache {
	return &RedisCache{client: client}
}

// Get получает значение по ключу.
func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	log := logger.Log(ctx).With(zap.String("method", LogMethodGet))

	value, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		log.Error(ctx, ErrorFailedToGet, zap.Error(err))
		return "", fmt.Errorf("%s: %w", ErrorFailedToGet, err)
	}

	return value, nil
}

// Set устанавливает значение для ключа с временем жизни.
func (c *RedisCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	log := logger.Log(ctx).With(zap.String("method", LogMethodSet))

	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		log.Error(ctx, ErrorFailedToSet, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToSet, err)
	}

	return nil
}

// Touch продлевает время жизни ключа командой EXPIRE, не создавая отсутствующий ключ.
func (c *RedisCache) Touch(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	log := logger.Log(ctx).With(zap.String("method", LogMethodTouch))

	ok, err := c.client.Expire(ctx, key, ttl).Result()
	if err != nil {
		log.Error(ctx, ErrorFailedToTouch, zap.Error(err))
		return false, fmt.Errorf("%s: %w", ErrorFailedToTouch, err)
	}

	return ok, nil
}

// Replace перезаписывает значение командой SET XX, не создавая отсутствующий ключ.
func (c *RedisCache) Replace(ctx context.Context, key string, value string, ttl time.Duration) (bool, error) {
	log := logger.Log(ctx).With(zap.String("method", LogMethodReplace))

	ok, err := c.client.SetXX(ctx, key, value, ttl).Result()
	if err != nil {
		log.Error(ctx, ErrorFailedToReplace, zap.Error(err))
		return false, fmt.Errorf("%s: %w", ErrorFailedToReplace, err)
	}

	return ok, nil
}

// Delete удаляет значение по ключу.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	log := logger.Log(ctx).With(zap.String("method", LogMethodDelete))

	if err := c.client.Del(ctx, key).Err(); err != nil {
		log.Error(ctx, ErrorFailedToDelete, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToDelete, err)
	}

	return nil
}

// Close закрывает соединение с Redis.
func (c *RedisCache) Close() error {
	if err := c.client.Close(); err != nil {
		return fmt.Errorf("%s: %w", ErrorFailedToClose, err)
	}
	return nil
}
