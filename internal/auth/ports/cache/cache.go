// Package cache определяет интерфейс хранилища сессий.
package cache

import (
	"context"
	"time"
)

// Cache определяет интерфейс для работы с хранилищем ключ-значение.
// Get возвращает пустую строку без ошибки, если ключ отсутствует.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)

	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	// Touch продлевает время жизни существующего ключа. false означает, что ключа нет.
	Touch(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Replace перезаписывает значение только существующего ключа. false означает, что ключа нет.
	Replace(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)

	Delete(ctx context.Context, key string) error

	Close() error
}
