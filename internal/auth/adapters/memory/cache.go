package memory

import (
	"context"
	"sync"
	"time"

	"sessionauth/internal/auth/ports/cache"
)

type entry struct {
	value     string
	expiresAt time.Time
}

// Cache - хранилище ключ-значение в памяти с учетом времени жизни.
type Cache struct {
	mu    sync.Mutex
	items map[string]entry
	now   func() time.Time
}

// NewCache создает пустое хранилище.
func NewCache() *Cache {
	return &Cache{
		items: make(map[string]entry),
		now:   time.Now,
	}
}

// NewCacheWithClock создает хранилище с заданным источником времени.
func NewCacheWithClock(now func() time.Time) *Cache {
	c := NewCache()
	c.now = now
	return c
}

var _ cache.Cache = (*Cache)(nil)

// Get возвращает значение или пустую строку, если ключ отсутствует или истек.
func (c *Cache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.live(key)
	if !ok {
		return "", nil
	}
	return item.value, nil
}

// Set сохраняет значение. Нулевой ttl означает бессрочное хранение.
func (c *Cache) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = c.entry(value, ttl)
	return nil
}

// Touch продлевает время жизни ключа, если он есть и не истек.
func (c *Cache) Touch(_ context.Context, key string, ttl time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.live(key)
	if !ok {
		return false, nil
	}
	c.items[key] = c.entry(item.value, ttl)
	return true, nil
}

// Replace перезаписывает значение ключа, если он есть и не истек.
func (c *Cache) Replace(_ context.Context, key string, value string, ttl time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.live(key); !ok {
		return false, nil
	}
	c.items[key] = c.entry(value, ttl)
	return true, nil
}

// Delete удаляет ключ.
func (c *Cache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
	return nil
}

// live возвращает неистекшую запись и удаляет истекшую. Вызывается под c.mu.
func (c *Cache) live(key string) (entry, bool) {
	item, ok := c.items[key]
	if !ok {
		return entry{}, false
	}
	if !item.expiresAt.IsZero() && !c.now().Before(item.expiresAt) {
		delete(c.items, key)
		return entry{}, false
	}
	return item, true
}

func (c *Cache) entry(value string, ttl time.Duration) entry {
	item := entry{value: value}
	if ttl > 0 {
		item.expiresAt = c.now().Add(ttl)
	}
	return item
}

// Close очищает хранилище.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]entry)
	return nil
}
