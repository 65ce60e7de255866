package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"sessionauth/internal/auth/ports/cache"
	"sessionauth/pkg/logger"
)

// BreakerState - состояние предохранителя хранилища сессий.
type BreakerState int

// Состояния предохранителя.
const (
	// StateClosed - запросы проходят в хранилище.
	StateClosed BreakerState = iota
	// StateOpen - хранилище считается недоступным, запросы отклоняются сразу.
	StateOpen
	// StateHalfOpen - пропускаются пробные запросы.
	StateHalfOpen
)

// Константы для логирования.
const (
	LogBreakerTripped = "session store breaker tripped"
	LogBreakerProbing = "session store breaker probing"
	LogBreakerReset   = "session store breaker reset"
)

// ErrBreakerOpen возвращается, пока хранилище сессий считается недоступным.
var ErrBreakerOpen = errors.New("session store circuit is open")

// BreakerConfig содержит пороги предохранителя.
type BreakerConfig struct {
	// ErrorThreshold - число ошибок подряд до размыкания.
	ErrorThreshold int
	// Timeout - время в разомкнутом состоянии до пробного запроса.
	Timeout time.Duration
	// SuccessThreshold - число успешных пробных запросов для замыкания.
	SuccessThreshold int
}

// DefaultBreakerConfig возвращает пороги по умолчанию.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		ErrorThreshold:   5,
		Timeout:          10 * time.Second,
		SuccessThreshold: 2,
	}
}

// BreakerCache перестает обращаться к хранилищу после серии ошибок
// и возвращает ErrBreakerOpen до истечения Timeout.
type BreakerCache struct {
	next   cache.Cache
	config BreakerConfig
	now    func() time.Time

	mu        sync.Mutex
	state     BreakerState
	failures  int
	successes int
	changedAt time.Time
}

var _ cache.Cache = (*BreakerCache)(nil)

// NewBreakerCache оборачивает хранилище предохранителем.
func NewBreakerCache(next cache.Cache, config BreakerConfig) *BreakerCache {
	return newBreakerCache(next, config, time.Now)
}

func newBreakerCache(next cache.Cache, config BreakerConfig, now func() time.Time) *BreakerCache {
	defaults := DefaultBreakerConfig()
	if config.ErrorThreshold <= 0 {
		config.ErrorThreshold = defaults.ErrorThreshold
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	if config.SuccessThreshold <= 0 {
		config.SuccessThreshold = defaults.SuccessThreshold
	}

	return &BreakerCache{
		next:      next,
		config:    config,
		now:       now,
		state:     StateClosed,
		changedAt: now(),
	}
}

// Get читает значение через предохранитель.
func (b *BreakerCache) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := b.execute(ctx, func() error {
		var err error
		value, err = b.next.Get(ctx, key)
		return err
	})
	return value, err
}

// Set записывает значение через предохранитель.
func (b *BreakerCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return b.execute(ctx, func() error {
		return b.next.Set(ctx, key, value, ttl)
	})
}

// Touch продлевает ключ через предохранитель.
func (b *BreakerCache) Touch(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	var ok bool
	err := b.execute(ctx, func() error {
		var err error
		ok, err = b.next.Touch(ctx, key, ttl)
		return err
	})
	return ok, err
}

// Replace перезаписывает значение через предохранитель.
func (b *BreakerCache) Replace(ctx context.Context, key string, value string, ttl time.Duration) (bool, error) {
	var ok bool
	err := b.execute(ctx, func() error {
		var err error
		ok, err = b.next.Replace(ctx, key, value, ttl)
		return err
	})
	return ok, err
}

// Delete удаляет значение через предохранитель.
func (b *BreakerCache) Delete(ctx context.Context, key string) error {
	return b.execute(ctx, func() error {
		return b.next.Delete(ctx, key)
	})
}

// Close закрывает обернутое хранилище.
func (b *BreakerCache) Close() error {
	return b.next.Close()
}

// State возвращает текущее состояние предохранителя.
func (b *BreakerCache) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *BreakerCache) execute(ctx context.Context, operation func() error) error {
	if !b.allow(ctx) {
		return ErrBreakerOpen
	}

	err := operation()
	b.record(ctx, err)
	return err
}

func (b *BreakerCache) allow(ctx context.Context) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != StateOpen {
		return true
	}
	if b.now().Sub(b.changedAt) < b.config.Timeout {
		return false
	}

	b.setState(StateHalfOpen)
	logger.Log(ctx).Info(ctx, LogBreakerProbing)
	return true
}

func (b *BreakerCache) record(ctx context.Context, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	log := logger.Log(ctx)

	if err != nil {
		b.failures++
		if b.state == StateHalfOpen || b.failures >= b.config.ErrorThreshold {
			if b.state != StateOpen {
				log.Warn(ctx, LogBreakerTripped, zap.Int("failures", b.failures), zap.Error(err))
			}
			b.setState(StateOpen)
		}
		return
	}

	switch b.state {
	case StateClosed:
		b.failures = 0
	case StateHalfOpen:
		b.successes++
		if b.successes >= b.config.SuccessThreshold {
			b.setState(StateClosed)
			log.Info(ctx, LogBreakerReset)
		}
	}
}

func (b *BreakerCache) setState(state BreakerState) {
	b.state = state
	b.changedAt = b.now()
	b.failures = 0
	b.successes = 0
}
