// Package memory содержит реализации портов в памяти процесса.
package memory

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"sessionauth/internal/auth/domain/entities"
	"sessionauth/internal/auth/ports/repositories"
	"sessionauth/pkg/logger"
)

// UserRepository хранит пользователей в памяти. Безопасен для конкурентного использования.
type UserRepository struct {
	mu      sync.RWMutex
	byID    map[string]*entities.User
	byEmail map[string]string
}

// NewUserRepository создает пустой репозиторий.
func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[string]*entities.User),
		byEmail: make(map[string]string),
	}
}

var _ repositories.UserRepository = (*UserRepository)(nil)

// Create сохраняет копию пользователя.
func (r *UserRepository) Create(ctx context.Context, user *entities.User) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[user.Email]; exists {
		logger.Log(ctx).Debug(ctx, "user with this email already exists",
			zap.String("repository", "memory_user"), zap.String("email", user.Email))
		return nil, repositories.ErrDuplicateEmail
	}

	stored := *user
	r.byID[stored.ID] = &stored
	r.byEmail[stored.Email] = stored.ID

	created := stored
	return &created, nil
}

// FindByID находит пользователя по ID.
func (r *UserRepository) FindByID(_ context.Context, id string) (*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, entities.ErrUserNotFound
	}
	found := *user
	return &found, nil
}

// FindByEmail находит пользователя по email.
func (r *UserRepository) FindByEmail(_ context.Context, email string) (*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, entities.ErrUserNotFound
	}
	found := *r.byID[id]
	return &found, nil
}

// Update сохраняет хеш пароля и время изменения.
func (r *UserRepository) Update(_ context.Context, user *entities.User) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[user.ID]
	if !ok {
		return nil, entities.ErrUserNotFound
	}
	stored.PasswordHash = user.PasswordHash
	stored.UpdatedAt = user.UpdatedAt

	updated := *stored
	return &updated, nil
}
