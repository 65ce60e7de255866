// Package entities содержит сущности домена пользователя.
package entities

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sessionauth/internal/auth/domain/services"
	"sessionauth/pkg/logger"
)

// ErrUserNotFound возвращается хранилищем, когда пользователь отсутствует.
var ErrUserNotFound = errors.New("user not found")

const (
	errCtxHashPassword   = "hashing password"
	errCtxVerifyPassword = "verifying password"
	errCtxGenerateID     = "generating user id"

	msgHashFailed   = "password hashing failed"
	msgVerifyFailed = "password verification failed"
	msgIDFailed     = "user id generation failed"
)

// PasswordHasher - минимальный контракт политики паролей, нужный сущности.
type PasswordHasher interface {
	Hash(ctx context.Context, password string) (string, error)
	Verify(ctx context.Context, password, hash string) (bool, error)
}

// User представляет основную сущность домена пользователя.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserProfile - публичная проекция пользователя без пароля.
type UserProfile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// NormalizeEmail приводит email к каноническому виду.
func NormalizeEmail(email string) string {
	return strings.ToLower(email)
}

// NewUser создает пользователя с новым идентификатором и хешем пароля.
func NewUser(ctx context.Context, hasher PasswordHasher, email, password string) (*User, error) {
	log := logger.Log(ctx).With(zap.String("method", "NewUser"))

	hash, err := hasher.Hash(ctx, password)
	if err != nil {
		log.Error(ctx, msgHashFailed, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxHashPassword, services.ErrInternal)
	}

	id, err := uuid.NewV7()
	if err != nil {
		log.Error(ctx, msgIDFailed, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxGenerateID, services.ErrInternal)
	}

	now := time.Now().UTC()

	return &User{
		ID:           id.String(),
		Email:        NormalizeEmail(email),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Profile возвращает публичную проекцию пользователя.
func (u *User) Profile() *UserProfile {
	return &UserProfile{ID: u.ID, Email: u.Email}
}

// VerifyPassword сверяет кандидата с сохраненным хешем.
func (u *User) VerifyPassword(ctx context.Context, hasher PasswordHasher, candidate string) error {
	ok, err := hasher.Verify(ctx, candidate, u.PasswordHash)
	if err != nil {
		logger.Log(ctx).Error(ctx, msgVerifyFailed, zap.String("user_id", u.ID), zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxVerifyPassword, services.ErrInternal)
	}
	if !ok {
		return services.ErrCredentialMismatch
	}
	return nil
}

// ChangePassword заменяет хеш пароля. Пароль, совпадающий с текущим, отклоняется.
// Ошибка проверки совпадения не мешает смене пароля.
func (u *User) ChangePassword(ctx context.Context, hasher PasswordHasher, newPassword string) error {
	if err := u.VerifyPassword(ctx, hasher, newPassword); err == nil {
		return services.ErrPasswordUnchanged
	}

	hash, err := hasher.Hash(ctx, newPassword)
	if err != nil {
		logger.Log(ctx).Error(ctx, msgHashFailed, zap.String("user_id", u.ID), zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxHashPassword, services.ErrInternal)
	}

	u.PasswordHash = hash
	u.UpdatedAt = time.Now().UTC()
	return nil
}
