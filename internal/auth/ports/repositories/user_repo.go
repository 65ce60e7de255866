// Package repositories описывает порты хранилища пользователей.
package repositories

import (
	"context"
	"errors"

	"sessionauth/internal/auth/domain/entities"
)

// ErrDuplicateEmail возвращается при вставке пользователя с уже занятым email.
var ErrDuplicateEmail = errors.New("user with this email already exists")

// UserRepository определяет интерфейс для операций сохранения данных пользователем.
// Отсутствие пользователя сообщается через entities.ErrUserNotFound.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) (*entities.User, error)

	FindByID(ctx context.Context, id string) (*entities.User, error)

	FindByEmail(ctx context.Context, email string) (*entities.User, error)

	Update(ctx context.Context, user *entities.User) (*entities.User, error)
}
