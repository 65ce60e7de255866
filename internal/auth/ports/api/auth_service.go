// Package api описывает входящие порты сервиса аутентификации.
package api

import (
	"context"

	"sessionauth/internal/auth/domain/entities"
)

// AuthUseCase определяет основной порт для операций аутентификации.
type AuthUseCase interface {
	Register(ctx context.Context, email, password string) (*entities.User, error)

	Login(ctx context.Context, email, password string) (*entities.User, error)

	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) (*entities.User, error)
}
