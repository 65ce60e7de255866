package api

import (
	"context"

	"sessionauth/internal/auth/domain/entities"
)

// UserUseCase определяет основной порт для пользовательских операций
type UserUseCase interface {
	Register(ctx context.Context, email, password string) (*entities.User, error)

	FindByEmail(ctx context.Context, email string) (*entities.User, error)

	FindByID(ctx context.Context, id string) (*entities.User, error)

	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) (*entities.User, error)
}
