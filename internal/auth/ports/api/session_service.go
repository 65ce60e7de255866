package api

import (
	"context"

	"sessionauth/internal/auth/domain/entities"
)

// Handle - идентификатор сессии текущего запроса. Пустой ID означает отсутствие сессии.
type Handle struct {
	ID string
}

// Empty сообщает, что у запроса нет сессии.
func (h Handle) Empty() bool {
	return h.ID == ""
}

// SessionUseCase связывает сессию запроса с идентичностью пользователя.
type SessionUseCase interface {
	Establish(ctx context.Context, handle Handle, user *entities.User) (Handle, error)

	Authenticate(ctx context.Context, handle Handle) (*entities.UserProfile, error)

	Refresh(ctx context.Context, handle Handle, user *entities.User) error

	Logout(ctx context.Context, handle Handle) error
}
