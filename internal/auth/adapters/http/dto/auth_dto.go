// Package dto содержит объекты передачи данных HTTP API.
package dto

import "sessionauth/internal/auth/domain/entities"

// RegisterRequest содержит данные для регистрации пользователя.
type RegisterRequest struct {
	Email    string `json:"email" validate:"email"`
	Password string `json:"password" validate:"min=8"`
}

// LoginRequest содержит данные для входа пользователя.
type LoginRequest struct {
	Email    string `json:"email" validate:"email"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordRequest содержит данные для смены пароля.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

// UserResponse - публичное представление пользователя.
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// NewUserResponse строит ответ из профиля.
func NewUserResponse(profile *entities.UserProfile) UserResponse {
	return UserResponse{ID: profile.ID, Email: profile.Email}
}

// ErrorResponse - тело ответа с ошибкой.
type ErrorResponse struct {
	Message string              `json:"message"`
	Details []map[string]string `json:"details,omitempty"`
}

// HealthResponse - тело ответа проверки здоровья.
type HealthResponse struct {
	Status string `json:"status"`
}
