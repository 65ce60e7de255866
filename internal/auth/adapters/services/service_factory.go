// Package services предоставляет реализации вспомогательных сервисов аутентификации.
package services

import (
	"sessionauth/internal/auth/ports/services"
)

// ServiceFactory создает все необходимые сервисы для аутентификации.
type ServiceFactory struct {
	passwordService services.PasswordService
}

// NewServiceFactory создает новую фабрику сервисов.
func NewServiceFactory(bcryptCost int) *ServiceFactory {
	return &ServiceFactory{
		passwordService: NewBcrypt(bcryptCost),
	}
}

// PasswordService возвращает сервис для работы с паролями.
func (f *ServiceFactory) PasswordService() services.PasswordService {
	return f.passwordService
}
