// Package services описывает порты вспомогательных сервисов.
package services

import "sessionauth/internal/auth/domain/entities"

// PasswordService хеширует и проверяет пароли пользователей.
// Verify возвращает false без ошибки при несовпадении и ошибку только для нечитаемого хеша.
type PasswordService interface {
	entities.PasswordHasher
}
