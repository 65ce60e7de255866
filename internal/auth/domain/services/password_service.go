package services

import (
	"errors"
)

// PasswordErrors содержит ошибки, связанные с паролями.
var (
	ErrHashingFailed = errors.New("failed to hash password")
	ErrMalformedHash = errors.New("stored password hash is malformed")
)

// MinPasswordLength - минимальная длина пароля при регистрации.
const MinPasswordLength = 8
