// Package services описывает доменные ошибки и правила аутентификации.
package services

import (
	"errors"
)

// Ошибки домена аутентификации.
var (
	ErrConflict           = errors.New("conflict")
	ErrNotFound           = errors.New("not found")
	ErrCredentialMismatch = errors.New("password does not match")
	ErrPasswordUnchanged  = errors.New("new password must differ from the current one")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInternal           = errors.New("internal error")
)

// ReasonUserAlreadyExists - причина конфликта при повторной регистрации email.
const ReasonUserAlreadyExists = "user_already_exists"

// ConflictError описывает конфликт с причиной, понятной клиенту.
type ConflictError struct {
	Reason string
}

// NewConflict создает ошибку конфликта с указанной причиной.
func NewConflict(reason string) error {
	return &ConflictError{Reason: reason}
}

func (e *ConflictError) Error() string {
	return ErrConflict.Error() + ": " + e.Reason
}

// Is позволяет сравнивать ConflictError с ErrConflict через errors.Is.
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// ErrorKind - категория доменной ошибки.
type ErrorKind int

// Категории доменных ошибок.
const (
	KindInternal ErrorKind = iota
	KindConflict
	KindNotFound
	KindCredentialMismatch
	KindPasswordUnchanged
	KindUnauthenticated
)

func (k ErrorKind) String() string {
	switch k {
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindCredentialMismatch:
		return "credential_mismatch"
	case KindPasswordUnchanged:
		return "password_unchanged"
	case KindUnauthenticated:
		return "unauthenticated"
	default:
		return "internal"
	}
}

// Kind относит ошибку к одной из категорий. Все нераспознанные ошибки считаются внутренними.
func Kind(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrCredentialMismatch):
		return KindCredentialMismatch
	case errors.Is(err, ErrPasswordUnchanged):
		return KindPasswordUnchanged
	case errors.Is(err, ErrUnauthenticated):
		return KindUnauthenticated
	default:
		return KindInternal
	}
}

// ConflictReason возвращает причину конфликта, если err является ConflictError.
func ConflictReason(err error) (string, bool) {
	var conflict *ConflictError
	if errors.As(err, &conflict) {
		return conflict.Reason, true
	}
	return "", false
}
