package services_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"sessionauth/internal/auth/domain/services"
)

func TestKind(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected services.ErrorKind
	}{
		{name: "conflict sentinel", err: services.ErrConflict, expected: services.KindConflict},
		{name: "conflict with reason", err: services.NewConflict(services.ReasonUserAlreadyExists), expected: services.KindConflict},
		{name: "wrapped conflict", err: fmt.Errorf("register: %w", services.NewConflict("x")), expected: services.KindConflict},
		{name: "not found", err: fmt.Errorf("lookup: %w", services.ErrNotFound), expected: services.KindNotFound},
		{name: "credential mismatch", err: services.ErrCredentialMismatch, expected: services.KindCredentialMismatch},
		{name: "password unchanged", err: services.ErrPasswordUnchanged, expected: services.KindPasswordUnchanged},
		{name: "unauthenticated", err: services.ErrUnauthenticated, expected: services.KindUnauthenticated},
		{name: "internal", err: services.ErrInternal, expected: services.KindInternal},
		{name: "unknown error", err: errors.New("boom"), expected: services.KindInternal},
	}

	for _, ttt := range tests {
		t.Run(ttt.name, func(t *testing.T) {
			assert.Equal(t, ttt.expected, services.Kind(ttt.err))
		})
	}
}

func TestConflictError(t *testing.T) {
	err := fmt.Errorf("register: %w", services.NewConflict(services.ReasonUserAlreadyExists))

	assert.ErrorIs(t, err, services.ErrConflict)
	assert.NotErrorIs(t, err, services.ErrNotFound)

	reason, ok := services.ConflictReason(err)
	assert.True(t, ok)
	assert.Equal(t, services.ReasonUserAlreadyExists, reason)

	_, ok = services.ConflictReason(services.ErrConflict)
	assert.False(t, ok)
}

func TestErrorKind_String(t *testing.T) {
	assert.Equal(t, "conflict", services.KindConflict.String())
	assert.Equal(t, "not_found", services.KindNotFound.String())
	assert.Equal(t, "internal", services.ErrorKind(42).String())
}
