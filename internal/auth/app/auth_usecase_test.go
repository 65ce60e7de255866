package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sessionauth/internal/auth/app"
	"sessionauth/internal/auth/domain/entities"
	"sessionauth/internal/auth/domain/services"
)

func TestAuthUseCase_Login(t *testing.T) {
	tests := []struct {
		name        string
		unify       bool
		email       string
		password    string
		repoUser    *entities.User
		repoErr     error
		expectedErr error
		outcome     string
	}{
		{name: "success", email: "alice@example.com", password: "oldpass123", repoUser: existingUser(), outcome: app.OutcomeSuccess},
		{name: "mixed case email", email: "ALICE@example.com", password: "oldpass123", repoUser: existingUser(), outcome: app.OutcomeSuccess},
		{name: "wrong password", email: "alice@example.com", password: "nope", repoUser: existingUser(), expectedErr: services.ErrCredentialMismatch, outcome: "credential_mismatch"},
		{name: "unknown email", email: "alice@example.com", password: "oldpass123", repoErr: entities.ErrUserNotFound, expectedErr: services.ErrNotFound, outcome: "not_found"},
		{name: "storage error", email: "alice@example.com", password: "oldpass123", repoErr: errStorage, expectedErr: services.ErrInternal, outcome: "internal"},
		{name: "unified unknown email", unify: true, email: "alice@example.com", password: "oldpass123", repoErr: entities.ErrUserNotFound, expectedErr: services.ErrCredentialMismatch, outcome: "credential_mismatch"},
		{name: "unified wrong password", unify: true, email: "alice@example.com", password: "nope", repoUser: existingUser(), expectedErr: services.ErrCredentialMismatch, outcome: "credential_mismatch"},
		{name: "unified storage error stays internal", unify: true, email: "alice@example.com", password: "oldpass123", repoErr: errStorage, expectedErr: services.ErrInternal, outcome: "internal"},
	}

	for _, ttt := range tests {
		t.Run(ttt.name, func(t *testing.T) {
			repo := &mockUserRepository{}
			repo.On("FindByEmail", mock.Anything, "alice@example.com").Return(ttt.repoUser, ttt.repoErr)
			recorder := &fakeRecorder{}

			users := app.NewUserUseCase(repo, plainHasher{})
			auth := app.NewAuthUseCase(users, plainHasher{},
				app.WithRecorder(recorder), app.WithUnifiedLoginFailures(ttt.unify))

			user, err := auth.Login(context.Background(), ttt.email, ttt.password)

			if ttt.expectedErr != nil {
				require.ErrorIs(t, err, ttt.expectedErr)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Equal(t, existingUser().ID, user.ID)
			}
			assert.Equal(t, recordedOutcome{operation: "login", outcome: ttt.outcome}, recorder.last())
			repo.AssertExpectations(t)
		})
	}
}

func TestAuthUseCase_UnifiedFailuresAreIndistinguishable(t *testing.T) {
	repo := &mockUserRepository{}
	repo.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, entities.ErrUserNotFound)
	repo.On("FindByEmail", mock.Anything, "alice@example.com").Return(existingUser(), nil)

	auth := app.NewAuthUseCase(app.NewUserUseCase(repo, plainHasher{}), plainHasher{}, app.WithUnifiedLoginFailures(true))

	_, unknownErr := auth.Login(context.Background(), "ghost@example.com", "whatever")
	_, wrongErr := auth.Login(context.Background(), "alice@example.com", "whatever")

	assert.Equal(t, services.Kind(unknownErr), services.Kind(wrongErr))
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestAuthUseCase_UnifiedUnknownEmailStillVerifies(t *testing.T) {
	tests := []struct {
		name          string
		unify         bool
		expectVerify  bool
		expectedError error
	}{
		{name: "unified mode verifies dummy hash", unify: true, expectVerify: true, expectedError: services.ErrCredentialMismatch},
		{name: "distinct mode skips verification", unify: false, expectVerify: false, expectedError: services.ErrNotFound},
	}

	for _, ttt := range tests {
		t.Run(ttt.name, func(t *testing.T) {
			repo := &mockUserRepository{}
			repo.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, entities.ErrUserNotFound)
			passwords := &mockPasswordService{}
			if ttt.expectVerify {
				passwords.On("Hash", mock.Anything, mock.Anything).Return("$2a$10$dummy", nil).Once()
				passwords.On("Verify", mock.Anything, "whatever", "$2a$10$dummy").Return(false, nil).Twice()
			}

			auth := app.NewAuthUseCase(app.NewUserUseCase(repo, passwords), passwords, app.WithUnifiedLoginFailures(ttt.unify))

			for range 2 {
				_, err := auth.Login(context.Background(), "ghost@example.com", "whatever")
				require.ErrorIs(t, err, ttt.expectedError)
			}

			passwords.AssertExpectations(t)
			if !ttt.expectVerify {
				passwords.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestAuthUseCase_Delegates(t *testing.T) {
	repo := &mockUserRepository{}
	repo.On("FindByEmail", mock.Anything, "a@example.com").Return(nil, entities.ErrUserNotFound)
	repo.On("Create", mock.Anything, mock.Anything).Return(&entities.User{ID: "1", Email: "a@example.com"}, nil)
	repo.On("FindByID", mock.Anything, "1").Return(nil, entities.ErrUserNotFound)

	auth := app.NewAuthUseCase(app.NewUserUseCase(repo, plainHasher{}), plainHasher{})

	user, err := auth.Register(context.Background(), "a@example.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, "1", user.ID)

	_, err = auth.ChangePassword(context.Background(), "1", "password1", "password2")
	require.ErrorIs(t, err, services.ErrNotFound)

	repo.AssertExpectations(t)
}
