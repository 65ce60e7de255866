package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"sessionauth/internal/auth/domain/entities"
	"sessionauth/internal/auth/domain/services"
	"sessionauth/internal/auth/ports/api"
	svc "sessionauth/internal/auth/ports/services"
	"sessionauth/pkg/logger"
)

const (
	methodLogin = "Login"

	msgLoginAttempt        = "login attempt"
	msgLoginNonExistent    = "login attempt with non-existent email"
	msgInvalidPasswordAuth = "invalid password provided"
	msgUserLoggedIn        = "user logged in successfully"

	msgErrDummyHash = "failed to prepare dummy password hash"

	// dummyPassword - пароль хеша, с которым сверяется вход по неизвестному email.
	dummyPassword = "unknown-account-placeholder"

	errCtxInvalidCredentials = "invalid credentials"
	errCtxVerifyingPassword  = "verifying password"
)

// AuthUseCaseImpl реализует интерфейс AuthUseCase.
type AuthUseCaseImpl struct {
	users              api.UserUseCase
	passwordSvc        svc.PasswordService
	recorder           OutcomeRecorder
	unifyLoginFailures bool

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthUseCase создает новый экземпляр сервиса аутентификации.
func NewAuthUseCase(users api.UserUseCase, passwordSvc svc.PasswordService, opts ...Option) api.AuthUseCase {
	o := buildOptions(opts)
	return &AuthUseCaseImpl{
		users:              users,
		passwordSvc:        passwordSvc,
		recorder:           o.recorder,
		unifyLoginFailures: o.unifyLoginFailures,
	}
}

// Register создает нового пользователя.
func (a *AuthUseCaseImpl) Register(ctx context.Context, email, password string) (*entities.User, error) {
	return a.users.Register(ctx, email, password)
}

// Login аутентифицирует пользователя по email и паролю.
func (a *AuthUseCaseImpl) Login(ctx context.Context, email, password string) (user *entities.User, err error) {
	ctx, span := tracer.Start(ctx, "AuthUseCase.Login")
	defer func() { finish(span, a.recorder, "login", err) }()

	log := logger.Log(ctx).With(zap.String("method", methodLogin), zap.String("email", entities.NormalizeEmail(email)))
	log.Debug(ctx, msgLoginAttempt)

	user, err = a.users.FindByEmail(ctx, email)
	if err != nil {
		if a.unifyLoginFailures && errors.Is(err, services.ErrNotFound) {
			log.Debug(ctx, msgLoginNonExistent)
			a.verifyDummy(ctx, log, password)
			return nil, fmt.Errorf("%s: %w", errCtxInvalidCredentials, services.ErrCredentialMismatch)
		}
		return nil, err
	}

	if err := user.VerifyPassword(ctx, a.passwordSvc, password); err != nil {
		if errors.Is(err, services.ErrCredentialMismatch) {
			log.Debug(ctx, msgInvalidPasswordAuth, zap.String("userID", user.ID))
			return nil, fmt.Errorf("%s: %w", errCtxInvalidCredentials, err)
		}
		return nil, fmt.Errorf("%s: %w", errCtxVerifyingPassword, err)
	}

	log.Info(ctx, msgUserLoggedIn, zap.String("userID", user.ID))
	return user, nil
}

// ChangePassword меняет пароль пользователя.
func (a *AuthUseCaseImpl) ChangePassword(
	ctx context.Context,
	userID, currentPassword, newPassword string,
) (*entities.User, error) {
	return a.users.ChangePassword(ctx, userID, currentPassword, newPassword)
}

// verifyDummy проверяет пароль против заранее подготовленного хеша и отбрасывает результат.
func (a *AuthUseCaseImpl) verifyDummy(ctx context.Context, log *logger.Logger, password string) {
	a.dummyOnce.Do(func() {
		hash, err := a.passwordSvc.Hash(ctx, dummyPassword)
		if err != nil {
			log.Warn(ctx, msgErrDummyHash, zap.Error(err))
			return
		}
		a.dummyHash = hash
	})
	if a.dummyHash == "" {
		return
	}
	_, _ = a.passwordSvc.Verify(ctx, password, a.dummyHash)
}
