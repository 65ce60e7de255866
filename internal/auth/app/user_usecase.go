package app

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"sessionauth/internal/auth/domain/entities"
	"sessionauth/internal/auth/domain/services"
	"sessionauth/internal/auth/ports/api"
	"sessionauth/internal/auth/ports/repositories"
	svc "sessionauth/internal/auth/ports/services"
	"sessionauth/pkg/logger"
)

const (
	methodRegister       = "Register"
	methodFindByEmail    = "FindByEmail"
	methodFindByID       = "FindByID"
	methodChangePassword = "ChangePassword"

	msgStartRegistration   = "starting user registration"
	msgEmailExists         = "user with this email already exists"
	msgDuplicateOnInsert   = "email was taken concurrently"
	msgUserRegistered      = "user registered successfully"
	msgUserNotFound        = "user not found"
	msgPasswordChanged     = "user password changed successfully"
	msgPasswordNotChanged  = "password change rejected"
	msgUserVanishedOnWrite = "user disappeared before update"

	msgErrCheckExistingUser = "failed to check existing user"
	msgErrCreateUser        = "failed to create user"
	msgErrFindingUser       = "error finding user"
	msgErrUpdateUser        = "failed to update user"

	errCtxBuildingUser    = "building user"
	errCtxCheckingUser    = "checking existing user"
	errCtxEmailRegistered = "email already registered"
	errCtxCreatingUser    = "creating user"
	errCtxFindingUser     = "finding user"
	errCtxVerifyingOld    = "verifying current password"
	errCtxRotating        = "rotating password"
	errCtxUpdatingUser    = "updating user"
)

// UserUseCaseImpl реализует интерфейс UserUseCase.
type UserUseCaseImpl struct {
	userRepo    repositories.UserRepository
	passwordSvc svc.PasswordService
	recorder    OutcomeRecorder
}

// NewUserUseCase создает новый экземпляр сервиса пользователя.
func NewUserUseCase(userRepo repositories.UserRepository, passwordSvc svc.PasswordService, opts ...Option) api.UserUseCase {
	o := buildOptions(opts)
	return &UserUseCaseImpl{
		userRepo:    userRepo,
		passwordSvc: passwordSvc,
		recorder:    o.recorder,
	}
}

// Register создает нового пользователя. Занятый email дает конфликт
// как при предварительной проверке, так и при нарушении уникальности во время вставки.
func (u *UserUseCaseImpl) Register(ctx context.Context, email, password string) (user *entities.User, err error) {
	ctx, span := tracer.Start(ctx, "UserUseCase.Register")
	defer func() { finish(span, u.recorder, "register", err) }()

	log := logger.Log(ctx).With(zap.String("method", methodRegister))
	log.Debug(ctx, msgStartRegistration)

	candidate, err := entities.NewUser(ctx, u.passwordSvc, email, password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxBuildingUser, err)
	}
	log = log.With(zap.String("email", candidate.Email))

	existing, err := u.userRepo.FindByEmail(ctx, candidate.Email)
	switch {
	case err == nil && existing != nil:
		log.Debug(ctx, msgEmailExists)
		return nil, fmt.Errorf("%s: %w", errCtxEmailRegistered, services.NewConflict(services.ReasonUserAlreadyExists))
	case err != nil && !errors.Is(err, entities.ErrUserNotFound):
		log.Error(ctx, msgErrCheckExistingUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCheckingUser, services.ErrInternal)
	}

	created, err := u.userRepo.Create(ctx, candidate)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			log.Debug(ctx, msgDuplicateOnInsert)
			return nil, fmt.Errorf("%s: %w", errCtxEmailRegistered, services.NewConflict(services.ReasonUserAlreadyExists))
		}
		log.Error(ctx, msgErrCreateUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCreatingUser, services.ErrInternal)
	}

	span.SetAttributes(attribute.String("user.id", created.ID))
	log.Info(ctx, msgUserRegistered, zap.String("userID", created.ID))
	return created, nil
}

// FindByEmail находит пользователя по email без учета регистра.
func (u *UserUseCaseImpl) FindByEmail(ctx context.Context, email string) (user *entities.User, err error) {
	ctx, span := tracer.Start(ctx, "UserUseCase.FindByEmail")
	defer func() { finish(span, u.recorder, "find_by_email", err) }()

	normalized := entities.NormalizeEmail(email)
	log := logger.Log(ctx).With(zap.String("method", methodFindByEmail), zap.String("email", normalized))

	return u.lookup(ctx, log, func() (*entities.User, error) {
		return u.userRepo.FindByEmail(ctx, normalized)
	})
}

// FindByID находит пользователя по идентификатору.
func (u *UserUseCaseImpl) FindByID(ctx context.Context, id string) (user *entities.User, err error) {
	ctx, span := tracer.Start(ctx, "UserUseCase.FindByID")
	defer func() { finish(span, u.recorder, "find_by_id", err) }()

	log := logger.Log(ctx).With(zap.String("method", methodFindByID), zap.String("userID", id))

	return u.lookup(ctx, log, func() (*entities.User, error) {
		return u.userRepo.FindByID(ctx, id)
	})
}

func (u *UserUseCaseImpl) lookup(ctx context.Context, log *logger.Logger, find func() (*entities.User, error)) (*entities.User, error) {
	user, err := find()
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			log.Debug(ctx, msgUserNotFound)
			return nil, fmt.Errorf("%s: %w", errCtxFindingUser, services.ErrNotFound)
		}
		log.Error(ctx, msgErrFindingUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxFindingUser, services.ErrInternal)
	}
	return user, nil
}

// ChangePassword проверяет текущий пароль и сохраняет новый.
func (u *UserUseCaseImpl) ChangePassword(
	ctx context.Context,
	userID, currentPassword, newPassword string,
) (user *entities.User, err error) {
	ctx, span := tracer.Start(ctx, "UserUseCase.ChangePassword",
		trace.WithAttributes(attribute.String("user.id", userID)))
	defer func() { finish(span, u.recorder, "change_password", err) }()

	log := logger.Log(ctx).With(zap.String("method", methodChangePassword), zap.String("userID", userID))

	user, err = u.lookup(ctx, log, func() (*entities.User, error) {
		return u.userRepo.FindByID(ctx, userID)
	})
	if err != nil {
		return nil, err
	}

	if err := user.VerifyPassword(ctx, u.passwordSvc, currentPassword); err != nil {
		log.Debug(ctx, msgPasswordNotChanged, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxVerifyingOld, err)
	}

	if err := user.ChangePassword(ctx, u.passwordSvc, newPassword); err != nil {
		log.Debug(ctx, msgPasswordNotChanged, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxRotating, err)
	}

	updated, err := u.userRepo.Update(ctx, user)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			log.Warn(ctx, msgUserVanishedOnWrite)
			return nil, fmt.Errorf("%s: %w", errCtxUpdatingUser, services.ErrNotFound)
		}
		log.Error(ctx, msgErrUpdateUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxUpdatingUser, services.ErrInternal)
	}

	log.Info(ctx, msgPasswordChanged)
	return updated, nil
}
