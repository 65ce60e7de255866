// Package postgres реализует хранилище пользователей на PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"sessionauth/internal/auth/domain/entities"
	"sessionauth/internal/auth/ports/repositories"
	"sessionauth/pkg/logger"
)

const (
	msgUserNotFound          = "user not found"
	msgUserNotFoundForUpdate = "user not found for update"
	msgDuplicateEmail        = "user with this email already exists"
	msgErrFindByID           = "error finding user by id"
	msgErrFindByEmail        = "error finding user by email"
	msgErrCreate             = "error creating user"
	msgErrUpdate             = "error updating user"

	errCtxFindByID    = "error querying user by id"
	errCtxFindByEmail = "error querying user by email"
	errCtxCreate      = "error creating user"
	errCtxUpdate      = "error updating user"

	queryFindByID = `
        SELECT id, email, password, created_at, updated_at
        FROM users
        WHERE id = $1
    `
	queryFindByEmail = `
        SELECT id, email, password, created_at, updated_at
        FROM users
        WHERE email = $1
    `
	queryCreate = `
        INSERT INTO users (id, email, password, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, email, password, created_at, updated_at
    `
	queryUpdate = `
        UPDATE users
        SET password = $2, updated_at = $3
        WHERE id = $1
        RETURNING id, email, password, created_at, updated_at
    `
)

// PgxPoolInterface - подмножество pgxpool.Pool, используемое репозиторием.
type PgxPoolInterface interface {
	QueryRow(ctx context.Context, query string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, query string, args ...interface{}) (pgconn.CommandTag, error)
}

// UserRepository реализует интерфейс repositories.UserRepository для работы с Postgres.
type UserRepository struct {
	pool PgxPoolInterface
}

// NewUserRepository создает новый экземпляр репозитория пользователей.
func NewUserRepository(pool PgxPoolInterface) repositories.UserRepository {
	return &UserRepository{pool: pool}
}

// FindByID находит пользователя по ID.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "FindByID"))

	user, err := scanUser(r.pool.QueryRow(ctx, queryFindByID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, msgUserNotFound, zap.String("id", id))
			return nil, entities.ErrUserNotFound
		}
		log.Error(ctx, msgErrFindByID, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxFindByID, err)
	}

	return user, nil
}

// FindByEmail находит пользователя по email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "FindByEmail"))

	user, err := scanUser(r.pool.QueryRow(ctx, queryFindByEmail, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, msgUserNotFound, zap.String("email", email))
			return nil, entities.ErrUserNotFound
		}
		log.Error(ctx, msgErrFindByEmail, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxFindByEmail, err)
	}

	return user, nil
}

// Create сохраняет нового пользователя. Занятый email дает repositories.ErrDuplicateEmail.
func (r *UserRepository) Create(ctx context.Context, user *entities.User) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "Create"))

	created, err := scanUser(r.pool.QueryRow(ctx, queryCreate,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	))
	if err != nil {
		if isUniqueViolation(err) {
			log.Debug(ctx, msgDuplicateEmail, zap.String("email", user.Email))
			return nil, repositories.ErrDuplicateEmail
		}
		log.Error(ctx, msgErrCreate, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCreate, err)
	}

	return created, nil
}

// Update сохраняет хеш пароля и время изменения пользователя.
func (r *UserRepository) Update(ctx context.Context, user *entities.User) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "Update"))

	updated, err := scanUser(r.pool.QueryRow(ctx, queryUpdate,
		user.ID,
		user.PasswordHash,
		user.UpdatedAt,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, msgUserNotFoundForUpdate, zap.String("id", user.ID))
			return nil, entities.ErrUserNotFound
		}
		log.Error(ctx, msgErrUpdate, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxUpdate, err)
	}

	return updated, nil
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var user entities.User
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	user.CreatedAt = user.CreatedAt.UTC()
	user.UpdatedAt = user.UpdatedAt.UTC()
	return &user, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
