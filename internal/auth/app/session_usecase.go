package app

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"sessionauth/internal/auth/domain/entities"
	"sessionauth/internal/auth/domain/services"
	"sessionauth/internal/auth/ports/api"
	"sessionauth/internal/auth/ports/cache"
	"sessionauth/pkg/logger"
)

const (
	methodEstablish    = "Establish"
	methodAuthenticate = "Authenticate"
	methodRefresh      = "Refresh"
	methodLogout       = "Logout"

	// SessionUserKey - ключ сессии, под которым хранится профиль пользователя.
	SessionUserKey = "user"

	// DefaultSessionTTL - время жизни сессии без активности.
	DefaultSessionTTL = 24 * time.Hour
	// DefaultSessionKeyPrefix - префикс ключей сессий в хранилище.
	DefaultSessionKeyPrefix = "session:"

	sessionIDBytes = 32

	msgSessionEstablished = "session established"
	msgSessionMissing     = "session has no identity"
	msgSessionLoggedOut   = "session invalidated"
	msgSessionRefreshed   = "session identity refreshed"
	msgSessionVanished    = "session ended while being used"

	msgErrGenerateSessionID = "failed to generate session id"
	msgErrDropOldSession    = "failed to drop previous session"
	msgErrStoreSession      = "failed to store session identity"
	msgErrReadSession       = "failed to read session identity"
	msgErrDecodeSession     = "stored session identity is unreadable"
	msgErrExtendSession     = "failed to extend session lifetime"
	msgErrDeleteSession     = "failed to delete session"

	errCtxEstablishSession    = "establishing session"
	errCtxAuthenticateSession = "authenticating session"
	errCtxRefreshSession      = "refreshing session"
	errCtxLogout              = "logging out"
)

// SessionSettings задает время жизни и пространство ключей сессий.
type SessionSettings struct {
	TTL       time.Duration
	KeyPrefix string
}

// SessionUseCaseImpl реализует интерфейс SessionUseCase поверх хранилища ключ-значение.
type SessionUseCaseImpl struct {
	store     cache.Cache
	ttl       time.Duration
	keyPrefix string
	recorder  OutcomeRecorder
}

// NewSessionUseCase создает сервис сессий. Пустые настройки заменяются значениями по умолчанию.
func NewSessionUseCase(store cache.Cache, settings SessionSettings, opts ...Option) api.SessionUseCase {
	o := buildOptions(opts)
	if settings.TTL <= 0 {
		settings.TTL = DefaultSessionTTL
	}
	if settings.KeyPrefix == "" {
		settings.KeyPrefix = DefaultSessionKeyPrefix
	}
	return &SessionUseCaseImpl{
		store:     store,
		ttl:       settings.TTL,
		keyPrefix: settings.KeyPrefix,
		recorder:  o.recorder,
	}
}

// Establish выдает новую сессию для пользователя и удаляет предыдущую, если она была.
func (s *SessionUseCaseImpl) Establish(ctx context.Context, handle api.Handle, user *entities.User) (next api.Handle, err error) {
	ctx, span := tracer.Start(ctx, "SessionUseCase.Establish")
	defer func() { finish(span, s.recorder, "session_establish", err) }()

	log := logger.Log(ctx).With(zap.String("method", methodEstablish), zap.String("userID", user.ID))

	id, err := newSessionID()
	if err != nil {
		log.Error(ctx, msgErrGenerateSessionID, zap.Error(err))
		return api.Handle{}, fmt.Errorf("%s: %w", errCtxEstablishSession, services.ErrInternal)
	}

	if !handle.Empty() {
		if err := s.store.Delete(ctx, s.key(handle)); err != nil {
			log.Error(ctx, msgErrDropOldSession, zap.Error(err))
			return api.Handle{}, fmt.Errorf("%s: %w", errCtxEstablishSession, services.ErrInternal)
		}
	}

	next = api.Handle{ID: id}
	if err := s.store.Set(ctx, s.key(next), encodeProfile(user.Profile()), s.ttl); err != nil {
		log.Error(ctx, msgErrStoreSession, zap.Error(err))
		return api.Handle{}, fmt.Errorf("%s: %w", errCtxEstablishSession, services.ErrInternal)
	}

	log.Debug(ctx, msgSessionEstablished)
	return next, nil
}

// Authenticate возвращает профиль пользователя, сохраненный в сессии, и продлевает ее.
// Продление не создает ключ заново, поэтому параллельный Logout не отменяется.
func (s *SessionUseCaseImpl) Authenticate(ctx context.Context, handle api.Handle) (profile *entities.UserProfile, err error) {
	ctx, span := tracer.Start(ctx, "SessionUseCase.Authenticate")
	defer func() { finish(span, s.recorder, "session_authenticate", err) }()

	log := logger.Log(ctx).With(zap.String("method", methodAuthenticate))

	if handle.Empty() {
		return nil, fmt.Errorf("%s: %w", errCtxAuthenticateSession, services.ErrUnauthenticated)
	}

	key := s.key(handle)
	raw, err := s.store.Get(ctx, key)
	if err != nil {
		log.Error(ctx, msgErrReadSession, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxAuthenticateSession, services.ErrInternal)
	}
	if raw == "" {
		log.Debug(ctx, msgSessionMissing)
		return nil, fmt.Errorf("%s: %w", errCtxAuthenticateSession, services.ErrUnauthenticated)
	}

	profile, err = decodeProfile(raw)
	if err != nil {
		log.Error(ctx, msgErrDecodeSession, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxAuthenticateSession, services.ErrInternal)
	}

	alive, err := s.store.Touch(ctx, key, s.ttl)
	switch {
	case err != nil:
		log.Warn(ctx, msgErrExtendSession, zap.Error(err))
	case !alive:
		log.Debug(ctx, msgSessionVanished)
		return nil, fmt.Errorf("%s: %w", errCtxAuthenticateSession, services.ErrUnauthenticated)
	}

	return profile, nil
}

// Refresh перезаписывает профиль в текущей сессии. Завершенная сессия не восстанавливается.
func (s *SessionUseCaseImpl) Refresh(ctx context.Context, handle api.Handle, user *entities.User) (err error) {
	ctx, span := tracer.Start(ctx, "SessionUseCase.Refresh")
	defer func() { finish(span, s.recorder, "session_refresh", err) }()

	log := logger.Log(ctx).With(zap.String("method", methodRefresh), zap.String("userID", user.ID))

	if handle.Empty() {
		return fmt.Errorf("%s: %w", errCtxRefreshSession, services.ErrUnauthenticated)
	}

	alive, err := s.store.Replace(ctx, s.key(handle), encodeProfile(user.Profile()), s.ttl)
	if err != nil {
		log.Error(ctx, msgErrStoreSession, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxRefreshSession, services.ErrInternal)
	}
	if !alive {
		log.Debug(ctx, msgSessionVanished)
		return fmt.Errorf("%s: %w", errCtxRefreshSession, services.ErrUnauthenticated)
	}

	log.Debug(ctx, msgSessionRefreshed)
	return nil
}

// Logout удаляет идентичность из сессии. Отсутствие сессии не считается ошибкой.
func (s *SessionUseCaseImpl) Logout(ctx context.Context, handle api.Handle) (err error) {
	ctx, span := tracer.Start(ctx, "SessionUseCase.Logout")
	defer func() { finish(span, s.recorder, "logout", err) }()

	if handle.Empty() {
		return nil
	}

	log := logger.Log(ctx).With(zap.String("method", methodLogout))

	if err := s.store.Delete(ctx, s.key(handle)); err != nil {
		log.Error(ctx, msgErrDeleteSession, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxLogout, services.ErrInternal)
	}

	log.Debug(ctx, msgSessionLoggedOut)
	return nil
}

// key строит ключ хранилища из хеша идентификатора сессии.
func (s *SessionUseCaseImpl) key(handle api.Handle) string {
	sum := sha256.Sum256([]byte(handle.ID))
	return s.keyPrefix + hex.EncodeToString(sum[:]) + ":" + SessionUserKey
}

func newSessionID() (string, error) {
	buf := make([]byte, sessionIDBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("reading random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func encodeProfile(profile *entities.UserProfile) string {
	// UserProfile состоит только из строк, ошибка маршалинга невозможна.
	data, _ := json.Marshal(profile)
	return string(data)
}

func decodeProfile(raw string) (*entities.UserProfile, error) {
	var profile entities.UserProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return nil, fmt.Errorf("decoding profile: %w", err)
	}
	if profile.ID == "" {
		return nil, fmt.Errorf("decoding profile: empty user id")
	}
	return &profile, nil
}
