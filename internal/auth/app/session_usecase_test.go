package app_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sessionauth/internal/auth/adapters/memory"
	"sessionauth/internal/auth/app"
	"sessionauth/internal/auth/domain/entities"
	"sessionauth/internal/auth/domain/services"
	"sessionauth/internal/auth/ports/api"
)

func newSessions(t *testing.T) (api.SessionUseCase, *memory.Cache) {
	t.Helper()
	store := memory.NewCache()
	return app.NewSessionUseCase(store, app.SessionSettings{TTL: time.Hour, KeyPrefix: "session:"}), store
}

func TestSessionUseCase_EstablishAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	sessions, _ := newSessions(t)
	user := existingUser()

	handle, err := sessions.Establish(ctx, api.Handle{}, user)
	require.NoError(t, err)
	assert.Len(t, handle.ID, 64)

	profile, err := sessions.Authenticate(ctx, handle)
	require.NoError(t, err)
	assert.Equal(t, &entities.UserProfile{ID: user.ID, Email: user.Email}, profile)

	encoded, err := json.Marshal(profile)
	require.NoError(t, err)
	assert.NotContains(t, string(encoded), "password")
}

func TestSessionUseCase_AuthenticateWithoutIdentity(t *testing.T) {
	ctx := context.Background()
	sessions, _ := newSessions(t)

	tests := []struct {
		name   string
		handle api.Handle
	}{
		{name: "no session", handle: api.Handle{}},
		{name: "unknown session", handle: api.Handle{ID: "deadbeef"}},
	}

	for _, ttt := range tests {
		t.Run(ttt.name, func(t *testing.T) {
			profile, err := sessions.Authenticate(ctx, ttt.handle)
			require.ErrorIs(t, err, services.ErrUnauthenticated)
			assert.Nil(t, profile)
		})
	}
}

func TestSessionUseCase_RotatesOnEstablish(t *testing.T) {
	ctx := context.Background()
	sessions, _ := newSessions(t)
	user := existingUser()

	first, err := sessions.Establish(ctx, api.Handle{}, user)
	require.NoError(t, err)
	second, err := sessions.Establish(ctx, first, user)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)

	_, err = sessions.Authenticate(ctx, first)
	require.ErrorIs(t, err, services.ErrUnauthenticated, "previous session must be dropped")

	_, err = sessions.Authenticate(ctx, second)
	require.NoError(t, err)
}

func TestSessionUseCase_Logout(t *testing.T) {
	ctx := context.Background()
	sessions, _ := newSessions(t)

	handle, err := sessions.Establish(ctx, api.Handle{}, existingUser())
	require.NoError(t, err)

	require.NoError(t, sessions.Logout(ctx, handle))
	require.NoError(t, sessions.Logout(ctx, api.Handle{}))

	_, err = sessions.Authenticate(ctx, handle)
	require.ErrorIs(t, err, services.ErrUnauthenticated)
}

func TestSessionUseCase_Refresh(t *testing.T) {
	ctx := context.Background()
	sessions, _ := newSessions(t)
	user := existingUser()

	handle, err := sessions.Establish(ctx, api.Handle{}, user)
	require.NoError(t, err)

	changed := *user
	changed.Email = "renamed@example.com"
	require.NoError(t, sessions.Refresh(ctx, handle, &changed))

	profile, err := sessions.Authenticate(ctx, handle)
	require.NoError(t, err)
	assert.Equal(t, "renamed@example.com", profile.Email)

	require.ErrorIs(t, sessions.Refresh(ctx, api.Handle{}, user), services.ErrUnauthenticated)
}

func TestSessionUseCase_RefreshDoesNotRecreateEndedSession(t *testing.T) {
	ctx := context.Background()
	sessions, _ := newSessions(t)
	user := existingUser()

	handle, err := sessions.Establish(ctx, api.Handle{}, user)
	require.NoError(t, err)
	require.NoError(t, sessions.Logout(ctx, handle))

	require.ErrorIs(t, sessions.Refresh(ctx, handle, user), services.ErrUnauthenticated)

	_, err = sessions.Authenticate(ctx, handle)
	require.ErrorIs(t, err, services.ErrUnauthenticated)
}

// interleavingCache выполняет hook сразу после первого чтения ключа,
// имитируя запрос, завершившийся между чтением и продлением сессии.
type interleavingCache struct {
	*memory.Cache
	hook func()
	done bool
}

func (c *interleavingCache) Get(ctx context.Context, key string) (string, error) {
	value, err := c.Cache.Get(ctx, key)
	if !c.done && c.hook != nil {
		c.done = true
		c.hook()
	}
	return value, err
}

func TestSessionUseCase_ConcurrentEndIsNotUndone(t *testing.T) {
	tests := []struct {
		name string
		end  func(ctx context.Context, sessions api.SessionUseCase, handle api.Handle) error
	}{
		{
			name: "logout",
			end: func(ctx context.Context, sessions api.SessionUseCase, handle api.Handle) error {
				return sessions.Logout(ctx, handle)
			},
		},
		{
			name: "rotation",
			end: func(ctx context.Context, sessions api.SessionUseCase, handle api.Handle) error {
				_, err := sessions.Establish(ctx, handle, existingUser())
				return err
			},
		},
	}

	for _, ttt := range tests {
		t.Run(ttt.name, func(t *testing.T) {
			ctx := context.Background()
			store := &interleavingCache{Cache: memory.NewCache()}
			sessions := app.NewSessionUseCase(store, app.SessionSettings{TTL: time.Hour})

			handle, err := sessions.Establish(ctx, api.Handle{}, existingUser())
			require.NoError(t, err)

			store.hook = func() {
				require.NoError(t, ttt.end(ctx, sessions, handle))
			}

			_, err = sessions.Authenticate(ctx, handle)
			require.ErrorIs(t, err, services.ErrUnauthenticated)

			profile, err := sessions.Authenticate(ctx, handle)
			require.ErrorIs(t, err, services.ErrUnauthenticated)
			assert.Nil(t, profile)
		})
	}
}

func TestSessionUseCase_SlidingExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store := memory.NewCacheWithClock(func() time.Time { return now })
	sessions := app.NewSessionUseCase(store, app.SessionSettings{TTL: time.Hour})

	handle, err := sessions.Establish(ctx, api.Handle{}, existingUser())
	require.NoError(t, err)

	now = now.Add(50 * time.Minute)
	_, err = sessions.Authenticate(ctx, handle)
	require.NoError(t, err)

	now = now.Add(50 * time.Minute)
	_, err = sessions.Authenticate(ctx, handle)
	require.NoError(t, err, "activity should extend the session")

	now = now.Add(61 * time.Minute)
	_, err = sessions.Authenticate(ctx, handle)
	require.ErrorIs(t, err, services.ErrUnauthenticated)
}

func TestSessionUseCase_StoreFailures(t *testing.T) {
	ctx := context.Background()
	user := existingUser()

	t.Run("establish store error", func(t *testing.T) {
		store := &mockCache{}
		store.On("Set", mock.Anything, mock.Anything, mock.Anything, time.Hour).Return(errStorage)
		sessions := app.NewSessionUseCase(store, app.SessionSettings{TTL: time.Hour})

		handle, err := sessions.Establish(ctx, api.Handle{}, user)
		require.ErrorIs(t, err, services.ErrInternal)
		assert.NotErrorIs(t, err, errStorage)
		assert.True(t, handle.Empty())
	})

	t.Run("establish cannot drop previous session", func(t *testing.T) {
		store := &mockCache{}
		store.On("Delete", mock.Anything, mock.Anything).Return(errStorage)
		sessions := app.NewSessionUseCase(store, app.SessionSettings{TTL: time.Hour})

		_, err := sessions.Establish(ctx, api.Handle{ID: "old"}, user)
		require.ErrorIs(t, err, services.ErrInternal)
	})

	t.Run("authenticate read error", func(t *testing.T) {
		store := &mockCache{}
		store.On("Get", mock.Anything, mock.Anything).Return("", errStorage)
		sessions := app.NewSessionUseCase(store, app.SessionSettings{})

		_, err := sessions.Authenticate(ctx, api.Handle{ID: "abc"})
		require.ErrorIs(t, err, services.ErrInternal)
	})

	t.Run("authenticate undecodable value", func(t *testing.T) {
		store := &mockCache{}
		store.On("Get", mock.Anything, mock.Anything).Return("{not json", nil)
		sessions := app.NewSessionUseCase(store, app.SessionSettings{})

		_, err := sessions.Authenticate(ctx, api.Handle{ID: "abc"})
		require.ErrorIs(t, err, services.ErrInternal)
	})

	t.Run("authenticate survives failed extension", func(t *testing.T) {
		store := &mockCache{}
		store.On("Get", mock.Anything, mock.Anything).Return(`{"id":"1","email":"a@example.com"}`, nil)
		store.On("Touch", mock.Anything, mock.Anything, app.DefaultSessionTTL).Return(false, errStorage)
		sessions := app.NewSessionUseCase(store, app.SessionSettings{})

		profile, err := sessions.Authenticate(ctx, api.Handle{ID: "abc"})
		require.NoError(t, err)
		assert.Equal(t, "1", profile.ID)
		store.AssertExpectations(t)
	})

	t.Run("refresh store error", func(t *testing.T) {
		store := &mockCache{}
		store.On("Replace", mock.Anything, mock.Anything, mock.Anything, app.DefaultSessionTTL).Return(false, errStorage)
		sessions := app.NewSessionUseCase(store, app.SessionSettings{})

		require.ErrorIs(t, sessions.Refresh(ctx, api.Handle{ID: "abc"}, user), services.ErrInternal)
	})

	t.Run("logout delete error", func(t *testing.T) {
		store := &mockCache{}
		store.On("Delete", mock.Anything, mock.Anything).Return(errStorage)
		sessions := app.NewSessionUseCase(store, app.SessionSettings{})

		require.ErrorIs(t, sessions.Logout(ctx, api.Handle{ID: "abc"}), services.ErrInternal)
	})
}

func TestSessionUseCase_KeyLayout(t *testing.T) {
	ctx := context.Background()
	store := &mockCache{}
	store.On("Set", mock.Anything, mock.MatchedBy(func(key string) bool {
		// session:<sha256 hex>:user
		return len(key) == len("session:")+64+len(":user") &&
			key[:len("session:")] == "session:" &&
			key[len(key)-len(":user"):] == ":user"
	}), `{"id":"0190b7a2-7c3e-7c4e-9a9b-3d1c2b4a5f60","email":"alice@example.com"}`, time.Hour).Return(nil)

	sessions := app.NewSessionUseCase(store, app.SessionSettings{TTL: time.Hour})
	handle, err := sessions.Establish(ctx, api.Handle{}, existingUser())
	require.NoError(t, err)
	assert.NotContains(t, store.Calls[0].Arguments.String(1), handle.ID)
	store.AssertExpectations(t)
}
