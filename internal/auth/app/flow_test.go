package app_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"sessionauth/internal/auth/adapters/memory"
	"sessionauth/internal/auth/adapters/services"
	"sessionauth/internal/auth/app"
	domain "sessionauth/internal/auth/domain/services"
	"sessionauth/internal/auth/ports/api"
)

type authStack struct {
	users    api.UserUseCase
	auth     api.AuthUseCase
	sessions api.SessionUseCase
}

func newAuthStack() authStack {
	hasher := services.NewBcrypt(bcrypt.MinCost)
	users := app.NewUserUseCase(memory.NewUserRepository(), hasher)
	return authStack{
		users:    users,
		auth:     app.NewAuthUseCase(users, hasher),
		sessions: app.NewSessionUseCase(memory.NewCache(), app.SessionSettings{TTL: time.Hour}),
	}
}

func TestFlow_RegisterTwiceConflicts(t *testing.T) {
	ctx := context.Background()
	stack := newAuthStack()

	_, err := stack.auth.Register(ctx, "dup@example.com", "Secur3Pass!")
	require.NoError(t, err)

	_, err = stack.auth.Register(ctx, "DUP@example.com", "Other3Pass!")
	require.ErrorIs(t, err, domain.ErrConflict)
}

func TestFlow_RegisterThenFindCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	stack := newAuthStack()

	registered, err := stack.auth.Register(ctx, "A@Example.com", "Secur3Pass!")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", registered.Email)

	found, err := stack.users.FindByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, found.ID)
	assert.NotEqual(t, "Secur3Pass!", found.PasswordHash)
}

func TestFlow_Login(t *testing.T) {
	ctx := context.Background()
	stack := newAuthStack()
	registered, err := stack.auth.Register(ctx, "login@example.com", "Secur3Pass!")
	require.NoError(t, err)

	user, err := stack.auth.Login(ctx, "Login@Example.com", "Secur3Pass!")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	_, err = stack.auth.Login(ctx, "login@example.com", "wrong-password")
	require.ErrorIs(t, err, domain.ErrCredentialMismatch)

	_, err = stack.auth.Login(ctx, "nobody@example.com", "Secur3Pass!")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFlow_ChangePassword(t *testing.T) {
	ctx := context.Background()
	stack := newAuthStack()
	user, err := stack.auth.Register(ctx, "rotate@example.com", "oldpass123")
	require.NoError(t, err)

	_, err = stack.auth.ChangePassword(ctx, user.ID, "oldpass123", "oldpass123")
	require.ErrorIs(t, err, domain.ErrPasswordUnchanged)

	_, err = stack.auth.ChangePassword(ctx, user.ID, "wrongold", "newpass123")
	require.ErrorIs(t, err, domain.ErrCredentialMismatch)

	_, err = stack.auth.ChangePassword(ctx, user.ID, "oldpass123", "newpass123")
	require.NoError(t, err)

	_, err = stack.auth.Login(ctx, "rotate@example.com", "newpass123")
	require.NoError(t, err)
	_, err = stack.auth.Login(ctx, "rotate@example.com", "oldpass123")
	require.ErrorIs(t, err, domain.ErrCredentialMismatch)
}

func TestFlow_SessionIdentity(t *testing.T) {
	ctx := context.Background()
	stack := newAuthStack()

	_, err := stack.sessions.Authenticate(ctx, api.Handle{})
	require.ErrorIs(t, err, domain.ErrUnauthenticated)

	user, err := stack.auth.Register(ctx, "session@example.com", "Secur3Pass!")
	require.NoError(t, err)

	handle, err := stack.sessions.Establish(ctx, api.Handle{}, user)
	require.NoError(t, err)

	profile, err := stack.sessions.Authenticate(ctx, handle)
	require.NoError(t, err)
	assert.Equal(t, user.ID, profile.ID)
	assert.Equal(t, user.Email, profile.Email)

	require.NoError(t, stack.sessions.Logout(ctx, handle))
	_, err = stack.sessions.Authenticate(ctx, handle)
	require.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestFlow_ConcurrentRegistrationSingleWinner(t *testing.T) {
	ctx := context.Background()
	stack := newAuthStack()

	const workers = 8
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = stack.auth.Register(ctx, "race@example.com", "Secur3Pass!")
		}()
	}
	wg.Wait()

	var created, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			created++
		case domain.Kind(err) == domain.KindConflict:
			conflicts++
		}
	}
	assert.Equal(t, 1, created)
	assert.Equal(t, workers-1, conflicts)
}
