package shutdown_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"sessionauth/pkg/shutdown"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestWait_ContextCancelRunsHooks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := shutdown.Wait(ctx, time.Second,
		func(context.Context) error { calls.Add(1); return nil },
		func(context.Context) error { calls.Add(1); return nil },
	)

	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestRun(t *testing.T) {
	errHook := errors.New("close failed")

	tests := []struct {
		name    string
		timeout time.Duration
		hooks   []shutdown.Hook
		wantErr error
	}{
		{
			name:    "no hooks",
			timeout: time.Second,
		},
		{
			name:    "hook error is returned",
			timeout: time.Second,
			hooks: []shutdown.Hook{
				func(context.Context) error { return nil },
				func(context.Context) error { return errHook },
			},
			wantErr: errHook,
		},
		{
			name:    "slow hook times out",
			timeout: 20 * time.Millisecond,
			hooks: []shutdown.Hook{
				func(ctx context.Context) error {
					<-ctx.Done()
					return ctx.Err()
				},
			},
			wantErr: shutdown.ErrTimeout,
		},
	}

	for _, ttt := range tests {
		t.Run(ttt.name, func(t *testing.T) {
			err := shutdown.Run(context.Background(), ttt.timeout, ttt.hooks...)
			if ttt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ttt.wantErr)
		})
	}
}

func TestSequence(t *testing.T) {
	errHook := errors.New("close failed")

	t.Run("runs hooks in order and keeps going after errors", func(t *testing.T) {
		var order []string
		hook := shutdown.Sequence(
			func(context.Context) error { order = append(order, "http"); return errHook },
			func(context.Context) error { order = append(order, "db"); return nil },
			func(context.Context) error { order = append(order, "sessions"); return nil },
		)

		err := hook(context.Background())

		require.ErrorIs(t, err, errHook)
		assert.Equal(t, []string{"http", "db", "sessions"}, order)
	})

	t.Run("later stage starts after earlier one finished", func(t *testing.T) {
		var httpStopped atomic.Bool
		var storeClosedEarly atomic.Bool

		err := shutdown.Run(context.Background(), time.Second, shutdown.Sequence(
			func(context.Context) error {
				time.Sleep(20 * time.Millisecond)
				httpStopped.Store(true)
				return nil
			},
			func(context.Context) error {
				storeClosedEarly.Store(!httpStopped.Load())
				return nil
			},
		))

		require.NoError(t, err)
		assert.False(t, storeClosedEarly.Load())
	})

	t.Run("stops on cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		var calls atomic.Int32
		hook := shutdown.Sequence(
			func(context.Context) error { calls.Add(1); cancel(); return nil },
			func(context.Context) error { calls.Add(1); return nil },
		)

		err := hook(ctx)

		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, int32(1), calls.Load())
	})
}
