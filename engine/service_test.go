package engine

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sambacha/reth/libs/tasks"
)

func TestService_ActiveFollowsRun(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	t.Cleanup(cancel)

	mock := clock.NewMock()
	pool := tasks.NewPool()
	t.Cleanup(pool.Stop)

	runner := &blockingRunner{release: make(chan struct{})}
	serv := NewService(
		NewPruneController(runner, pool),
		WithClock(mock),
		WithTickInterval(time.Second),
	)

	require.NoError(t, serv.Start(ctx))
	t.Cleanup(func() {
		require.NoError(t, serv.Stop(ctx))
	})

	assert.False(t, serv.Active())

	// a tick starts the run, which then blocks holding the write path
	require.Eventually(t, func() bool {
		mock.Add(time.Second)
		return serv.Active()
	}, time.Second*2, time.Millisecond*10)

	close(runner.release)

	// once the run finishes, a later tick observes completion
	require.Eventually(t, func() bool {
		mock.Add(time.Second)
		return !serv.Active()
	}, time.Second*2, time.Millisecond*10)
}

func TestService_EscalatesDroppedRun(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	t.Cleanup(cancel)

	mock := clock.NewMock()
	pool := tasks.NewPool()
	t.Cleanup(pool.Stop)

	critical := make(chan error, 1)
	serv := NewService(
		NewPruneController(&mockRunner{panics: true}, pool),
		WithClock(mock),
		WithTickInterval(time.Second),
		WithOnCritical(func(err error) {
			select {
			case critical <- err:
			default:
			}
		}),
	)

	require.NoError(t, serv.Start(ctx))
	t.Cleanup(func() {
		require.NoError(t, serv.Stop(ctx))
	})

	var got error
	require.Eventually(t, func() bool {
		mock.Add(time.Second)
		select {
		case got = <-critical:
			return true
		default:
			return false
		}
	}, time.Second*2, time.Millisecond*10)

	assert.ErrorIs(t, got, ErrPrunerLost)
	// the runner is gone for good, the subsystem stays marked active
	assert.True(t, serv.Active())
}

func TestService_StartTwice(t *testing.T) {
	ctx := context.Background()
	serv := NewService(NewPruneController(&mockRunner{}, newManualSpawner()))

	require.NoError(t, serv.Start(ctx))
	assert.Error(t, serv.Start(ctx))
	require.NoError(t, serv.Stop(ctx))
}

// blockingRunner blocks its pass until released.
type blockingRunner struct {
	release chan struct{}
}

func (r *blockingRunner) Run(ctx context.Context) error {
	select {
	case <-r.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
