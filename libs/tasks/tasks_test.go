package tasks

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_SpawnRuns(t *testing.T) {
	pool := NewPool()
	t.Cleanup(pool.Stop)

	done := make(chan struct{})
	pool.Spawn("work", func() {
		close(done)
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("spawned work never ran")
	}
}

// TestPool_SpawnDoesNotBlock submits more work than there are workers; the
// submitting goroutine must never wait for a free worker.
func TestPool_SpawnDoesNotBlock(t *testing.T) {
	pool := NewPool(WithWorkers(1))

	release := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		pool.Spawn("work", func() {
			defer wg.Done()
			<-release
		})
	}

	close(release)
	wg.Wait()
	pool.Stop()
}

func TestPool_EscalatesPanics(t *testing.T) {
	critical := make(chan string, 1)
	pool := NewPool(WithOnCritical(func(name string, err error) {
		require.Error(t, err)
		critical <- name
	}))
	t.Cleanup(pool.Stop)

	pool.Spawn("pruner", func() {
		panic("gone")
	})

	select {
	case name := <-critical:
		assert.Equal(t, "pruner", name)
	case <-time.After(time.Second):
		t.Fatal("panic was not escalated")
	}

	// the pool survives the panic and keeps executing work
	done := make(chan struct{})
	pool.Spawn("more work", func() {
		close(done)
	})
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("pool did not recover after panic")
	}
}

// TestPool_PanicUnwindsTaskDefers is the contract the engine's completion
// channel relies on: a panicking task still runs its own deferred cleanup
// before the pool recovers the panic.
func TestPool_PanicUnwindsTaskDefers(t *testing.T) {
	pool := NewPool()
	t.Cleanup(pool.Stop)

	resultCh := make(chan struct{}, 1)
	pool.Spawn("pruner", func() {
		defer close(resultCh)
		panic("gone")
	})

	select {
	case _, ok := <-resultCh:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("task defer did not run")
	}
}
