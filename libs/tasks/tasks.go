// Package tasks provides non-blocking execution of background work.
//
// Work submitted through a Spawner runs off the caller's goroutine. A panic
// in submitted work is treated as a critical, process-level event: it is
// logged and escalated through the pool's critical callback rather than
// crashing the worker silently.
package tasks

import (
	"fmt"

	"github.com/gammazero/workerpool"
	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("tasks")

// Spawner accepts a named unit of work and executes it without blocking
// the caller.
type Spawner interface {
	// Spawn enqueues fn for execution. It returns immediately.
	Spawn(name string, fn func())
}

// Option configures a Pool.
type Option func(*Pool)

// WithOnCritical sets the callback invoked when a spawned task terminates
// abnormally. The callback runs on the worker goroutine.
func WithOnCritical(fn func(name string, err error)) Option {
	return func(p *Pool) {
		p.onCritical = fn
	}
}

// WithWorkers sets the number of pool workers.
func WithWorkers(n int) Option {
	return func(p *Pool) {
		p.workers = n
	}
}

// Pool is a workerpool-backed Spawner.
type Pool struct {
	wp      *workerpool.WorkerPool
	workers int

	onCritical func(name string, err error)
}

// NewPool constructs a started Pool.
func NewPool(opts ...Option) *Pool {
	p := &Pool{workers: 1}
	for _, opt := range opts {
		opt(p)
	}
	p.wp = workerpool.New(p.workers)
	return p
}

// Spawn submits fn to the pool. Submission never blocks: workerpool queues
// the task if all workers are busy.
//
// Panics inside fn unwind through fn's own deferred functions first, then
// are recovered here and escalated.
func (p *Pool) Spawn(name string, fn func()) {
	p.wp.Submit(func() {
		defer func() {
			if r := recover(); r != nil {
				err := fmt.Errorf("critical task %q panicked: %v", name, r)
				log.Errorw("task terminated abnormally", "task", name, "panic", r)
				if p.onCritical != nil {
					p.onCritical(name, err)
				}
			}
		}()
		fn()
	})
}

// Stop waits for queued tasks to finish and releases the pool's workers.
func (p *Pool) Stop() {
	p.wp.StopWait()
}
