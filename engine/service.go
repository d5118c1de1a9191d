package engine

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
)

// ErrPrunerLost is escalated when the spawned pruning run terminates
// without reporting back. Pruning is disabled until the node restarts.
var ErrPrunerLost = errors.New("engine: pruner task dropped, pruning disabled until restart")

// DefaultTickInterval is how often the service drives the prune
// controller when no completion wakeup arrives.
var DefaultTickInterval = time.Second * 30

type ServiceOption func(*Service)

// WithTickInterval configures how often the service advances the
// controller.
func WithTickInterval(interval time.Duration) ServiceOption {
	return func(s *Service) {
		s.tick = interval
	}
}

// WithClock overrides the service clock, used in tests.
func WithClock(c clock.Clock) ServiceOption {
	return func(s *Service) {
		s.clock = c
	}
}

// WithOnCritical sets the callback escalating an unrecoverable loss of the
// pruning run. It is invoked at most once.
func WithOnCritical(fn func(error)) ServiceOption {
	return func(s *Service) {
		s.onCritical = fn
	}
}

// Service owns the PruneController and drives it from a single goroutine,
// advancing it on every clock tick. It is the node-facing surface of the
// pruning subsystem.
type Service struct {
	ctrl *PruneController

	clock      clock.Clock
	tick       time.Duration
	onCritical func(error)

	// mirrors the controller's activity for callers outside the run loop
	active atomic.Bool

	cancel context.CancelFunc
	done   chan struct{}
}

func NewService(ctrl *PruneController, opts ...ServiceOption) *Service {
	s := &Service{
		ctrl:  ctrl,
		clock: clock.New(),
		tick:  DefaultTickInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Start(context.Context) error {
	if s.cancel != nil {
		return fmt.Errorf("engine: prune service already started")
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.run(ctx)
	return nil
}

func (s *Service) Stop(ctx context.Context) error {
	if s.cancel == nil {
		return nil
	}
	s.cancel()
	s.cancel = nil

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Active reports whether a pruning run currently holds the store's write
// path. The node must defer store-mutating operations while it is true.
func (s *Service) Active() bool {
	return s.active.Load()
}

func (s *Service) run(ctx context.Context) {
	defer close(s.done)

	ticker := s.clock.Ticker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		event, ok := s.ctrl.Advance(ctx)
		s.active.Store(s.ctrl.IsActive())
		if !ok {
			continue
		}

		switch event.Type {
		case EventStarted:
			log.Info("pruning run started")
		case EventFinished:
			if event.Result != nil {
				log.Errorw("pruning run failed", "err", event.Result)
				continue
			}
			log.Info("pruning run finished")
		case EventTaskDropped:
			log.Error("pruning task dropped, disabling pruning until restart")
			if s.onCritical != nil {
				s.onCritical(ErrPrunerLost)
			}
			return
		}
	}
}
