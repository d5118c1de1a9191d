package pruner

import (
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
)

type Option func(*Pruner)

type Params struct {
	// PruneDistance is the number of most recent blocks kept behind the
	// canonical head. Everything older is eligible for pruning.
	PruneDistance uint64
	// DeleteLimit caps how many heights a single pass prunes per segment,
	// bounding the time the pass holds the store's write access.
	DeleteLimit uint64
	// MinRunInterval is the minimum time between two pruning passes.
	// A pass started earlier is skipped without touching the store.
	MinRunInterval time.Duration
}

func DefaultParams() Params {
	return Params{
		PruneDistance:  10_000,
		DeleteLimit:    1024,
		MinRunInterval: time.Minute * 5,
	}
}

func (p *Params) Validate() error {
	if p.PruneDistance == 0 {
		return fmt.Errorf("invalid prune distance %d, value should be positive and non-zero", p.PruneDistance)
	}
	if p.DeleteLimit == 0 {
		return fmt.Errorf("invalid delete limit %d, value should be positive and non-zero", p.DeleteLimit)
	}
	return nil
}

// WithPruneDistance configures how many recent blocks are never pruned.
func WithPruneDistance(distance uint64) Option {
	return func(p *Pruner) {
		p.params.PruneDistance = distance
	}
}

// WithDeleteLimit configures the per-segment deletion cap of one pass.
func WithDeleteLimit(limit uint64) Option {
	return func(p *Pruner) {
		p.params.DeleteLimit = limit
	}
}

// WithMinRunInterval configures the minimum spacing between passes.
func WithMinRunInterval(interval time.Duration) Option {
	return func(p *Pruner) {
		p.params.MinRunInterval = interval
	}
}

// WithClock overrides the pruner clock, used in tests.
func WithClock(c clock.Clock) Option {
	return func(p *Pruner) {
		p.clock = c
	}
}
