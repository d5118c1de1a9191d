package prune

import (
	"fmt"
	"time"

	"github.com/sambacha/reth/pruner"
)

// MetricsEnabled toggles pruner metrics registration at construction.
var MetricsEnabled bool

type Config struct {
	// Enabled turns the pruning subsystem on. When disabled, the node
	// keeps all historical data.
	Enabled bool
	// PruneDistance is the number of recent blocks kept behind the
	// canonical head.
	PruneDistance uint64
	// DeleteLimit caps per-segment deletions of a single pass.
	DeleteLimit uint64
	// MinRunInterval is the minimum spacing between two pruning passes.
	MinRunInterval time.Duration
	// TickInterval is how often the engine drives the prune controller.
	TickInterval time.Duration
}

func DefaultConfig() *Config {
	params := pruner.DefaultParams()
	return &Config{
		Enabled:        true,
		PruneDistance:  params.PruneDistance,
		DeleteLimit:    params.DeleteLimit,
		MinRunInterval: params.MinRunInterval,
		TickInterval:   time.Second * 30,
	}
}

func (cfg *Config) Validate() error {
	if !cfg.Enabled {
		return nil
	}
	if cfg.TickInterval <= 0 {
		return fmt.Errorf("prune: invalid tick interval %s, value should be positive", cfg.TickInterval)
	}
	params := cfg.params()
	return params.Validate()
}

func (cfg *Config) params() pruner.Params {
	return pruner.Params{
		PruneDistance:  cfg.PruneDistance,
		DeleteLimit:    cfg.DeleteLimit,
		MinRunInterval: cfg.MinRunInterval,
	}
}
