package prune

import (
	"github.com/sambacha/reth/chain"
	"github.com/sambacha/reth/engine"
	"github.com/sambacha/reth/libs/tasks"
	"github.com/sambacha/reth/pruner"
	"github.com/sambacha/reth/store"
)

func newPruner(cfg Config, s *store.Store, feed *chain.CanonFeed) (*pruner.Pruner, error) {
	segments := []pruner.Segment{
		pruner.NewHeaderSegment(),
		pruner.NewTxSegment(),
		pruner.NewReceiptSegment(),
	}
	params := cfg.params()

	p, err := pruner.New(s, feed.Subscribe(), segments,
		pruner.WithPruneDistance(params.PruneDistance),
		pruner.WithDeleteLimit(params.DeleteLimit),
		pruner.WithMinRunInterval(params.MinRunInterval),
	)
	if err != nil {
		return nil, err
	}
	if MetricsEnabled {
		if err := p.WithMetrics(); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func newPruneController(p *pruner.Pruner, spawner tasks.Spawner) *engine.PruneController {
	return engine.NewPruneController(p, spawner)
}

func newService(cfg Config, ctrl *engine.PruneController) *engine.Service {
	return engine.NewService(ctrl,
		engine.WithTickInterval(cfg.TickInterval),
	)
}
