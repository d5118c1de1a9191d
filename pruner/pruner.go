// Package pruner implements pruning of historical chain data from the
// node's store.
//
// A Pruner performs one bounded pruning pass per Run call. While a pass is
// in flight it holds the store's exclusive write access, so exactly one
// Run may be outstanding at a time; the engine's prune controller owns the
// Pruner and enforces this.
package pruner

import (
	"context"
	"errors"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/ipfs/go-datastore"
	"github.com/ipfs/go-datastore/namespace"
	logging "github.com/ipfs/go-log/v2"

	"github.com/sambacha/reth/chain"
	"github.com/sambacha/reth/store"
)

var log = logging.Logger("pruner")

// Pruner prunes historical chain data outside the configured prune
// distance. It owns its store handle, its canonical chain subscription and
// its persisted progress checkpoint for the lifetime of the node.
//
// Pruner is not internally synchronized.
type Pruner struct {
	store    *store.Store
	cds      datastore.Datastore
	segments []Segment
	sub      *chain.Subscription
	params   Params
	clock    clock.Clock

	checkpoint *checkpoint
	tip        chain.BlockRef
	lastRun    time.Time

	metrics *metrics
}

// New constructs a Pruner pruning the given segments of the store, tracking
// the canonical head through sub.
func New(s *store.Store, sub *chain.Subscription, segments []Segment, opts ...Option) (*Pruner, error) {
	p := &Pruner{
		store:    s,
		cds:      namespace.Wrap(s.Datastore(), storePrefix),
		segments: segments,
		sub:      sub,
		params:   DefaultParams(),
		clock:    clock.New(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if err := p.params.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Run performs a single pruning pass: it resolves the newest canonical
// head from the subscription, acquires the store's write access and prunes
// every segment up to the prune target, bounded by the delete limit.
//
// Run returns ErrNoTip before the first canonical update is observed and a
// *SegmentError when a segment fails mid-pass; both are recoverable and a
// later pass picks up where this one stopped.
func (p *Pruner) Run(ctx context.Context) error {
	if update, ok := p.sub.Latest(); ok {
		p.tip = update.Head
		if update.Reorg {
			log.Warnw("canonical head reorged", "height", p.tip.Height, "hash", p.tip.Hash)
		}
	}
	if p.tip == (chain.BlockRef{}) {
		return ErrNoTip
	}

	if !p.lastRun.IsZero() && p.clock.Since(p.lastRun) < p.params.MinRunInterval {
		log.Debugw("skipping pass, ran too recently", "last_run", p.lastRun)
		return nil
	}

	if p.checkpoint == nil {
		if err := p.loadCheckpoint(ctx); err != nil {
			return err
		}
	}

	if p.tip.Height <= p.params.PruneDistance {
		return nil
	}
	target := p.tip.Height - p.params.PruneDistance

	from := p.checkpoint.LastPrunedHeight + 1
	retry := p.retryHeights()
	if from > target && len(retry) == 0 {
		log.Debugw("nothing to prune", "target", target, "last_pruned", p.checkpoint.LastPrunedHeight)
		return nil
	}

	to := target
	if limit := from + p.params.DeleteLimit - 1; to > limit {
		to = limit
	}

	w, err := p.store.Writer(ctx)
	if err != nil {
		return err
	}
	defer w.Close()

	start := time.Now()
	failed := make(map[uint64]struct{})

	// previously failed heights are retried before fresh work; retries
	// are cleared from the checkpoint only once the batch commits
	var cleared []uint64
	for _, height := range retry {
		if err := p.pruneHeight(ctx, w, height); err != nil {
			log.Errorw("retrying failed height", "height", height, "err", err)
			failed[height] = struct{}{}
			continue
		}
		cleared = append(cleared, height)
	}

	lastPruned := p.checkpoint.LastPrunedHeight
	if from <= to {
		if err := p.pruneRange(ctx, w, from, to, failed); err != nil {
			return err
		}
		lastPruned = to
	}

	if err := w.Commit(ctx); err != nil {
		return err
	}
	for _, height := range cleared {
		delete(p.checkpoint.FailedHeights, height)
	}
	if err := p.updateCheckpoint(ctx, lastPruned, failed); err != nil {
		return err
	}

	p.lastRun = p.clock.Now()
	log.Infow("pruning pass finished",
		"from", from, "to", to, "target", target,
		"failed", len(failed), "took", time.Since(start))
	return nil
}

// pruneRange prunes [from:to] across all segments, recording per-height
// failures without aborting the pass.
func (p *Pruner) pruneRange(
	ctx context.Context,
	w *store.Writer,
	from, to uint64,
	failed map[uint64]struct{},
) error {
	for _, segment := range p.segments {
		// a failed height is recorded and the segment resumes right
		// after it, so the heights behind it are not left unpruned
		segFrom := from
		for segFrom <= to {
			deleted, err := segment.Prune(ctx, w, segFrom, to)
			p.metrics.observePrune(ctx, segment.Name(), deleted)
			if err == nil {
				log.Debugw("segment pruned", "segment", segment.Name(),
					"from", segFrom, "to", to, "deleted", deleted)
				break
			}

			var segErr *SegmentError
			if !errors.As(err, &segErr) {
				return err
			}
			if segErr.Height < segFrom || segErr.Height > to {
				return segErr
			}
			log.Errorw("segment failed", "segment", segment.Name(),
				"height", segErr.Height, "err", err)
			failed[segErr.Height] = struct{}{}
			segFrom = segErr.Height + 1
		}
	}
	return nil
}

// pruneHeight reprunes a single previously failed height across all
// segments.
func (p *Pruner) pruneHeight(ctx context.Context, w *store.Writer, height uint64) error {
	for _, segment := range p.segments {
		deleted, err := segment.Prune(ctx, w, height, height)
		p.metrics.observePrune(ctx, segment.Name(), deleted)
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *Pruner) retryHeights() []uint64 {
	if len(p.checkpoint.FailedHeights) == 0 {
		return nil
	}
	heights := make([]uint64, 0, len(p.checkpoint.FailedHeights))
	for height := range p.checkpoint.FailedHeights {
		heights = append(heights, height)
	}
	return heights
}

// Close releases the pruner's canonical chain subscription and metrics.
func (p *Pruner) Close() error {
	p.sub.Cancel()
	return p.metrics.close()
}
