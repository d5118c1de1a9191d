package pruner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ipfs/go-datastore"
)

var (
	storePrefix           = datastore.NewKey("pruner")
	checkpointKey         = datastore.NewKey("checkpoint")
	errCheckpointNotFound = errors.New("checkpoint not found")
)

// checkpoint contains information related to the progress of the pruner
// that is persisted to disk after every pass.
type checkpoint struct {
	LastPrunedHeight uint64              `json:"last_pruned_height"`
	FailedHeights    map[uint64]struct{} `json:"failed"`
}

func newCheckpoint(lastPruned uint64) *checkpoint {
	return &checkpoint{
		LastPrunedHeight: lastPruned,
		FailedHeights:    map[uint64]struct{}{},
	}
}

// storeCheckpoint persists the checkpoint to disk.
func storeCheckpoint(ctx context.Context, ds datastore.Datastore, c *checkpoint) error {
	bin, err := json.Marshal(c)
	if err != nil {
		return err
	}

	return ds.Put(ctx, checkpointKey, bin)
}

// getCheckpoint loads the last checkpoint from disk.
func getCheckpoint(ctx context.Context, ds datastore.Datastore) (*checkpoint, error) {
	bin, err := ds.Get(ctx, checkpointKey)
	if err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			return nil, errCheckpointNotFound
		}
		return nil, fmt.Errorf("failed to load checkpoint: %w", err)
	}

	var cp *checkpoint
	err = json.Unmarshal(bin, &cp)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal checkpoint: %w", err)
	}

	return cp, nil
}

// loadCheckpoint loads the last checkpoint from disk, initializing it if it
// does not already exist.
func (p *Pruner) loadCheckpoint(ctx context.Context) error {
	cp, err := getCheckpoint(ctx, p.cds)
	if errors.Is(err, errCheckpointNotFound) {
		p.checkpoint = newCheckpoint(0)
		return storeCheckpoint(ctx, p.cds, p.checkpoint)
	}
	if err != nil {
		return err
	}

	p.checkpoint = cp
	return nil
}

// updateCheckpoint updates the checkpoint with the last pruned height and
// any heights that failed during the pass, and persists it to disk.
func (p *Pruner) updateCheckpoint(
	ctx context.Context,
	lastPrunedHeight uint64,
	failedHeights map[uint64]struct{},
) error {
	for height := range failedHeights {
		p.checkpoint.FailedHeights[height] = struct{}{}
	}

	p.checkpoint.LastPrunedHeight = lastPrunedHeight
	return storeCheckpoint(ctx, p.cds, p.checkpoint)
}
