package pruner

import (
	"context"

	"github.com/ipfs/go-datastore"

	"github.com/sambacha/reth/store"
)

// Segment prunes one table of height-keyed chain data.
type Segment interface {
	Name() string
	// Prune deletes the segment's entries in the inclusive height range
	// [from:to] through the given writer, returning the number of
	// deleted entries.
	Prune(ctx context.Context, w *store.Writer, from, to uint64) (int, error)
}

// tableSegment prunes a height-keyed datastore table.
type tableSegment struct {
	name   string
	prefix datastore.Key
}

// NewHeaderSegment prunes historical block headers.
func NewHeaderSegment() Segment {
	return &tableSegment{name: "headers", prefix: store.HeaderPrefix}
}

// NewTxSegment prunes historical transaction bodies.
func NewTxSegment() Segment {
	return &tableSegment{name: "transactions", prefix: store.TxPrefix}
}

// NewReceiptSegment prunes historical transaction receipts.
func NewReceiptSegment() Segment {
	return &tableSegment{name: "receipts", prefix: store.ReceiptPrefix}
}

func (s *tableSegment) Name() string {
	return s.name
}

func (s *tableSegment) Prune(ctx context.Context, w *store.Writer, from, to uint64) (int, error) {
	deleted := 0
	for height := from; height <= to; height++ {
		if err := w.Delete(ctx, store.HeightKey(s.prefix, height)); err != nil {
			return deleted, &SegmentError{Segment: s.name, Height: height, Err: err}
		}
		deleted++
	}
	return deleted, nil
}
