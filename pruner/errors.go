package pruner

import (
	"errors"
	"fmt"
)

// ErrNoTip is returned by a pruning pass that runs before any canonical
// chain update has been observed. It is recoverable: the pass can be
// retried once the chain advances.
var ErrNoTip = errors.New("pruner: no canonical tip observed yet")

// SegmentError reports a failure while pruning a single segment at a
// specific height.
type SegmentError struct {
	Segment string
	Height  uint64
	Err     error
}

func (e *SegmentError) Error() string {
	return fmt.Sprintf("pruner: segment %s failed at height %d: %s", e.Segment, e.Height, e.Err)
}

func (e *SegmentError) Unwrap() error {
	return e.Err
}
