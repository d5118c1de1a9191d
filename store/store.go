package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/ipfs/go-datastore"
	dssync "github.com/ipfs/go-datastore/sync"
	dsbadger "github.com/ipfs/go-ds-badger4"
	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("store")

// ErrOpened is thrown on attempt to open an already open/in-use Store.
var ErrOpened = errors.New("store: already in use")

// Store provides access to the node's chain data. It enforces the
// single-writer discipline of the underlying database: at most one Writer
// exists at any time, and Writer acquisition blocks until the previous
// writer is released.
//
// Long-running holders of the write path (the pruner) must therefore be
// coordinated with the chain's own write path, or the node deadlocks.
type Store struct {
	ds datastore.Batching

	// guards the write path; see Writer
	writeSem chan struct{}

	dirLock *flock.Flock
	closed  func() error
}

// Open opens a badger-backed Store under the given path. It takes a file
// lock on the directory, so only one process can own the store at a time.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, err
	}

	dirLock := flock.New(filepath.Join(path, "LOCK"))
	ok, err := dirLock.TryLock()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrOpened
	}

	opts := dsbadger.DefaultOptions
	// Writes are height-keyed and unique, no conflict detection needed.
	opts.DetectConflicts = false

	ds, err := dsbadger.NewDatastore(filepath.Join(path, "data"), &opts)
	if err != nil {
		dirLock.Unlock() //nolint:errcheck
		return nil, fmt.Errorf("store: can't open badger datastore: %w", err)
	}

	log.Infow("opened store", "path", path)

	s := NewStore(ds)
	s.dirLock = dirLock
	s.closed = ds.Close
	return s, nil
}

// NewMemStore returns an in-memory Store, used in tests.
func NewMemStore() *Store {
	return NewStore(dssync.MutexWrap(datastore.NewMapDatastore()))
}

// NewStore wraps an existing datastore in a Store. The caller keeps
// ownership of the datastore's lifecycle.
func NewStore(ds datastore.Batching) *Store {
	writeSem := make(chan struct{}, 1)
	writeSem <- struct{}{}
	return &Store{ds: ds, writeSem: writeSem}
}

// Datastore returns the raw datastore for read access and namespacing.
func (s *Store) Datastore() datastore.Batching {
	return s.ds
}

// Writer blocks until exclusive write access is granted and returns a
// Writer over a fresh batch. The write path is released by Close.
func (s *Store) Writer(ctx context.Context) (*Writer, error) {
	select {
	case <-s.writeSem:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	batch, err := s.ds.Batch(ctx)
	if err != nil {
		s.writeSem <- struct{}{}
		return nil, err
	}
	return &Writer{batch: batch, release: func() { s.writeSem <- struct{}{} }}, nil
}

// Close releases the store and its directory lock.
func (s *Store) Close() error {
	if s.closed != nil {
		if err := s.closed(); err != nil {
			return err
		}
	}
	if s.dirLock != nil {
		return s.dirLock.Unlock()
	}
	return nil
}

// Writer holds the store's exclusive write access over a single batch.
type Writer struct {
	batch   datastore.Batch
	release func()
	done    bool
}

func (w *Writer) Put(ctx context.Context, key datastore.Key, value []byte) error {
	return w.batch.Put(ctx, key, value)
}

func (w *Writer) Delete(ctx context.Context, key datastore.Key) error {
	return w.batch.Delete(ctx, key)
}

// Commit flushes the batch. The writer still holds the write path until
// Close is called.
func (w *Writer) Commit(ctx context.Context) error {
	return w.batch.Commit(ctx)
}

// Close releases the write path without committing pending operations.
// It is safe to call after Commit.
func (w *Writer) Close() {
	if w.done {
		return
	}
	w.done = true
	w.release()
}
