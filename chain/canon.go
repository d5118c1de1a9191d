package chain

import (
	"encoding/hex"
	"sync"
)

// Hash is a 32-byte block hash.
type Hash [32]byte

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// BlockRef identifies a block on the canonical chain.
type BlockRef struct {
	Height uint64
	Hash   Hash
}

// CanonUpdate notifies subscribers that the canonical head has moved.
// Reorg is set when the update rewrote previously canonical blocks.
type CanonUpdate struct {
	Head  BlockRef
	Reorg bool
}

// CanonFeed broadcasts canonical chain updates to subscribers.
//
// Delivery is best-effort latest-wins: a subscriber that has not drained
// its previous update only ever observes the newest one. Consumers that
// care about the current head, not the full history, never fall behind.
type CanonFeed struct {
	mu   sync.Mutex
	subs map[*Subscription]struct{}
}

func NewCanonFeed() *CanonFeed {
	return &CanonFeed{subs: make(map[*Subscription]struct{})}
}

// Subscribe registers a new subscriber. The returned Subscription must be
// cancelled once no longer needed.
func (f *CanonFeed) Subscribe() *Subscription {
	sub := &Subscription{
		updates: make(chan CanonUpdate, 1),
		cancel:  func() {},
	}
	sub.cancel = func() {
		f.mu.Lock()
		delete(f.subs, sub)
		f.mu.Unlock()
	}

	f.mu.Lock()
	f.subs[sub] = struct{}{}
	f.mu.Unlock()
	return sub
}

// Send delivers the update to all subscribers without blocking. A pending
// undrained update is replaced by the new one.
func (f *CanonFeed) Send(update CanonUpdate) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for sub := range f.subs {
		for {
			select {
			case sub.updates <- update:
			default:
				// drop the stale update and retry with the new one
				select {
				case <-sub.updates:
				default:
				}
				continue
			}
			break
		}
	}
}

// Subscription delivers canonical chain updates to a single consumer.
type Subscription struct {
	updates chan CanonUpdate

	cancelOnce sync.Once
	cancel     func()
}

// Updates returns the channel on which updates are delivered.
func (s *Subscription) Updates() <-chan CanonUpdate {
	return s.updates
}

// Latest drains the subscription without blocking and returns the newest
// pending update, if any.
func (s *Subscription) Latest() (CanonUpdate, bool) {
	var (
		latest CanonUpdate
		ok     bool
	)
	for {
		select {
		case update := <-s.updates:
			latest, ok = update, true
		default:
			return latest, ok
		}
	}
}

// Cancel unregisters the subscription from its feed.
func (s *Subscription) Cancel() {
	s.cancelOnce.Do(s.cancel)
}
