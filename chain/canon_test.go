package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonFeed_LatestWins(t *testing.T) {
	feed := NewCanonFeed()
	sub := feed.Subscribe()
	t.Cleanup(sub.Cancel)

	_, ok := sub.Latest()
	assert.False(t, ok)

	feed.Send(CanonUpdate{Head: BlockRef{Height: 1}})
	feed.Send(CanonUpdate{Head: BlockRef{Height: 2}})
	feed.Send(CanonUpdate{Head: BlockRef{Height: 3}, Reorg: true})

	// an undrained subscriber only observes the newest update
	update, ok := sub.Latest()
	require.True(t, ok)
	assert.Equal(t, uint64(3), update.Head.Height)
	assert.True(t, update.Reorg)

	// drained, nothing pending
	_, ok = sub.Latest()
	assert.False(t, ok)
}

func TestCanonFeed_MultipleSubscribers(t *testing.T) {
	feed := NewCanonFeed()
	first := feed.Subscribe()
	t.Cleanup(first.Cancel)
	second := feed.Subscribe()
	t.Cleanup(second.Cancel)

	feed.Send(CanonUpdate{Head: BlockRef{Height: 7}})

	update, ok := first.Latest()
	require.True(t, ok)
	assert.Equal(t, uint64(7), update.Head.Height)

	update, ok = second.Latest()
	require.True(t, ok)
	assert.Equal(t, uint64(7), update.Head.Height)
}

func TestCanonFeed_Cancel(t *testing.T) {
	feed := NewCanonFeed()
	sub := feed.Subscribe()

	sub.Cancel()
	// cancelling twice is a no-op
	sub.Cancel()

	feed.Send(CanonUpdate{Head: BlockRef{Height: 1}})
	_, ok := sub.Latest()
	assert.False(t, ok)
}
