package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/babylonlabs-io/staking-ledger/internal/types"
)

func TestBroadcaster(t *testing.T) {
	b := NewBroadcaster()

	events, unsubscribe := b.Subscribe()
	slow, unsubscribeSlow := b.Subscribe()
	defer unsubscribeSlow()
	assert.Equal(t, 2, b.SubscriberCount())

	// slow never reads, broadcasting past its buffer must not block
	for i := range subscriberBufferSize + 10 {
		b.Broadcast(&types.LedgerEvent{Sequence: uint64(i + 1)})
		ev := <-events
		require.Equal(t, uint64(i+1), ev.Sequence)
	}
	assert.Len(t, slow, subscriberBufferSize)

	unsubscribe()
	unsubscribe()
	assert.Equal(t, 1, b.SubscriberCount())
	_, open := <-events
	assert.False(t, open)
}
