package services

import (
	"sync"

	"github.com/babylonlabs-io/staking-ledger/internal/observability/metrics"
	"github.com/babylonlabs-io/staking-ledger/internal/types"
)

const subscriberBufferSize = 256

// Broadcaster fans committed events out to stream subscribers. It never
// blocks a commit: a subscriber whose buffer is full misses the event.
type Broadcaster struct {
	mu          sync.Mutex
	subscribers map[chan *types.LedgerEvent]struct{}
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[chan *types.LedgerEvent]struct{}),
	}
}

// Subscribe registers a new subscriber. The returned function unsubscribes and
// closes the channel, it's safe to call more than once.
func (b *Broadcaster) Subscribe() (<-chan *types.LedgerEvent, func()) {
	ch := make(chan *types.LedgerEvent, subscriberBufferSize)

	b.mu.Lock()
	b.subscribers[ch] = struct{}{}
	b.mu.Unlock()
	metrics.IncStreamSubscribers()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subscribers, ch)
			b.mu.Unlock()
			close(ch)
			metrics.DecStreamSubscribers()
		})
	}
}

func (b *Broadcaster) Broadcast(ev *types.LedgerEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for ch := range b.subscribers {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (b *Broadcaster) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.subscribers)
}

// Subscribe attaches a new event stream subscriber.
func (s *Service) Subscribe() (<-chan *types.LedgerEvent, func()) {
	return s.broadcaster.Subscribe()
}

func (s *Service) SubscriberCount() int {
	return s.broadcaster.SubscriberCount()
}
