package pubsub

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// DefaultBuffer is the per-subscriber channel capacity.
const DefaultBuffer = 16

type SubscriptionID int64

type Pubsub[T any] struct {
	nextID      SubscriptionID
	buffer      int
	subscribers map[SubscriptionID]chan T
	mu          sync.RWMutex
}

func New[T any]() *Pubsub[T] {
	return NewBuffered[T](DefaultBuffer)
}

// NewBuffered creates a pubsub whose subscriber channels hold up to
// buffer undelivered messages. Publish never blocks; messages to a full
// subscriber are dropped.
func NewBuffered[T any](buffer int) *Pubsub[T] {
	if buffer < 0 {
		buffer = 0
	}
	return &Pubsub[T]{
		buffer:      buffer,
		subscribers: make(map[SubscriptionID]chan T),
	}
}

func (ps *Pubsub[T]) Subscribe() (SubscriptionID, <-chan T) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	ch := make(chan T, ps.buffer)
	id := ps.nextID

	ps.subscribers[id] = ch
	ps.nextID += 1

	return id, ch
}

func (ps *Pubsub[T]) Unsubscribe(id SubscriptionID) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	ch, ok := ps.subscribers[id]
	if !ok {
		return
	}

	delete(ps.subscribers, id)
	close(ch)
}

func (ps *Pubsub[T]) Len() int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	return len(ps.subscribers)
}

// Close unsubscribes everyone.
func (ps *Pubsub[T]) Close() {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	for id, ch := range ps.subscribers {
		delete(ps.subscribers, id)
		close(ch)
	}
}

func (ps *Pubsub[T]) Publish(msg T) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	for id, ch := range ps.subscribers {
		select {
		case ch <- msg:
		default:
			log.Warn().
				Str("component", "pubsub").
				Int64("subscription_id", int64(id)).
				Interface("message", msg).
				Msg("Message dropped, channel full")
		}
	}
}
