// Package events fans committed engine events out to in-process subscribers
// and, when configured, to NATS for downstream consumers.
package events

import (
	"sync"

	"auctionhouse/internal/models"
)

// Bus is a non-blocking fan-out of engine events. Slow subscribers drop
// events rather than stall the engine.
type Bus struct {
	mu   sync.Mutex
	subs map[chan models.Event]struct{}
}

func NewBus() *Bus {
	return &Bus{subs: make(map[chan models.Event]struct{})}
}

// Subscribe returns a buffered channel of events and a cancel func that
// closes it.
func (b *Bus) Subscribe() (<-chan models.Event, func()) {
	ch := make(chan models.Event, 64)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if _, ok := b.subs[ch]; ok {
			delete(b.subs, ch)
			close(ch)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

func (b *Bus) Publish(ev models.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
