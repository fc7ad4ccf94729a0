// Package notify delivers "data changed, re-fetch" notices to connected clients.
package notify

import (
	"context"
	"log/slog"
	"sync"

	models "sation/internal/domain/models/docsystem"
	"sation/internal/domain/services"
)

// DefaultBuffer is the per-subscriber queue length.
const DefaultBuffer = 16

var (
	_ services.ChangePublisher  = (*Broker)(nil)
	_ services.ChangeSubscriber = (*Broker)(nil)
)

// Broker fans changes out to in-process subscribers, keyed by owner.
// A slow subscriber drops notices rather than blocking the publisher;
// clients re-fetch on the next notice anyway.
type Broker struct {
	mu     sync.RWMutex
	subs   map[string]map[chan models.Change]struct{}
	buffer int
	logger *slog.Logger
}

// NewBroker creates an in-process broker
func NewBroker(buffer int, logger *slog.Logger) *Broker {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Broker{
		subs:   make(map[string]map[chan models.Change]struct{}),
		buffer: buffer,
		logger: logger,
	}
}

// Publish delivers change to every subscriber of its owner. It never blocks.
func (b *Broker) Publish(_ context.Context, change models.Change) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subs[change.OwnerID] {
		select {
		case ch <- change:
		default:
			b.logger.Debug("subscriber queue full, dropping change",
				"owner_id", change.OwnerID,
				"kind", change.Kind,
			)
		}
	}
	return nil
}

// Subscribe registers a subscriber for ownerID.
// The returned cancel func closes the channel and is safe to call more than once.
func (b *Broker) Subscribe(ownerID string) (<-chan models.Change, func()) {
	ch := make(chan models.Change, b.buffer)

	b.mu.Lock()
	if b.subs[ownerID] == nil {
		b.subs[ownerID] = make(map[chan models.Change]struct{})
	}
	b.subs[ownerID][ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs[ownerID], ch)
			if len(b.subs[ownerID]) == 0 {
				delete(b.subs, ownerID)
			}
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Subscribers returns the number of live subscriptions for ownerID.
func (b *Broker) Subscribers(ownerID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[ownerID])
}
