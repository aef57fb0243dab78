package session

import (
	"sync"

	"github.com/example/kidvocab/pkg/models"
)

// Snapshot carries a full session record for one storage key between
// execution contexts
type Snapshot struct {
	Key  string
	Data models.SessionData
}

// Channel is the change-notification contract between stores sharing a
// storage namespace. Delivery may be asynchronous and unordered; receivers
// resolve conflicts by LastUpdated, never by arrival order.
type Channel interface {
	Publish(snap Snapshot)
	Subscribe(fn func(Snapshot)) (unsubscribe func())
}

// Bus is an in-process Channel implementation for single-process
// deployments
type Bus struct {
	mu   sync.Mutex
	next int
	subs map[int]func(Snapshot)
}

// NewBus creates an empty in-process bus
func NewBus() *Bus {
	return &Bus{subs: make(map[int]func(Snapshot))}
}

// Publish delivers the snapshot to every current subscriber
func (b *Bus) Publish(snap Snapshot) {
	b.mu.Lock()
	fns := make([]func(Snapshot), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	// Callbacks run outside the bus lock so a receiver may publish in turn
	for _, fn := range fns {
		fn(snap)
	}
}

// Subscribe registers a callback and returns a function that removes it
func (b *Bus) Subscribe(fn func(Snapshot)) func() {
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}
