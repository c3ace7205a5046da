// Package subscription keeps the set of chats opted into price broadcasts.
package subscription

import (
	"sync"

	"github.com/StudioSol/set"
	"github.com/raykavin/bitsobot/core"
)

// Registry is a concurrency-safe set of destinations. It is mutated by
// the command path (subscribe/unsubscribe) and by the scheduler when a
// destination rejects delivery permanently.
type Registry struct {
	mu     sync.RWMutex
	active *set.LinkedHashSetINT64
}

func NewRegistry() *Registry {
	return &Registry{active: set.NewLinkedHashSetINT64()}
}

// Add subscribes a destination. It returns false when the destination
// was already subscribed; the call itself is idempotent.
func (r *Registry) Add(dest core.Destination) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active.InArray(int64(dest)) {
		return false
	}

	r.active.Add(int64(dest))
	return true
}

// Remove unsubscribes a destination. It returns false when the
// destination was not subscribed; the call itself is idempotent.
func (r *Registry) Remove(dest core.Destination) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.active.InArray(int64(dest)) {
		return false
	}

	r.active.Remove(int64(dest))
	return true
}

// Contains reports whether a destination is subscribed.
func (r *Registry) Contains(dest core.Destination) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.active.InArray(int64(dest))
}

// Destinations returns a stable copy of the membership, in subscription
// order, so callers can iterate while the registry keeps mutating.
func (r *Registry) Destinations() []core.Destination {
	r.mu.RLock()
	defer r.mu.RUnlock()

	destinations := make([]core.Destination, 0, r.active.Length())
	for id := range r.active.Iter() {
		destinations = append(destinations, core.Destination(id))
	}

	return destinations
}

// Len returns the number of subscribed destinations.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.active.Length()
}
