package chat

import (
	"fmt"
	"strings"
	"sync"

	"github.com/samber/lo"
)

// Registry is the set of live peers. Membership is kept in registration
// order so name lookup and the user list are deterministic.
type Registry struct {
	mu    sync.RWMutex
	byID  map[string]Peer
	order []Peer
}

func NewRegistry() *Registry {
	return &Registry{
		byID: make(map[string]Peer),
	}
}

// Add registers p. Registering the same identity twice is a programming error.
func (r *Registry) Add(p Peer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := p.ID()
	if _, exists := r.byID[id]; exists {
		return fmt.Errorf("add %s: %w", id, ErrDuplicateSession)
	}
	r.byID[id] = p
	r.order = append(r.order, p)
	ConnectedSessions.Set(float64(len(r.order)))
	return nil
}

// Remove deregisters p. It reports whether p was present; removing an
// absent peer is a no-op.
func (r *Registry) Remove(p Peer) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := p.ID()
	if _, ok := r.byID[id]; !ok {
		return false
	}
	delete(r.byID, id)
	r.order = lo.Reject(r.order, func(item Peer, _ int) bool {
		return item.ID() == id
	})
	ConnectedSessions.Set(float64(len(r.order)))
	return true
}

// Snapshot returns a copy of the current membership in registration order.
func (r *Registry) Snapshot() []Peer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Peer, len(r.order))
	copy(out, r.order)
	return out
}

// FindByName does a case-insensitive exact match. When names collide the
// earliest registered peer wins.
func (r *Registry) FindByName(name string) (Peer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return lo.Find(r.order, func(item Peer) bool {
		return strings.EqualFold(item.Name(), name)
	})
}

// Names returns the display names of all peers in registration order.
func (r *Registry) Names() []string {
	return lo.Map(r.Snapshot(), func(item Peer, _ int) string {
		return item.Name()
	})
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
