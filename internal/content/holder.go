package content

import (
	"slices"
	"sync"
	"sync/atomic"

	"consulthub/internal/catalog"
)

// Holder publishes the current snapshot to request handlers. Readers always
// see a complete snapshot; a reload swaps the whole value.
type Holder struct {
	p atomic.Pointer[Snapshot]

	mu        sync.Mutex
	listeners []func(*Snapshot)
}

func NewHolder(s *Snapshot) *Holder {
	h := &Holder{}
	h.p.Store(s)
	return h
}

func (h *Holder) Current() *Snapshot {
	return h.p.Load()
}

// Store publishes s and then calls every OnStore listener with it.
func (h *Holder) Store(s *Snapshot) {
	h.p.Store(s)

	h.mu.Lock()
	listeners := slices.Clone(h.listeners)
	h.mu.Unlock()
	for _, fn := range listeners {
		fn(s)
	}
}

// OnStore registers fn to run after each Store.
func (h *Holder) OnStore(fn func(*Snapshot)) {
	h.mu.Lock()
	h.listeners = append(h.listeners, fn)
	h.mu.Unlock()
}

// Collection implements catalog.Source.
func (h *Holder) Collection(kind string) *catalog.Index {
	s := h.Current()
	if s == nil {
		return nil
	}
	return s.Collection(kind)
}

// HasService reports whether id names a service in the current snapshot.
func (h *Holder) HasService(id string) bool {
	s := h.Current()
	if s == nil {
		return false
	}
	_, ok := s.Service(id)
	return ok
}
