package console

import (
	"sync"
	"sync/atomic"
)

// Handler is a demo routine. It writes its output through log and either
// returns normally or fails by returning an error or panicking. A handler
// must not call log.Clear mid-run unless clearing is the behavior it
// demonstrates.
type Handler func(log Log) error

// DemoEntry is a registered demo.
type DemoEntry struct {
	ID          string
	DisplayName string
	Handler     Handler
}

// Registry maps demo ids to handlers. It is assembled once at startup,
// sealed, and read-only thereafter. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	byID    map[string]int
	entries []DemoEntry
	sealed  atomic.Bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]int)}
}

// Sealed reports whether the registry is sealed.
func (r *Registry) Sealed() bool { return r.sealed.Load() }

// Seal prevents further registrations. It is idempotent and safe for
// concurrent use. Returns true if this call changed the state from unsealed
// to sealed.
func (r *Registry) Seal() bool { return !r.sealed.Swap(true) }

// Register adds a demo. It fails with a *DuplicateIDError if id is already
// present, ErrSealed once the registry is sealed, and ErrInvalidEntry for an
// empty id or nil handler.
func (r *Registry) Register(id, displayName string, h Handler) error {
	if r.Sealed() {
		return ErrSealed
	}
	if id == "" || h == nil {
		return ErrInvalidEntry
	}
	if displayName == "" {
		displayName = id
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; exists {
		return &DuplicateIDError{ID: id}
	}
	r.byID[id] = len(r.entries)
	r.entries = append(r.entries, DemoEntry{ID: id, DisplayName: displayName, Handler: h})
	return nil
}

// MustRegister panics on registration error. A duplicate id is a
// programming error, so registries assembled at startup use this.
func (r *Registry) MustRegister(id, displayName string, h Handler) {
	if err := r.Register(id, displayName, h); err != nil {
		panic(err)
	}
}

// Resolve returns the handler registered under id, or an *UnknownDemoError.
func (r *Registry) Resolve(id string) (Handler, error) {
	e, ok := r.Lookup(id)
	if !ok {
		return nil, &UnknownDemoError{ID: id}
	}
	return e.Handler, nil
}

// Lookup returns the entry registered under id, if present.
func (r *Registry) Lookup(id string) (DemoEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.byID[id]
	if !ok {
		return DemoEntry{}, false
	}
	return r.entries[i], true
}

// Entries returns a copy of all entries in registration order.
func (r *Registry) Entries() []DemoEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]DemoEntry(nil), r.entries...)
}

// Len returns the number of registered demos.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
