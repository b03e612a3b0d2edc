package session

import (
	"sync"
	"time"
)

type entry struct {
	mu      sync.Mutex
	session *Session
	// refs counts goroutines holding or waiting for mu
	refs int
}

// Registry keeps the process-scoped sessions, one per learner.
// Work for one learner is serialized; different learners never contend
// beyond the brief map lookup.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// Handle gives exclusive access to one learner's session slot
type Handle struct {
	r       *Registry
	learner string
	e       *entry
}

// Lock blocks until the learner's slot is free and returns a handle to it.
// The caller must call Unlock exactly once.
func (r *Registry) Lock(learner string) *Handle {
	r.mu.Lock()
	e, ok := r.entries[learner]
	if !ok {
		e = &entry{}
		r.entries[learner] = e
	}
	e.refs++
	r.mu.Unlock()

	e.mu.Lock()
	return &Handle{r: r, learner: learner, e: e}
}

// Session returns the current session or nil
func (h *Handle) Session() *Session {
	return h.e.session
}

// Replace installs s as the learner's session, dropping any previous one.
// A nil s removes it.
func (h *Handle) Replace(s *Session) {
	h.e.session = s
}

// Unlock releases the slot and forgets it when nobody else needs it
func (h *Handle) Unlock() {
	h.e.mu.Unlock()

	h.r.mu.Lock()
	h.e.refs--
	if h.e.refs == 0 && h.e.session == nil {
		delete(h.r.entries, h.learner)
	}
	h.r.mu.Unlock()
}

// Len returns the number of learners with a session slot
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Sweep drops sessions not updated since cutoff, finished or not.
// Slots currently in use are skipped. It returns the number of sessions dropped.
func (r *Registry) Sweep(cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for learner, e := range r.entries {
		if e.refs > 0 {
			continue
		}
		s := e.session
		if s == nil || s.UpdatedAt.Before(cutoff) {
			delete(r.entries, learner)
			removed++
		}
	}
	return removed
}
