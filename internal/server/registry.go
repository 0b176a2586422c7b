package server

import (
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"
)

// Session binds an open endpoint to the display name it joined with.
type Session struct {
	Name     string
	Endpoint Endpoint
	JoinedAt time.Time
}

// Registry tracks every open endpoint and the sessions of those that joined.
// Sessions are keyed by endpoint, so two participants may share a name.
// All methods are safe for concurrent use; readers never observe a
// half-applied update.
type Registry struct {
	mu        sync.RWMutex
	endpoints map[Endpoint]struct{}
	sessions  map[Endpoint]*Session
}

func NewRegistry() *Registry {
	return &Registry{
		endpoints: make(map[Endpoint]struct{}),
		sessions:  make(map[Endpoint]*Session),
	}
}

// Connect records an open endpoint that has not joined yet.
func (r *Registry) Connect(ep Endpoint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.endpoints[ep] = struct{}{}
}

// Join creates or renames the session of ep. Names are trimmed; an empty
// name is refused and leaves the registry untouched. Joining from an
// endpoint that is not connected is refused as well.
func (r *Registry) Join(ep Endpoint, name string) (Session, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Session{}, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.endpoints[ep]; !ok {
		return Session{}, false
	}
	if s, ok := r.sessions[ep]; ok {
		s.Name = name
		return *s, true
	}
	s := &Session{Name: name, Endpoint: ep, JoinedAt: time.Now()}
	r.sessions[ep] = s
	return *s, true
}

// Disconnect forgets ep. It returns the removed session when ep had joined.
func (r *Registry) Disconnect(ep Endpoint) (Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.endpoints, ep)
	s, ok := r.sessions[ep]
	if !ok {
		return Session{}, false
	}
	delete(r.sessions, ep)
	return *s, true
}

// Lookup returns the session of ep, if any.
func (r *Registry) Lookup(ep Endpoint) (Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[ep]
	if !ok {
		return Session{}, false
	}
	return *s, true
}

// Users returns a fresh snapshot of the display names of all sessions.
// Order is unspecified.
func (r *Registry) Users() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return lo.Map(lo.Values(r.sessions), func(s *Session, _ int) string {
		return s.Name
	})
}

// Endpoints returns a snapshot of every open endpoint, joined or not.
func (r *Registry) Endpoints() []Endpoint {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return lo.Keys(r.endpoints)
}

// Counts returns the number of open endpoints and of sessions.
func (r *Registry) Counts() (connections, sessions int) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.endpoints), len(r.sessions)
}
