package server

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/ironsheep/pixel-editor/internal/editor"
)

// ErrUnknownSession is returned for a session ID that was never opened or
// has been closed.
var ErrUnknownSession = errors.New("unknown session")

// SessionRegistry hands out editing sessions keyed by random IDs.
//
// The registry is safe for concurrent use. Each session additionally carries
// its own lock, so calls against one session are serialized while different
// sessions proceed independently.
//
// Sessions stay open until Close or Clear; nothing expires on its own.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry
	factory  func(id string) *editor.Session
}

type sessionEntry struct {
	mu      sync.Mutex
	session *editor.Session
}

// NewSessionRegistry returns an empty registry. factory builds the session
// for a freshly allocated ID.
func NewSessionRegistry(factory func(id string) *editor.Session) *SessionRegistry {
	if factory == nil {
		factory = func(string) *editor.Session { return editor.New() }
	}
	return &SessionRegistry{
		sessions: make(map[string]*sessionEntry),
		factory:  factory,
	}
}

// Open creates a session and returns its ID.
func (r *SessionRegistry) Open() string {
	id := uuid.NewString()
	e := &sessionEntry{session: r.factory(id)}

	r.mu.Lock()
	r.sessions[id] = e
	r.mu.Unlock()
	return id
}

// With runs fn while holding the lock of session id.
func (r *SessionRegistry) With(id string, fn func(*editor.Session) (interface{}, error)) (interface{}, error) {
	r.mu.RLock()
	e, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSession, id)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.session)
}

// Close drops session id. Closing an unknown ID is an error.
func (r *SessionRegistry) Close(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSession, id)
	}
	delete(r.sessions, id)
	return nil
}

// Len returns the number of open sessions.
func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Clear closes every session.
func (r *SessionRegistry) Clear() {
	r.mu.Lock()
	r.sessions = make(map[string]*sessionEntry)
	r.mu.Unlock()
}
