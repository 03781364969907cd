package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/a7med3yad/DataProject/internal/errors"
	"github.com/a7med3yad/DataProject/internal/segmentation"
)

// Registry tracks live sessions by ID. Each session owns its data; the
// registry only guards the map itself.
type Registry struct {
	mu        sync.RWMutex
	sessions  map[string]*Session
	segConfig segmentation.Config
}

// NewRegistry creates an empty session registry.
func NewRegistry(segConfig segmentation.Config) *Registry {
	return &Registry{
		sessions:  make(map[string]*Session),
		segConfig: segConfig,
	}
}

// Create starts a new session with default parameters.
func (r *Registry) Create() *Session {
	s := newSession(uuid.NewString(), r.segConfig)

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s
}

// Get looks up a session by ID.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.NotFound("session")
	}
	return s, nil
}

// Remove discards a session and its loaded data.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}
