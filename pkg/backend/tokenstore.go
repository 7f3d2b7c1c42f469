package backend

import (
	"sync"

	"github.com/crewbase/crewbase-go/pkg/domain"
)

// TokenStore persists the current session so it survives client restarts.
// Implementations must be safe for concurrent use.
type TokenStore interface {
	// Load returns the persisted session, or nil if none.
	Load() (*domain.Session, error)
	// Save persists the session; a nil session clears the store.
	Save(session *domain.Session) error
}

// MemoryTokenStore keeps the session in process memory only.
type MemoryTokenStore struct {
	mu      sync.Mutex
	session *domain.Session
}

// NewMemoryTokenStore creates an empty in-memory token store.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (s *MemoryTokenStore) Load() (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil, nil
	}
	copied := *s.session
	return &copied, nil
}

func (s *MemoryTokenStore) Save(session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session == nil {
		s.session = nil
		return nil
	}
	copied := *session
	s.session = &copied
	return nil
}
