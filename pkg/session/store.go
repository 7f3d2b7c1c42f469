// Package session maintains the client's single authenticated identity and
// the profile, role, and membership state derived from it.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/crewbase/crewbase-go/pkg/backend"
	"github.com/crewbase/crewbase-go/pkg/domain"
)

// Store owns the current (Identity, Session) pair for the process lifetime
// and keeps the derived profile/role/membership state in sync with backend
// auth-state notifications.
//
// All state mutation is funneled through the auth listener and the store's
// single task worker, so snapshots taken via the accessors are always
// internally consistent.
type Store struct {
	backend *backend.Client
	logger  *slog.Logger

	mu          sync.Mutex
	session     *domain.Session
	identity    *domain.Identity
	profile     *domain.Profile
	roles       []domain.AppRole
	memberships []domain.CompanyUser
	loading     bool

	// generation increments on every identity transition; fetches tag their
	// results with the generation they were issued under and stale results
	// are discarded.
	generation uint64

	tasks       *taskQueue
	unsubscribe func()
	initOnce    sync.Once
	closeOnce   sync.Once
}

// NewStore creates a session store over the backend client.
func NewStore(client *backend.Client, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		backend: client,
		logger:  logger,
		loading: true,
		tasks:   newTaskQueue(),
	}
}

// Initialize registers the auth-state listener and then asks the backend for
// a persisted session. It never blocks: state starts loading and resolves
// asynchronously.
func (s *Store) Initialize() {
	s.initOnce.Do(func() {
		go s.tasks.run()

		// Listener first, so a session restored below is observed through
		// the same path as any later sign-in.
		s.unsubscribe = s.backend.Auth.OnAuthStateChange(s.onAuthStateChange)

		s.tasks.enqueue(func() {
			session, err := s.backend.Auth.GetSession(context.Background())
			if err != nil {
				s.logger.Error("failed to restore session", "error", err)
			}
			if session == nil {
				// Nothing persisted; the listener never fired.
				s.mu.Lock()
				s.loading = false
				s.mu.Unlock()
			}
		})
	})
}

// Close unsubscribes from auth-state changes and stops the task worker.
func (s *Store) Close() {
	s.closeOnce.Do(func() {
		if s.unsubscribe != nil {
			s.unsubscribe()
		}
		s.tasks.close()
	})
}

// onAuthStateChange runs inside the backend's listener dispatch. It must not
// issue backend requests directly; secondary fetches are deferred to the
// task worker so they run after this notification turn completes.
func (s *Store) onAuthStateChange(event backend.AuthEvent, session *domain.Session) {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.session = session
	s.loading = false

	if session == nil {
		s.identity = nil
		s.profile = nil
		s.roles = nil
		s.memberships = nil
		s.mu.Unlock()
		return
	}

	identity := session.User
	s.identity = &identity
	s.mu.Unlock()

	userID := identity.ID
	s.tasks.enqueue(func() {
		s.fetchUserData(context.Background(), userID, gen)
	})
}

// SignIn authenticates with email and password. On success the session is
// set through the auth-state notification path before this returns.
func (s *Store) SignIn(ctx context.Context, email, password string) error {
	_, err := s.backend.Auth.SignInWithPassword(ctx, email, password)
	return err
}

// SignOut revokes the session and clears all local state, whether or not the
// remote call succeeded.
func (s *Store) SignOut(ctx context.Context) error {
	// The SIGNED_OUT notification clears session, identity, profile, roles,
	// and memberships synchronously before SignOut returns.
	return s.backend.Auth.SignOut(ctx)
}

// Session returns the live session, or nil.
func (s *Store) Session() *domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil
	}
	copied := *s.session
	return &copied
}

// Identity returns the authenticated identity, or nil.
func (s *Store) Identity() *domain.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return nil
	}
	copied := *s.identity
	return &copied
}

// Profile returns the fetched profile record, or nil.
func (s *Store) Profile() *domain.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return nil
	}
	copied := *s.profile
	return &copied
}

// Roles returns the global role assignments.
func (s *Store) Roles() []domain.AppRole {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.AppRole(nil), s.roles...)
}

// Memberships returns the active company memberships, oldest first.
func (s *Store) Memberships() []domain.CompanyUser {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.CompanyUser(nil), s.memberships...)
}

// Loading reports whether the initial session resolution is still pending.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// IsSuperAdmin reports whether the global role set contains super_admin.
func (s *Store) IsSuperAdmin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, role := range s.roles {
		if role == domain.RoleSuperAdmin {
			return true
		}
	}
	return false
}

// PrimaryCompanyID returns the company id of the primary (first) membership.
func (s *Store) PrimaryCompanyID() (uuid.UUID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.memberships) == 0 {
		return uuid.Nil, false
	}
	return s.memberships[0].CompanyID, true
}

// LandingRoute resolves the first screen for the current user by role
// precedence.
func (s *Store) LandingRoute() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ResolveLandingRoute(s.roles, s.memberships)
}
