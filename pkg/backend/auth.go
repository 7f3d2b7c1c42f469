package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/crewbase/crewbase-go/pkg/domain"
)

// AuthEvent identifies an auth-state change.
type AuthEvent string

const (
	EventInitialSession AuthEvent = "INITIAL_SESSION"
	EventSignedIn       AuthEvent = "SIGNED_IN"
	EventSignedOut      AuthEvent = "SIGNED_OUT"
	EventTokenRefreshed AuthEvent = "TOKEN_REFRESHED"
)

// ListenerFunc receives auth-state changes. The session is nil on sign-out.
//
// Listeners run while the auth client holds its internal listener lock.
// Issuing backend calls from inside a listener deadlocks the client; defer
// any follow-up work to another goroutine.
type ListenerFunc func(event AuthEvent, session *domain.Session)

// AuthClient handles session issuance, refresh, and sign-out.
type AuthClient struct {
	client *Client
	store  TokenStore

	mu      sync.Mutex
	session *domain.Session

	listenerMu sync.Mutex
	listeners  map[int]ListenerFunc
	nextID     int
}

func newAuthClient(client *Client, store TokenStore) *AuthClient {
	return &AuthClient{
		client:    client,
		store:     store,
		listeners: make(map[int]ListenerFunc),
	}
}

// SignUpParams holds sign-up input. Metadata travels to the backend and is
// copied into the new identity's profile record.
type SignUpParams struct {
	Email    string            `json:"email"`
	Password string            `json:"password"`
	Metadata map[string]string `json:"data,omitempty"`
}

type credentials struct {
	Email        string `json:"email,omitempty"`
	Password     string `json:"password,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// SignUp creates a new identity and signs it in.
func (a *AuthClient) SignUp(ctx context.Context, params SignUpParams) (*domain.Session, error) {
	var session domain.Session
	err := a.client.do(ctx, http.MethodPost, "/auth/v1/signup", nil, params, &session)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict {
			return nil, fmt.Errorf("%w: %s", domain.ErrUserAlreadyExists, params.Email)
		}
		return nil, err
	}

	a.adoptSession(&session)
	a.emit(EventSignedIn, &session)
	return &session, nil
}

// SignInWithPassword exchanges credentials for a session.
// Failures map onto domain.ErrInvalidCredentials and domain.ErrRateLimited;
// transport failures come back wrapped.
func (a *AuthClient) SignInWithPassword(ctx context.Context, email, password string) (*domain.Session, error) {
	var session domain.Session
	err := a.client.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", nil,
		credentials{Email: email, Password: password}, &session)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			switch apiErr.Status {
			case http.StatusBadRequest, http.StatusUnauthorized:
				return nil, domain.ErrInvalidCredentials
			case http.StatusTooManyRequests:
				return nil, domain.ErrRateLimited
			}
		}
		return nil, err
	}

	a.adoptSession(&session)
	a.emit(EventSignedIn, &session)
	return &session, nil
}

// RefreshSession exchanges the refresh token for a fresh access token.
func (a *AuthClient) RefreshSession(ctx context.Context, refreshToken string) (*domain.Session, error) {
	var session domain.Session
	err := a.client.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=refresh_token", nil,
		credentials{RefreshToken: refreshToken}, &session)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && (apiErr.Status == http.StatusBadRequest || apiErr.Status == http.StatusUnauthorized) {
			return nil, domain.ErrSessionExpired
		}
		return nil, err
	}

	a.adoptSession(&session)
	a.emit(EventTokenRefreshed, &session)
	return &session, nil
}

// GetSession returns the live session, restoring a persisted one if needed.
// Returns (nil, nil) when no session exists.
func (a *AuthClient) GetSession(ctx context.Context) (*domain.Session, error) {
	a.mu.Lock()
	current := a.session
	a.mu.Unlock()
	if current != nil && !current.Expired() {
		return current, nil
	}

	persisted, err := a.store.Load()
	if err != nil {
		return nil, fmt.Errorf("backend: load persisted session: %w", err)
	}
	if persisted == nil {
		return nil, nil
	}

	if persisted.Expired() {
		session, err := a.RefreshSession(ctx, persisted.RefreshToken)
		if err != nil {
			if errors.Is(err, domain.ErrSessionExpired) {
				_ = a.store.Save(nil)
				return nil, nil
			}
			return nil, err
		}
		return session, nil
	}

	a.adoptSession(persisted)
	a.emit(EventInitialSession, persisted)
	return persisted, nil
}

// SignOut revokes the session remotely, then drops it locally regardless of
// the remote outcome.
func (a *AuthClient) SignOut(ctx context.Context) error {
	err := a.client.do(ctx, http.MethodPost, "/auth/v1/logout", nil, nil, nil)

	a.mu.Lock()
	a.session = nil
	a.mu.Unlock()
	_ = a.store.Save(nil)

	a.emit(EventSignedOut, nil)
	return err
}

// OnAuthStateChange registers a listener for auth-state changes and returns
// an unsubscribe function.
func (a *AuthClient) OnAuthStateChange(fn ListenerFunc) func() {
	a.listenerMu.Lock()
	defer a.listenerMu.Unlock()
	id := a.nextID
	a.nextID++
	a.listeners[id] = fn
	return func() {
		a.listenerMu.Lock()
		defer a.listenerMu.Unlock()
		delete(a.listeners, id)
	}
}

func (a *AuthClient) adoptSession(session *domain.Session) {
	if session.ExpiresAt.IsZero() {
		session.ExpiresAt = accessTokenExpiry(session.AccessToken, session.ExpiresIn)
	}

	a.mu.Lock()
	a.session = session
	a.mu.Unlock()

	if err := a.store.Save(session); err != nil {
		a.client.logger.Error("failed to persist session", "error", err)
	}
}

func (a *AuthClient) emit(event AuthEvent, session *domain.Session) {
	a.listenerMu.Lock()
	defer a.listenerMu.Unlock()
	for _, fn := range a.listeners {
		fn(event, session)
	}
}

func (a *AuthClient) currentAccessToken() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil {
		return ""
	}
	return a.session.AccessToken
}

// accessTokenExpiry reads the exp claim from the access token. The client is
// not the token verifier, so the parse is deliberately unverified; expiresIn
// is the fallback when the claim is absent.
func accessTokenExpiry(accessToken string, expiresIn int) time.Time {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(accessToken, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			return exp.Time
		}
	}
	return time.Now().Add(time.Duration(expiresIn) * time.Second)
}
