package stub

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/crewbase/crewbase-go/internal/stub/repository"
	"github.com/crewbase/crewbase-go/pkg/domain"
)

const refreshTokenLen = 32

// TokenConfig holds token issuance settings.
type TokenConfig struct {
	JWTSecret       []byte
	Issuer          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// AccessTokenClaims are the claims in a stub access token.
type AccessTokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// TokenService issues and validates sessions for the stub backend.
type TokenService struct {
	config   TokenConfig
	sessions *repository.SessionsRepository
}

// NewTokenService creates a token service.
func NewTokenService(config TokenConfig, sessions *repository.SessionsRepository) *TokenService {
	if config.AccessTokenTTL == 0 {
		config.AccessTokenTTL = time.Hour
	}
	if config.RefreshTokenTTL == 0 {
		config.RefreshTokenTTL = 7 * 24 * time.Hour
	}
	return &TokenService{config: config, sessions: sessions}
}

// SessionPayload is the wire shape of an issued session. It matches what
// the client SDK decodes.
type SessionPayload struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int             `json:"expires_in"`
	ExpiresAt    time.Time       `json:"expires_at"`
	User         identityPayload `json:"user"`
}

type identityPayload struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// IssueSession creates a refresh session row and signs an access token.
func (s *TokenService) IssueSession(ctx context.Context, account *repository.Account) (*SessionPayload, error) {
	now := time.Now()

	refreshToken, err := generateToken(refreshTokenLen)
	if err != nil {
		return nil, err
	}

	sessionID := uuid.New()
	stored := &repository.StoredSession{
		ID:        sessionID,
		UserID:    account.ID,
		TokenHash: hashToken(refreshToken),
		CreatedAt: now,
		ExpiresAt: now.Add(s.config.RefreshTokenTTL),
	}
	if err := s.sessions.Create(ctx, stored); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	return s.signPayload(account, sessionID, refreshToken, now)
}

// RefreshSession validates a refresh token and signs a fresh access token.
func (s *TokenService) RefreshSession(ctx context.Context, refreshToken string, account func(userID uuid.UUID) (*repository.Account, error)) (*SessionPayload, error) {
	stored, err := s.sessions.GetByTokenHash(ctx, hashToken(refreshToken))
	if err != nil {
		return nil, err
	}
	if !stored.IsValid() {
		return nil, domain.ErrSessionExpired
	}

	acct, err := account(stored.UserID)
	if err != nil {
		return nil, err
	}

	return s.signPayload(acct, stored.ID, refreshToken, time.Now())
}

// ValidateAccessToken validates a bearer token and returns its claims.
func (s *TokenService) ValidateAccessToken(tokenString string) (*AccessTokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AccessTokenClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidToken
		}
		return s.config.JWTSecret, nil
	})
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(*AccessTokenClaims)
	if !ok || !token.Valid {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}

// RevokeByAccessToken revokes the refresh session referenced by an access
// token's session id claim.
func (s *TokenService) RevokeByAccessToken(ctx context.Context, tokenString string) error {
	claims, err := s.ValidateAccessToken(tokenString)
	if err != nil {
		return err
	}
	sessionID, err := uuid.Parse(claims.ID)
	if err != nil {
		return domain.ErrInvalidToken
	}
	if err := s.sessions.Revoke(ctx, sessionID); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		return err
	}
	return nil
}

func (s *TokenService) signPayload(account *repository.Account, sessionID uuid.UUID, refreshToken string, now time.Time) (*SessionPayload, error) {
	expiresAt := now.Add(s.config.AccessTokenTTL)
	claims := AccessTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			Issuer:    s.config.Issuer,
			ID:        sessionID.String(),
		},
		Email: account.Email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	accessToken, err := token.SignedString(s.config.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	return &SessionPayload{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.config.AccessTokenTTL.Seconds()),
		ExpiresAt:    expiresAt,
		User:         identityPayload{ID: account.ID, Email: account.Email},
	}, nil
}

func generateToken(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
