package stub

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"time"

	"github.com/google/uuid"

	"github.com/crewbase/crewbase-go/internal/httputil"
	"github.com/crewbase/crewbase-go/internal/stub/repository"
	"github.com/crewbase/crewbase-go/pkg/domain"
)

const minPasswordLen = 8

// AuthHandler serves the auth surface the client SDK consumes.
type AuthHandler struct {
	logger          *slog.Logger
	db              *sql.DB
	accounts        *repository.AccountsRepository
	tokens          *TokenService
	superAdminEmail string
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(logger *slog.Logger, db *sql.DB, accounts *repository.AccountsRepository, tokens *TokenService, superAdminEmail string) *AuthHandler {
	return &AuthHandler{
		logger:          logger,
		db:              db,
		accounts:        accounts,
		tokens:          tokens,
		superAdminEmail: superAdminEmail,
	}
}

type signUpRequest struct {
	Email    string            `json:"email"`
	Password string            `json:"password"`
	Data     map[string]string `json:"data"`
}

type tokenRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	RefreshToken string `json:"refresh_token"`
}

// SignUp handles POST /auth/v1/signup.
// Creates the auth user plus its profile row (and, for the configured super
// admin address, a super_admin global role) the way the hosted service's
// triggers would, then signs the new identity in.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid email address")
		return
	}
	if len(req.Password) < minPasswordLen {
		httputil.Error(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	exists, err := h.accounts.ExistsByEmail(r.Context(), req.Email)
	if err != nil {
		h.logger.Error("signup exists check failed", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "sign-up failed")
		return
	}
	if exists {
		httputil.Error(w, http.StatusConflict, "user already exists")
		return
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		h.logger.Error("password hash failed", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "sign-up failed")
		return
	}

	var fullName *string
	if name := req.Data["full_name"]; name != "" {
		fullName = &name
	}

	account := &repository.Account{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: hash,
		FullName:     fullName,
		CreatedAt:    time.Now(),
	}

	err = repository.Tx(r.Context(), h.db, func(tx *sql.Tx) error {
		if err := h.accounts.CreateTx(r.Context(), tx, account); err != nil {
			return err
		}
		if err := h.createProfileTx(r.Context(), tx, account); err != nil {
			return err
		}
		if h.superAdminEmail != "" && account.Email == h.superAdminEmail {
			return h.grantSuperAdminTx(r.Context(), tx, account.ID)
		}
		return nil
	})
	if err != nil {
		h.logger.Error("signup failed", "email", req.Email, "error", err)
		httputil.Error(w, http.StatusInternalServerError, "sign-up failed")
		return
	}

	payload, err := h.tokens.IssueSession(r.Context(), account)
	if err != nil {
		h.logger.Error("issue session failed", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "sign-up failed")
		return
	}

	h.logger.Info("user signed up", "user_id", account.ID)
	httputil.JSON(w, http.StatusCreated, payload)
}

// Token handles POST /auth/v1/token?grant_type=password|refresh_token.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	switch r.URL.Query().Get("grant_type") {
	case "password":
		h.passwordGrant(w, r, req)
	case "refresh_token":
		h.refreshGrant(w, r, req)
	default:
		httputil.Error(w, http.StatusBadRequest, "unsupported grant_type")
	}
}

func (h *AuthHandler) passwordGrant(w http.ResponseWriter, r *http.Request, req tokenRequest) {
	if req.Email == "" || req.Password == "" {
		httputil.Error(w, http.StatusBadRequest, "email and password are required")
		return
	}

	account, err := h.accounts.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			httputil.Error(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.logger.Error("login lookup failed", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "login failed")
		return
	}
	if !VerifyPassword(req.Password, account.PasswordHash) {
		httputil.Error(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	payload, err := h.tokens.IssueSession(r.Context(), account)
	if err != nil {
		h.logger.Error("issue session failed", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "login failed")
		return
	}

	h.logger.Info("user signed in", "user_id", account.ID)
	httputil.JSON(w, http.StatusOK, payload)
}

func (h *AuthHandler) refreshGrant(w http.ResponseWriter, r *http.Request, req tokenRequest) {
	if req.RefreshToken == "" {
		httputil.Error(w, http.StatusBadRequest, "refresh_token is required")
		return
	}

	payload, err := h.tokens.RefreshSession(r.Context(), req.RefreshToken, func(userID uuid.UUID) (*repository.Account, error) {
		return h.accounts.GetByID(r.Context(), userID)
	})
	if err != nil {
		if errors.Is(err, domain.ErrSessionExpired) || errors.Is(err, domain.ErrSessionNotFound) {
			httputil.Error(w, http.StatusUnauthorized, "invalid refresh token")
			return
		}
		h.logger.Error("refresh failed", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "refresh failed")
		return
	}

	httputil.JSON(w, http.StatusOK, payload)
}

// Logout handles POST /auth/v1/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "missing authorization")
		return
	}
	if err := h.tokens.RevokeByAccessToken(r.Context(), token); err != nil {
		httputil.Error(w, http.StatusUnauthorized, "invalid token")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// User handles GET /auth/v1/user.
func (h *AuthHandler) User(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "missing authorization")
		return
	}
	claims, err := h.tokens.ValidateAccessToken(token)
	if err != nil {
		httputil.Error(w, http.StatusUnauthorized, "invalid or expired token")
		return
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		httputil.Error(w, http.StatusUnauthorized, "invalid token subject")
		return
	}
	httputil.JSON(w, http.StatusOK, identityPayload{ID: userID, Email: claims.Email})
}

func (h *AuthHandler) createProfileTx(ctx context.Context, tx *sql.Tx, account *repository.Account) error {
	query := `
		INSERT INTO profiles (id, user_id, email, full_name)
		VALUES ($1, $2, $3, $4)
	`
	_, err := tx.ExecContext(ctx, query, uuid.New(), account.ID, account.Email, account.FullName)
	return err
}

func (h *AuthHandler) grantSuperAdminTx(ctx context.Context, tx *sql.Tx, userID uuid.UUID) error {
	query := `
		INSERT INTO user_roles (id, user_id, role)
		VALUES ($1, $2, $3)
	`
	_, err := tx.ExecContext(ctx, query, uuid.New(), userID, domain.RoleSuperAdmin)
	return err
}
