// Package stub is a single-binary local stand-in for the hosted backend:
// auth session issuance, the row API, and object storage, enough for the
// client SDK to run end to end in development.
package stub

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/crewbase/crewbase-go/internal/config"
	"github.com/crewbase/crewbase-go/internal/httputil"
	"github.com/crewbase/crewbase-go/internal/stub/repository"
)

// RouterConfig holds configuration for the stub router.
type RouterConfig struct {
	Logger *slog.Logger
	DB     *sql.DB
	Config *config.Config
}

// NewRouter creates the stub backend router.
func NewRouter(cfg RouterConfig) http.Handler {
	accounts := repository.NewAccountsRepository(cfg.DB)
	sessions := repository.NewSessionsRepository(cfg.DB)
	rows := repository.NewRowsRepository(cfg.DB)

	tokens := NewTokenService(TokenConfig{
		JWTSecret:       []byte(cfg.Config.JWTSecret),
		Issuer:          cfg.Config.JWTIssuer,
		AccessTokenTTL:  cfg.Config.AccessTokenTTL,
		RefreshTokenTTL: cfg.Config.RefreshTokenTTL,
	}, sessions)

	authHandler := NewAuthHandler(cfg.Logger, cfg.DB, accounts, tokens, cfg.Config.SuperAdminEmail)
	restHandler := NewRestHandler(cfg.Logger, rows)
	storageHandler := NewStorageHandler(cfg.Logger)

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(cfg.Logger))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Auth surface
	r.Post("/auth/v1/signup", authHandler.SignUp)
	r.Group(func(r chi.Router) {
		if cfg.Config.RateLimitEnabled {
			r.Use(httprate.Limit(
				cfg.Config.RateLimitRequests,
				cfg.Config.RateLimitWindow,
				httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
					cfg.Logger.Warn("rate limit exceeded", "ip", r.RemoteAddr, "path", r.URL.Path)
					httputil.Error(w, http.StatusTooManyRequests, "rate limit exceeded. please try again later")
				}),
			))
		}
		r.Post("/auth/v1/token", authHandler.Token)
	})
	r.Post("/auth/v1/logout", authHandler.Logout)
	r.Get("/auth/v1/user", authHandler.User)

	// Row API
	r.Group(func(r chi.Router) {
		r.Use(RequireAuth(tokens, cfg.Config.APIKey))
		r.Get("/rest/v1/{table}", restHandler.Get)
		r.Post("/rest/v1/{table}", restHandler.Post)
		r.Patch("/rest/v1/{table}", restHandler.Patch)
	})

	// Storage
	r.Get("/storage/v1/object/public/{bucket}/*", storageHandler.Serve)
	r.Group(func(r chi.Router) {
		r.Use(RequireAuth(tokens, cfg.Config.APIKey))
		r.Post("/storage/v1/object/{bucket}/*", storageHandler.Upload)
	})

	return r
}

// requestLogger logs each request with method, path, status, and duration.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
			)
		})
	}
}
