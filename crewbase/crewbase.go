// Package crewbase wires the backend client, session store, theme resolver,
// and HR data services into one application handle.
//
// Basic usage:
//
//	app, err := crewbase.New(crewbase.Config{
//	    BaseURL: "https://api.example.com",
//	    APIKey:  "publishable-key",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer app.Close()
//
//	if err := app.Session().SignIn(ctx, email, password); err != nil {
//	    // credential, rate-limit, or network failure
//	}
//	route := app.Session().LandingRoute()
package crewbase

import (
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/crewbase/crewbase-go/pkg/backend"
	"github.com/crewbase/crewbase-go/pkg/hr"
	"github.com/crewbase/crewbase-go/pkg/session"
	"github.com/crewbase/crewbase-go/pkg/theme"
)

// Config holds the configuration for the application handle.
type Config struct {
	// BaseURL is the backend service root URL (required).
	BaseURL string

	// APIKey is the publishable API key (required).
	APIKey string

	// HTTPClient overrides the default HTTP client (optional).
	HTTPClient *http.Client

	// TokenStore persists the session between restarts (default: in-memory).
	TokenStore backend.TokenStore

	// Logger is the structured logger (default: slog JSON to stdout).
	Logger *slog.Logger
}

// App is the top-level application handle.
type App struct {
	config  Config
	backend *backend.Client
	session *session.Store
	hr      *hr.Service
}

// New creates the application handle and starts session resolution.
func New(cfg Config) (*App, error) {
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)

	client, err := backend.New(backend.Config{
		BaseURL:    cfg.BaseURL,
		APIKey:     cfg.APIKey,
		HTTPClient: cfg.HTTPClient,
		TokenStore: cfg.TokenStore,
		Logger:     cfg.Logger,
	})
	if err != nil {
		return nil, err
	}

	store := session.NewStore(client, cfg.Logger)
	store.Initialize()

	return &App{
		config:  cfg,
		backend: client,
		session: store,
		hr:      hr.NewService(client, cfg.Logger),
	}, nil
}

// Backend returns the raw backend client for advanced usage.
func (a *App) Backend() *backend.Client {
	return a.backend
}

// Session returns the session store.
func (a *App) Session() *session.Store {
	return a.session
}

// HR returns the HR data services.
func (a *App) HR() *hr.Service {
	return a.hr
}

// Theme returns a theme resolver keyed by the current primary membership.
// With no membership the resolver is inert and applies the built-in
// defaults.
func (a *App) Theme() *theme.Resolver {
	companyID := ""
	if id, ok := a.session.PrimaryCompanyID(); ok {
		companyID = id.String()
	}
	return theme.NewResolver(a.backend, companyID, a.config.Logger)
}

// Close releases the session store's listener and worker.
func (a *App) Close() {
	a.session.Close()
}

func validateConfig(cfg *Config) error {
	if cfg.BaseURL == "" {
		return errors.New("crewbase: BaseURL is required")
	}
	if cfg.APIKey == "" {
		return errors.New("crewbase: APIKey is required")
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
}
