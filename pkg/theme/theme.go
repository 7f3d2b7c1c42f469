// Package theme fetches, applies, and persists a company's branding.
package theme

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/crewbase/crewbase-go/pkg/backend"
	"github.com/crewbase/crewbase-go/pkg/domain"
)

// LogoBucket is the storage bucket for company logos, namespaced by
// company id inside the bucket.
const LogoBucket = "company-logos"

// MaxLogoSize is the upload size limit for logos.
const MaxLogoSize = 5 * 1024 * 1024

// Theme holds a company's branding attributes.
type Theme struct {
	PrimaryColor    string
	SecondaryColor  string
	AccentColor     string
	TextColor       string
	BackgroundColor string
	LogoURL         *string
}

// Default returns the built-in theme used when a company has no branding
// configured (or none could be fetched).
func Default() Theme {
	return Theme{
		PrimaryColor:    "#0f766e",
		SecondaryColor:  "#14b8a6",
		AccentColor:     "#2dd4bf",
		TextColor:       "#1f2937",
		BackgroundColor: "#ffffff",
	}
}

// Patch is a partial set of branding attributes. Nil fields are untouched.
type Patch struct {
	PrimaryColor    *string `json:"primary_color,omitempty"`
	SecondaryColor  *string `json:"secondary_color,omitempty"`
	AccentColor     *string `json:"accent_color,omitempty"`
	TextColor       *string `json:"text_color,omitempty"`
	BackgroundColor *string `json:"background_color,omitempty"`
	LogoURL         *string `json:"logo_url,omitempty"`
}

// Merge applies the patch over a theme, returning the merged copy. It is the
// pure reducer used after the backend confirms a persist; the failure path
// never calls it.
func Merge(current Theme, patch Patch) Theme {
	if patch.PrimaryColor != nil {
		current.PrimaryColor = *patch.PrimaryColor
	}
	if patch.SecondaryColor != nil {
		current.SecondaryColor = *patch.SecondaryColor
	}
	if patch.AccentColor != nil {
		current.AccentColor = *patch.AccentColor
	}
	if patch.TextColor != nil {
		current.TextColor = *patch.TextColor
	}
	if patch.BackgroundColor != nil {
		current.BackgroundColor = *patch.BackgroundColor
	}
	if patch.LogoURL != nil {
		current.LogoURL = patch.LogoURL
	}
	return current
}

// Resolver fetches and persists the branding of one company. With an empty
// company id the resolver is inert: loading completes immediately and the
// built-in defaults apply.
type Resolver struct {
	backend   *backend.Client
	logger    *slog.Logger
	companyID string

	mu     sync.Mutex
	theme  Theme
	loaded bool
}

// NewResolver creates a theme resolver keyed by the primary membership's
// company id.
func NewResolver(client *backend.Client, companyID string, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		backend:   client,
		logger:    logger,
		companyID: companyID,
		theme:     Default(),
	}
}

type brandingRow struct {
	PrimaryColor    *string `json:"primary_color"`
	SecondaryColor  *string `json:"secondary_color"`
	AccentColor     *string `json:"accent_color"`
	TextColor       *string `json:"text_color"`
	BackgroundColor *string `json:"background_color"`
	LogoURL         *string `json:"logo_url"`
}

// Load fetches the company's branding. Missing attributes fall back to the
// defaults and fetch errors degrade to the default theme; Load never fails
// visibly to the caller.
func (r *Resolver) Load(ctx context.Context) {
	defer func() {
		r.mu.Lock()
		r.loaded = true
		r.mu.Unlock()
	}()

	if r.companyID == "" {
		return
	}

	var row brandingRow
	found, err := r.backend.From("companies").
		Select("primary_color,secondary_color,accent_color,text_color,background_color,logo_url").
		Eq("id", r.companyID).
		MaybeSingle(ctx, &row)
	if err != nil {
		r.logger.Error("failed to fetch company theme", "company_id", r.companyID, "error", err)
		return
	}
	if !found {
		return
	}

	theme := Default()
	if row.PrimaryColor != nil && *row.PrimaryColor != "" {
		theme.PrimaryColor = *row.PrimaryColor
	}
	if row.SecondaryColor != nil && *row.SecondaryColor != "" {
		theme.SecondaryColor = *row.SecondaryColor
	}
	if row.AccentColor != nil && *row.AccentColor != "" {
		theme.AccentColor = *row.AccentColor
	}
	if row.TextColor != nil && *row.TextColor != "" {
		theme.TextColor = *row.TextColor
	}
	if row.BackgroundColor != nil && *row.BackgroundColor != "" {
		theme.BackgroundColor = *row.BackgroundColor
	}
	theme.LogoURL = row.LogoURL

	r.mu.Lock()
	r.theme = theme
	r.mu.Unlock()
}

// Theme returns the current theme snapshot.
func (r *Resolver) Theme() Theme {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.theme
}

// Loaded reports whether Load has completed.
func (r *Resolver) Loaded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loaded
}

// CompanyID returns the company this resolver is keyed by ("" when inert).
func (r *Resolver) CompanyID() string {
	return r.companyID
}

// StyleVariables returns the live style parameters derived from the theme.
// It returns nil until Load has completed, so defaults are never flashed
// as themed values.
func (r *Resolver) StyleVariables() map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.loaded {
		return nil
	}

	accent, err := HexToHSL(r.theme.AccentColor)
	if err != nil {
		r.logger.Warn("invalid accent color, using default", "value", r.theme.AccentColor)
		accent, _ = HexToHSL(Default().AccentColor)
	}

	value := accent.String()
	return map[string]string{
		"--accent":          value,
		"--sidebar-primary": value,
		"--ring":            value,
	}
}

// Update persists a partial set of branding fields, then merges the same
// patch into local state. On failure the error is returned and local state
// is left unchanged.
func (r *Resolver) Update(ctx context.Context, patch Patch) error {
	if r.companyID == "" {
		return domain.ErrNoCompany
	}

	err := r.backend.From("companies").
		Eq("id", r.companyID).
		Update(ctx, patch)
	if err != nil {
		return fmt.Errorf("persist theme: %w", err)
	}

	r.mu.Lock()
	r.theme = Merge(r.theme, patch)
	r.mu.Unlock()
	return nil
}

// UploadLogo validates, uploads, and persists a company logo, returning its
// public URL. Validation failures are reported before any network call.
func (r *Resolver) UploadLogo(ctx context.Context, data []byte, mimeType string) (string, error) {
	if r.companyID == "" {
		return "", domain.ErrNoCompany
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return "", fmt.Errorf("%w: got %q", domain.ErrLogoNotImage, mimeType)
	}
	if len(data) >= MaxLogoSize {
		return "", fmt.Errorf("%w: %d bytes", domain.ErrLogoTooLarge, len(data))
	}

	path := r.companyID + "/logo." + logoExtension(mimeType)
	if err := r.backend.Storage.Upload(ctx, LogoBucket, path, data, mimeType, true); err != nil {
		return "", fmt.Errorf("upload logo: %w", err)
	}

	logoURL := r.backend.Storage.PublicURL(LogoBucket, path)
	if err := r.Update(ctx, Patch{LogoURL: &logoURL}); err != nil {
		return "", err
	}
	return logoURL, nil
}

// logoExtension derives a file extension from an image MIME type, e.g.
// "image/svg+xml" -> "svg".
func logoExtension(mimeType string) string {
	ext := strings.TrimPrefix(mimeType, "image/")
	if i := strings.IndexByte(ext, '+'); i >= 0 {
		ext = ext[:i]
	}
	if ext == "" {
		ext = "png"
	}
	return ext
}
