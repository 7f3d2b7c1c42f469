package theme

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/crewbase/crewbase-go/pkg/backend"
	"github.com/crewbase/crewbase-go/pkg/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.Handler) (*backend.Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := backend.New(backend.Config{
		BaseURL: srv.URL,
		APIKey:  "test-key",
		Logger:  testLogger(),
	})
	if err != nil {
		t.Fatalf("backend.New: %v", err)
	}
	return client, srv
}

func strptr(s string) *string { return &s }

func TestMerge(t *testing.T) {
	current := Default()

	merged := Merge(current, Patch{PrimaryColor: strptr("#112233")})

	if merged.PrimaryColor != "#112233" {
		t.Errorf("PrimaryColor = %q, want %q", merged.PrimaryColor, "#112233")
	}
	if merged.SecondaryColor != current.SecondaryColor {
		t.Errorf("SecondaryColor changed: %q", merged.SecondaryColor)
	}
	if merged.AccentColor != current.AccentColor {
		t.Errorf("AccentColor changed: %q", merged.AccentColor)
	}

	// Empty patch is a no-op
	if got := Merge(current, Patch{}); got != current {
		t.Errorf("empty patch changed theme: %+v", got)
	}

	// Logo is set through the patch too
	withLogo := Merge(current, Patch{LogoURL: strptr("http://x/logo.png")})
	if withLogo.LogoURL == nil || *withLogo.LogoURL != "http://x/logo.png" {
		t.Errorf("LogoURL not merged: %v", withLogo.LogoURL)
	}
}

func TestInertResolver(t *testing.T) {
	requests := 0
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))

	r := NewResolver(client, "", testLogger())

	if r.Loaded() {
		t.Error("resolver loaded before Load")
	}
	if vars := r.StyleVariables(); vars != nil {
		t.Errorf("StyleVariables before Load = %v, want nil", vars)
	}

	r.Load(context.Background())

	if !r.Loaded() {
		t.Error("resolver not loaded after Load")
	}
	if r.Theme() != Default() {
		t.Errorf("inert theme = %+v, want defaults", r.Theme())
	}

	vars := r.StyleVariables()
	if vars["--accent"] != "172 66% 50%" {
		t.Errorf("--accent = %q, want %q", vars["--accent"], "172 66% 50%")
	}
	if vars["--sidebar-primary"] != vars["--accent"] || vars["--ring"] != vars["--accent"] {
		t.Error("sidebar-primary and ring must match accent")
	}

	if err := r.Update(context.Background(), Patch{}); !errors.Is(err, domain.ErrNoCompany) {
		t.Errorf("Update error = %v, want ErrNoCompany", err)
	}
	if _, err := r.UploadLogo(context.Background(), []byte("x"), "image/png"); !errors.Is(err, domain.ErrNoCompany) {
		t.Errorf("UploadLogo error = %v, want ErrNoCompany", err)
	}

	if requests != 0 {
		t.Errorf("inert resolver issued %d requests", requests)
	}
}

func TestLoadFetchesBranding(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/v1/companies" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("id"); got != "eq.company-1" {
			t.Errorf("id filter = %q, want %q", got, "eq.company-1")
		}
		json.NewEncoder(w).Encode([]map[string]any{{
			"primary_color":    "#112233",
			"secondary_color":  nil,
			"accent_color":     "",
			"text_color":       "#445566",
			"background_color": "#f0f0f0",
			"logo_url":         "http://x/logo.png",
		}})
	}))

	r := NewResolver(client, "company-1", testLogger())
	r.Load(context.Background())

	theme := r.Theme()
	if theme.PrimaryColor != "#112233" {
		t.Errorf("PrimaryColor = %q, want %q", theme.PrimaryColor, "#112233")
	}
	// Null and empty columns fall back to the defaults
	if theme.SecondaryColor != Default().SecondaryColor {
		t.Errorf("SecondaryColor = %q, want default", theme.SecondaryColor)
	}
	if theme.AccentColor != Default().AccentColor {
		t.Errorf("AccentColor = %q, want default", theme.AccentColor)
	}
	if theme.TextColor != "#445566" {
		t.Errorf("TextColor = %q, want %q", theme.TextColor, "#445566")
	}
	if theme.LogoURL == nil || *theme.LogoURL != "http://x/logo.png" {
		t.Errorf("LogoURL = %v, want http://x/logo.png", theme.LogoURL)
	}
}

func TestLoadDegradesToDefaults(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "company missing",
			handler: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode([]map[string]any{})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, tt.handler)
			r := NewResolver(client, "company-1", testLogger())

			r.Load(context.Background())

			if !r.Loaded() {
				t.Error("resolver not loaded after failed Load")
			}
			if r.Theme() != Default() {
				t.Errorf("theme = %+v, want defaults", r.Theme())
			}
		})
	}
}

func TestUpdatePersistsThenMerges(t *testing.T) {
	var patched map[string]any
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("method = %s, want PATCH", r.Method)
		}
		json.NewDecoder(r.Body).Decode(&patched)
		w.WriteHeader(http.StatusNoContent)
	}))

	r := NewResolver(client, "company-1", testLogger())
	if err := r.Update(context.Background(), Patch{PrimaryColor: strptr("#112233")}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if patched["primary_color"] != "#112233" {
		t.Errorf("persisted patch = %v", patched)
	}
	if got := r.Theme().PrimaryColor; got != "#112233" {
		t.Errorf("local PrimaryColor = %q, want merged value", got)
	}
	if got := r.Theme().SecondaryColor; got != Default().SecondaryColor {
		t.Errorf("SecondaryColor = %q, want untouched default", got)
	}
}

func TestUpdateFailureLeavesStateUnchanged(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	r := NewResolver(client, "company-1", testLogger())
	err := r.Update(context.Background(), Patch{PrimaryColor: strptr("#112233")})
	if err == nil {
		t.Fatal("expected error from failed persist")
	}
	if got := r.Theme().PrimaryColor; got != Default().PrimaryColor {
		t.Errorf("PrimaryColor = %q, local state changed on failure", got)
	}
}

func TestUploadLogoValidatesBeforeNetwork(t *testing.T) {
	requests := 0
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	r := NewResolver(client, "company-1", testLogger())

	_, err := r.UploadLogo(context.Background(), []byte("not an image"), "application/pdf")
	if !errors.Is(err, domain.ErrLogoNotImage) {
		t.Errorf("non-image error = %v, want ErrLogoNotImage", err)
	}

	_, err = r.UploadLogo(context.Background(), make([]byte, MaxLogoSize), "image/png")
	if !errors.Is(err, domain.ErrLogoTooLarge) {
		t.Errorf("oversized error = %v, want ErrLogoTooLarge", err)
	}

	if requests != 0 {
		t.Errorf("validation failures issued %d requests, want 0", requests)
	}
}

func TestUploadLogo(t *testing.T) {
	var uploadPath string
	var patched map[string]any
	client, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && strings.HasPrefix(r.URL.Path, "/storage/v1/object/"):
			uploadPath = r.URL.Path
			if r.Header.Get("x-upsert") != "true" {
				t.Error("upload missing x-upsert header")
			}
			if r.Header.Get("Content-Type") != "image/png" {
				t.Errorf("upload Content-Type = %q", r.Header.Get("Content-Type"))
			}
			json.NewEncoder(w).Encode(map[string]string{"Key": "company-logos/company-1/logo.png"})
		case r.Method == http.MethodPatch && r.URL.Path == "/rest/v1/companies":
			json.NewDecoder(r.Body).Decode(&patched)
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	r := NewResolver(client, "company-1", testLogger())
	url, err := r.UploadLogo(context.Background(), []byte("png bytes"), "image/png")
	if err != nil {
		t.Fatalf("UploadLogo: %v", err)
	}

	if uploadPath != "/storage/v1/object/company-logos/company-1/logo.png" {
		t.Errorf("upload path = %q", uploadPath)
	}
	want := srv.URL + "/storage/v1/object/public/company-logos/company-1/logo.png"
	if url != want {
		t.Errorf("public url = %q, want %q", url, want)
	}
	if patched["logo_url"] != want {
		t.Errorf("persisted logo_url = %v, want %q", patched["logo_url"], want)
	}
	if got := r.Theme().LogoURL; got == nil || *got != want {
		t.Errorf("local LogoURL = %v, want %q", got, want)
	}
}

func TestLogoExtension(t *testing.T) {
	tests := []struct {
		mimeType string
		want     string
	}{
		{mimeType: "image/png", want: "png"},
		{mimeType: "image/jpeg", want: "jpeg"},
		{mimeType: "image/svg+xml", want: "svg"},
		{mimeType: "image/webp", want: "webp"},
		{mimeType: "image/", want: "png"},
	}

	for _, tt := range tests {
		if got := logoExtension(tt.mimeType); got != tt.want {
			t.Errorf("logoExtension(%q) = %q, want %q", tt.mimeType, got, tt.want)
		}
	}
}
