package stub

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func newStorageRouter() (*StorageHandler, http.Handler) {
	h := NewStorageHandler(slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	r.Post("/storage/v1/object/{bucket}/*", h.Upload)
	r.Get("/storage/v1/object/public/{bucket}/*", h.Serve)
	return h, r
}

func upload(router http.Handler, path, body, contentType string, upsert bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/storage/v1/object/"+path, strings.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	if upsert {
		req.Header.Set("x-upsert", "true")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestStorageUploadAndServe(t *testing.T) {
	_, router := newStorageRouter()

	w := upload(router, "company-logos/company-1/logo.png", "png bytes", "image/png", false)
	if w.Code != http.StatusOK {
		t.Fatalf("upload status = %d, body %s", w.Code, w.Body.String())
	}

	req := httptest.NewRequest("GET", "/storage/v1/object/public/company-logos/company-1/logo.png", nil)
	got := httptest.NewRecorder()
	router.ServeHTTP(got, req)

	if got.Code != http.StatusOK {
		t.Fatalf("serve status = %d", got.Code)
	}
	if got.Body.String() != "png bytes" {
		t.Errorf("body = %q", got.Body.String())
	}
	if ct := got.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestStorageUploadConflict(t *testing.T) {
	_, router := newStorageRouter()

	if w := upload(router, "b/x.txt", "one", "text/plain", false); w.Code != http.StatusOK {
		t.Fatalf("first upload status = %d", w.Code)
	}

	// Second write without upsert is rejected
	if w := upload(router, "b/x.txt", "two", "text/plain", false); w.Code != http.StatusConflict {
		t.Errorf("duplicate upload status = %d, want 409", w.Code)
	}

	// With upsert it overwrites
	if w := upload(router, "b/x.txt", "two", "text/plain", true); w.Code != http.StatusOK {
		t.Errorf("upsert upload status = %d", w.Code)
	}

	req := httptest.NewRequest("GET", "/storage/v1/object/public/b/x.txt", nil)
	got := httptest.NewRecorder()
	router.ServeHTTP(got, req)
	if got.Body.String() != "two" {
		t.Errorf("body after upsert = %q", got.Body.String())
	}
}

func TestStorageServeMissingObject(t *testing.T) {
	_, router := newStorageRouter()

	req := httptest.NewRequest("GET", "/storage/v1/object/public/b/missing.txt", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}
