package stub

import (
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/crewbase/crewbase-go/internal/httputil"
)

// maxObjectSize caps stub uploads; the hosted service enforces its own
// limits per bucket.
const maxObjectSize = 10 * 1024 * 1024

type storedObject struct {
	data        []byte
	contentType string
}

// StorageHandler is an in-memory object store serving the storage surface.
// Objects do not survive a restart; the stub is for development only.
type StorageHandler struct {
	logger *slog.Logger

	mu      sync.RWMutex
	objects map[string]storedObject
}

// NewStorageHandler creates a storage handler.
func NewStorageHandler(logger *slog.Logger) *StorageHandler {
	return &StorageHandler{
		logger:  logger,
		objects: make(map[string]storedObject),
	}
}

// Upload handles POST /storage/v1/object/{bucket}/*.
func (h *StorageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	bucket := chi.URLParam(r, "bucket")
	path := chi.URLParam(r, "*")
	if bucket == "" || path == "" {
		httputil.Error(w, http.StatusBadRequest, "bucket and object path are required")
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxObjectSize+1))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "failed to read object body")
		return
	}
	if len(data) > maxObjectSize {
		httputil.Error(w, http.StatusRequestEntityTooLarge, "object too large")
		return
	}

	key := bucket + "/" + path
	upsert := r.Header.Get("x-upsert") == "true"

	h.mu.Lock()
	if _, exists := h.objects[key]; exists && !upsert {
		h.mu.Unlock()
		httputil.Error(w, http.StatusConflict, "object already exists")
		return
	}
	h.objects[key] = storedObject{
		data:        data,
		contentType: r.Header.Get("Content-Type"),
	}
	h.mu.Unlock()

	h.logger.Info("object stored", "bucket", bucket, "path", path, "bytes", len(data))
	httputil.JSON(w, http.StatusOK, map[string]string{"Key": key})
}

// Serve handles GET /storage/v1/object/public/{bucket}/*.
func (h *StorageHandler) Serve(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "bucket") + "/" + chi.URLParam(r, "*")

	h.mu.RLock()
	object, ok := h.objects[key]
	h.mu.RUnlock()
	if !ok {
		httputil.Error(w, http.StatusNotFound, "object not found")
		return
	}

	if object.contentType != "" {
		w.Header().Set("Content-Type", object.contentType)
	}
	_, _ = w.Write(object.data)
}
