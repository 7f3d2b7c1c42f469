package backend

import (
	"context"
	"net/http"
	"net/url"
)

// StorageClient uploads objects and resolves their public URLs.
type StorageClient struct {
	client *Client
}

// Upload writes an object into a bucket. With upsert set, an existing object
// at the same path is overwritten.
func (s *StorageClient) Upload(ctx context.Context, bucket, path string, data []byte, contentType string, upsert bool) error {
	headers := map[string]string{
		"Content-Type": contentType,
	}
	if upsert {
		headers["x-upsert"] = "true"
	}
	return s.client.do(ctx, http.MethodPost, s.objectPath(bucket, path), headers, data, nil)
}

// PublicURL returns the public URL for an object. No network call is made;
// the backend serves public objects directly.
func (s *StorageClient) PublicURL(bucket, path string) string {
	return s.client.baseURL + "/storage/v1/object/public/" + url.PathEscape(bucket) + "/" + escapeObjectPath(path)
}

func (s *StorageClient) objectPath(bucket, path string) string {
	return "/storage/v1/object/" + url.PathEscape(bucket) + "/" + escapeObjectPath(path)
}

// escapeObjectPath escapes each segment while keeping slashes, so paths like
// "<company-id>/logo.png" stay hierarchical.
func escapeObjectPath(path string) string {
	escaped := ""
	for i, segment := range splitPath(path) {
		if i > 0 {
			escaped += "/"
		}
		escaped += url.PathEscape(segment)
	}
	return escaped
}

func splitPath(path string) []string {
	var segments []string
	start := 0
	for i := 0; i < len(path); i++ {
		if path[i] == '/' {
			segments = append(segments, path[start:i])
			start = i + 1
		}
	}
	return append(segments, path[start:])
}
