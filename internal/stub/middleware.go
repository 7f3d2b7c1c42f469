package stub

import (
	"net/http"
	"strings"

	"github.com/crewbase/crewbase-go/internal/httputil"
)

// bearerToken extracts the bearer token from the Authorization header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// RequireAuth admits requests carrying either a valid access token or the
// publishable API key. The stub has no row-level security; the key alone is
// enough for development use.
func RequireAuth(tokens *TokenService, apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				httputil.Error(w, http.StatusUnauthorized, "missing authorization")
				return
			}
			if token != apiKey {
				if _, err := tokens.ValidateAccessToken(token); err != nil {
					httputil.Error(w, http.StatusUnauthorized, "invalid or expired token")
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
