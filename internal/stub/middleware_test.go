package stub

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/crewbase/crewbase-go/pkg/domain"
)

func testTokenService() *TokenService {
	return NewTokenService(TokenConfig{
		JWTSecret: []byte("test-secret"),
		Issuer:    "crewstub",
	}, nil)
}

func signTestToken(t *testing.T, secret []byte, expiresAt time.Time) string {
	t.Helper()
	claims := AccessTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.New().String(),
		},
		Email: "user@test.dev",
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestRequireAuth(t *testing.T) {
	tokens := testTokenService()
	handler := RequireAuth(tokens, "dev-key")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{
			name:       "missing header",
			authHeader: "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed header",
			authHeader: "dev-key",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "api key passes",
			authHeader: "Bearer dev-key",
			wantStatus: http.StatusOK,
		},
		{
			name:       "valid access token passes",
			authHeader: "Bearer " + signTestToken(t, []byte("test-secret"), time.Now().Add(time.Hour)),
			wantStatus: http.StatusOK,
		},
		{
			name:       "expired token rejected",
			authHeader: "Bearer " + signTestToken(t, []byte("test-secret"), time.Now().Add(-time.Hour)),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "token signed with wrong secret rejected",
			authHeader: "Bearer " + signTestToken(t, []byte("other-secret"), time.Now().Add(time.Hour)),
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/rest/v1/employees", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestValidateAccessToken(t *testing.T) {
	tokens := testTokenService()

	token := signTestToken(t, []byte("test-secret"), time.Now().Add(time.Hour))
	claims, err := tokens.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken: %v", err)
	}
	if claims.Email != "user@test.dev" {
		t.Errorf("email claim = %q", claims.Email)
	}

	if _, err := tokens.ValidateAccessToken("garbage"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("error = %v, want ErrInvalidToken", err)
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
		wantOK bool
	}{
		{name: "standard", header: "Bearer abc123", want: "abc123", wantOK: true},
		{name: "lowercase scheme", header: "bearer abc123", want: "abc123", wantOK: true},
		{name: "missing", header: "", wantOK: false},
		{name: "no token", header: "Bearer", wantOK: false},
		{name: "wrong scheme", header: "Basic abc123", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			got, ok := bearerToken(req)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("token = %q, want %q", got, tt.want)
			}
		})
	}
}
