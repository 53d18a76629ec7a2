package transport

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/exa-labs/exa-mcp-server-go/internal/logging"
)

func TestRequireBearer(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		token      string
		authHeader string
		wantStatus int
		wantBody   string
	}{
		{"no token configured", "", "Bearer anything", http.StatusUnauthorized, "Unauthorized: no API token configured"},
		{"missing header", "secret", "", http.StatusUnauthorized, "Unauthorized: missing Authorization header"},
		{"wrong token", "secret", "Bearer wrong", http.StatusUnauthorized, "Unauthorized: invalid API token"},
		{"wrong scheme", "secret", "Basic secret", http.StatusUnauthorized, "Unauthorized: invalid API token"},
		{"valid token", "secret", "Bearer secret", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := RequireBearer(logging.Nop(), tt.token, next)

			req := httptest.NewRequest(http.MethodGet, "/sse", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, strings.TrimSpace(rec.Body.String()))
			}
		})
	}
}

func TestRequireBearerRepeated(t *testing.T) {
	// A wrong token is rejected no matter how many valid requests preceded it.
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireBearer(logging.Nop(), "secret", next)

	do := func(header string) int {
		req := httptest.NewRequest(http.MethodGet, "/sse", nil)
		req.Header.Set("Authorization", header)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		return rec.Code
	}

	for range 5 {
		assert.Equal(t, http.StatusOK, do("Bearer secret"))
	}

	assert.Equal(t, http.StatusUnauthorized, do("Bearer wrong"))
}
