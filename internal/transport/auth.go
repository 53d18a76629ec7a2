package transport

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"github.com/exa-labs/exa-mcp-server-go/internal/errors"
)

// RequireBearer gates next behind a static bearer token. The comparison is
// constant time; everything else about the scheme is deliberately plain:
// one shared secret, no expiry, no rate limiting.
//
// It protects session establishment only. The /messages endpoint is trusted
// via possession of a valid session id instead.
func RequireBearer(log *slog.Logger, token string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token == "" {
			log.Warn("Rejecting connection", "error", errors.ErrNoAPIToken)
			http.Error(w, "Unauthorized: "+errors.ErrNoAPIToken.Error(), http.StatusUnauthorized)

			return
		}

		auth := r.Header.Get("Authorization")
		if auth == "" {
			log.Warn("Rejecting connection: missing Authorization header")
			http.Error(w, "Unauthorized: missing Authorization header", http.StatusUnauthorized)

			return
		}

		const prefix = "Bearer "
		if !strings.HasPrefix(auth, prefix) ||
			subtle.ConstantTimeCompare([]byte(auth[len(prefix):]), []byte(token)) != 1 {
			log.Warn("Rejecting connection: invalid API token")
			http.Error(w, "Unauthorized: invalid API token", http.StatusUnauthorized)

			return
		}

		next.ServeHTTP(w, r)
	})
}
