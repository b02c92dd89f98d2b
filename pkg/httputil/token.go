package httputil

import (
	"errors"
	"net/http"
	"strings"
)

var ErrNoToken = errors.New("no token in header or query")

// GetTokenFromRequest reads a bearer token from the Authorization header and
// falls back to the "token" query parameter, which browsers must use for
// WebSocket upgrades.
func GetTokenFromRequest(r *http.Request) (string, error) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		// Support "Bearer <token>" format
		if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
			authHeader = token
		}
		if authHeader = strings.TrimSpace(authHeader); authHeader != "" {
			return authHeader, nil
		}
	}

	if token := r.URL.Query().Get("token"); token != "" {
		return token, nil
	}
	return "", ErrNoToken
}
