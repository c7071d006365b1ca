package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/JonMunkholm/dataclean/internal/config"
)

// authError is the JSON body of a rejected request.
type authError struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// APIKeyAuth returns middleware that validates the X-API-Key header against
// the configured keys. When RequireAPIKey is false all requests pass.
func APIKeyAuth(cfg *config.SecurityConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.RequireAPIKey {
				next.ServeHTTP(w, r)
				return
			}

			apiKey := r.Header.Get("X-API-Key")
			if apiKey == "" {
				slog.Warn("auth: missing API key",
					"path", r.URL.Path,
					"method", r.Method,
					"remote_addr", r.RemoteAddr,
				)
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, authError{Error: "missing API key", Code: "AUTH_MISSING_KEY"})
				return
			}

			if !isValidAPIKey(apiKey, cfg.APIKeys) {
				slog.Warn("auth: invalid API key",
					"path", r.URL.Path,
					"method", r.Method,
					"remote_addr", r.RemoteAddr,
				)
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, authError{Error: "invalid API key", Code: "AUTH_INVALID_KEY"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// isValidAPIKey compares against every configured key in constant time.
func isValidAPIKey(key string, validKeys []string) bool {
	valid := 0
	for _, validKey := range validKeys {
		valid |= subtle.ConstantTimeCompare([]byte(key), []byte(validKey))
	}
	return valid == 1
}
