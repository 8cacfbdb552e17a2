package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/potatomail/potatomail/internal/service"
)

// Context keys for API-key-authenticated request data
const (
	UserIDKey   contextKey = "user_id"
	APIKeyIDKey contextKey = "api_key_id"
)

// APIKeyAuth authenticates programmatic requests with an API key taken
// from the X-API-Key header or, equivalently, the api_key query
// parameter. A missing, unknown, or non-active key short-circuits to a
// 401 before the handler body runs; no further lookups happen for it.
func (m *Middleware) APIKeyAuth(keySvc *service.KeyService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			keyValue := r.Header.Get("X-API-Key")
			if keyValue == "" {
				keyValue = r.URL.Query().Get("api_key")
			}

			if keyValue == "" {
				writeJSONError(w, http.StatusUnauthorized, "API key required")
				return
			}

			key, err := keySvc.Validate(r.Context(), keyValue)
			if err != nil {
				if errors.Is(err, service.ErrInvalidAPIKey) {
					writeJSONError(w, http.StatusUnauthorized, "Invalid API key")
					return
				}
				m.log.Error().Err(err).Msg("api key validation failed")
				writeJSONError(w, http.StatusInternalServerError, "API key validation failed")
				return
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, UserIDKey, key.UserID)
			ctx = context.WithValue(ctx, APIKeyIDKey, key.ID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID retrieves the authenticated account ID from context
func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok {
		return id
	}
	return ""
}
