package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/potatomail/potatomail/internal/auth"
	"github.com/potatomail/potatomail/internal/service"
)

// Context keys for session-authenticated request data
const (
	EmailKey  contextKey = "email"
	ClaimsKey contextKey = "claims"
)

// SessionAuth authenticates dashboard requests with a bearer access
// token and rejects denylisted (logged-out) tokens.
func (m *Middleware) SessionAuth(authSvc *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var tokenString string

			authHeader := r.Header.Get("Authorization")
			if authHeader != "" {
				parts := strings.SplitN(authHeader, " ", 2)
				if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
					tokenString = parts[1]
				}
			}

			if tokenString == "" {
				writeJSONError(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			claims, err := authSvc.ValidateToken(r.Context(), tokenString)
			if err != nil {
				m.log.Debug().Err(err).Msg("token validation failed")
				writeJSONError(w, http.StatusUnauthorized, "The access token is invalid or expired")
				return
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, UserIDKey, claims.Subject)
			ctx = context.WithValue(ctx, EmailKey, claims.Email)
			ctx = context.WithValue(ctx, ClaimsKey, claims)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClaims retrieves validated token claims from context
func GetClaims(ctx context.Context) *auth.Claims {
	if claims, ok := ctx.Value(ClaimsKey).(*auth.Claims); ok {
		return claims
	}
	return nil
}
