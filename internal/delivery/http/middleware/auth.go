package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	h "techcalendar/internal/delivery/http/helpers"
	"techcalendar/internal/domain"
)

type contextKey string

const scopeKey contextKey = "scope"

// SetScope returns a context with the token scope set. Used by auth middleware.
func SetScope(ctx context.Context, scope string) context.Context {
	return context.WithValue(ctx, scopeKey, scope)
}

// ScopeFromContext returns the authenticated token scope from the context, if present.
func ScopeFromContext(ctx context.Context) (string, bool) {
	scope, ok := ctx.Value(scopeKey).(string)
	return scope, ok
}

// RequireAuth returns a wrapper that validates the Bearer token, checks that its
// scope matches requiredScope, and sets the scope in the request context.
// If the token is missing, invalid, or scoped differently, it responds with 401
// and does not call next.
func RequireAuth(verifier domain.TokenVerifier, requiredScope string, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing authorization header")
				return
			}
			const prefix = "Bearer "
			if !strings.HasPrefix(auth, prefix) {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid authorization format")
				return
			}
			token := strings.TrimSpace(auth[len(prefix):])
			if token == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing token")
				return
			}
			scope, err := verifier.Verify(token)
			if err != nil {
				logger.Debug("token verification failed", "error", err)
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired token")
				return
			}
			if scope != requiredScope {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "token not valid for this resource")
				return
			}
			r = r.WithContext(SetScope(r.Context(), scope))
			next(w, r)
		}
	}
}
