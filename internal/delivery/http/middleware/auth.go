package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	h "moija/internal/delivery/http/helpers"
	"moija/internal/domain"
)

type contextKey string

const participantNameKey contextKey = "participantName"

// SetParticipantName returns a context with the caller's display name set.
// Used by auth middleware.
func SetParticipantName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, participantNameKey, name)
}

// ParticipantNameFromContext returns the authenticated display name from the
// context, if present.
func ParticipantNameFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(participantNameKey).(string)
	return name, ok
}

// RequireAuth returns a wrapper that validates the Bearer token and sets the
// caller's display name in the request context. If the token is missing or
// invalid, it responds with 401 and does not call next.
func RequireAuth(verifier domain.TokenVerifier, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
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
			name, err := verifier.Verify(token)
			if err != nil {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired token")
				return
			}
			r = r.WithContext(SetParticipantName(r.Context(), name))
			next(w, r)
		}
	}
}
