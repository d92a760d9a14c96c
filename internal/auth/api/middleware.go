package authapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"storeadmin/internal/auth/session"
)

type ctxKey int

const claimsKey ctxKey = iota

// ClaimsFromContext returns the access claims a Require* wrapper stored for
// the request.
func ClaimsFromContext(ctx context.Context) (session.AccessClaims, bool) {
	claims, ok := ctx.Value(claimsKey).(session.AccessClaims)
	return claims, ok
}

// RequireToken wraps next with the light check: a valid, unexpired token
// whose status snapshot is not blocked. It does not consult the session
// store, so a just-blacklisted session still passes until its token expires.
func (h *Handler) RequireToken(next http.HandlerFunc) http.HandlerFunc {
	return h.requireAuth(next, h.sessions.Authenticate)
}

// RequireSession wraps next with the strict check: everything RequireToken
// does plus a live session row, so logout and blacklisting bite immediately.
func (h *Handler) RequireSession(next http.HandlerFunc) http.HandlerFunc {
	return h.requireAuth(next, h.sessions.AuthenticateStrict)
}

func (h *Handler) requireAuth(next http.HandlerFunc, check func(context.Context, string) (session.AccessClaims, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "Missing token")
			return
		}

		claims, err := check(r.Context(), token)
		if err != nil {
			writeAuthError(w, err)
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
	}
}

func writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrAccountBlocked):
		writeError(w, http.StatusForbidden, "Your account is blocked. Please contact support.")
	case errors.Is(err, session.ErrAccountInactive):
		writeError(w, http.StatusForbidden, "Your account is not active.")
	case errors.Is(err, session.ErrSessionInvalidated):
		writeError(w, http.StatusUnauthorized, "Session invalidated")
	case errors.Is(err, session.ErrSessionExpired):
		writeError(w, http.StatusUnauthorized, "No activity detected, session expired")
	default:
		writeError(w, http.StatusUnauthorized, "Invalid token")
	}
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	parts := strings.SplitN(raw, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
