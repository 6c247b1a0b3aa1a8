package middleware

import (
	"context"
	"net/http"

	"brainstorm/pkg/common"
	pkgerrors "brainstorm/pkg/errors"
)

// SessionHeader names the navigation session of a request; one per open tab
const SessionHeader = "X-Session-ID"

const maxSessionIDLength = 128

type sessionKey struct{}

// RequireSession rejects requests that do not name a navigation session
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.Header.Get(SessionHeader)
		if sessionID == "" {
			common.RespondAppError(w, pkgerrors.NewValidationError(SessionHeader+" header is required"))
			return
		}
		if len(sessionID) > maxSessionIDLength {
			common.RespondAppError(w, pkgerrors.NewValidationError(SessionHeader+" header is too long"))
			return
		}
		next.ServeHTTP(w, r.WithContext(WithSessionID(r.Context(), sessionID)))
	})
}

// WithSessionID stores the navigation session id
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionKey{}, sessionID)
}

// SessionIDFromContext returns the navigation session id, empty when none was set
func SessionIDFromContext(ctx context.Context) string {
	sessionID, _ := ctx.Value(sessionKey{}).(string)
	return sessionID
}
