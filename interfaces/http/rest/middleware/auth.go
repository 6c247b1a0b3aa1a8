package middleware

import (
	"errors"
	"net/http"
	"strings"

	"brainstorm/pkg/auth"
	"brainstorm/pkg/common"
	pkgerrors "brainstorm/pkg/errors"

	"go.uber.org/zap"
)

// AuthConfig selects how callers are identified
type AuthConfig struct {
	// Validator checks bearer tokens; nil accepts every caller as DevUserID
	Validator *auth.JWTValidator
	// TrustGateway accepts the user headers set after API Gateway validated the token
	TrustGateway bool
	// DevUserID is the caller when no validator is configured; X-User-ID overrides it
	DevUserID string
}

// Authenticate identifies the caller and stores it in the request context
func Authenticate(cfg AuthConfig, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := identify(cfg, r)
			if err != nil {
				logger.Debug("Authentication failed",
					zap.Error(err),
					zap.String("path", r.URL.Path),
					zap.String("ip", clientIP(r)),
				)
				common.RespondAppError(w, pkgerrors.NewUnauthorizedError(unauthorizedMessage(err)))
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.SetUserInContext(r.Context(), user)))
		})
	}
}

func identify(cfg AuthConfig, r *http.Request) (*auth.UserContext, error) {
	if cfg.TrustGateway && r.Header.Get("X-API-Gateway-Authorized") == "true" {
		userID := r.Header.Get("X-User-ID")
		if userID == "" {
			return nil, errors.New("missing user context from API Gateway")
		}
		roles := []string{"authenticated"}
		if header := r.Header.Get("X-User-Roles"); header != "" {
			roles = strings.Split(header, ",")
		}
		return &auth.UserContext{UserID: userID, Email: r.Header.Get("X-User-Email"), Roles: roles}, nil
	}

	if cfg.Validator == nil {
		userID := r.Header.Get("X-User-ID")
		if userID == "" {
			userID = cfg.DevUserID
		}
		if userID == "" {
			return nil, auth.ErrMissingToken
		}
		return &auth.UserContext{UserID: userID, Roles: []string{"developer"}}, nil
	}

	token := extractToken(r)
	if token == "" {
		return nil, auth.ErrMissingToken
	}
	claims, err := cfg.Validator.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	return &auth.UserContext{UserID: claims.UserID, Email: claims.Email, Roles: claims.Roles}, nil
}

// extractToken reads the bearer token from the Authorization header or the auth_token cookie
func extractToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookie, err := r.Cookie("auth_token"); err == nil {
		return cookie.Value
	}
	return ""
}

func unauthorizedMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "token has expired"
	case errors.Is(err, auth.ErrInvalidSignature):
		return "invalid token signature"
	case errors.Is(err, auth.ErrMissingToken):
		return "missing authentication token"
	default:
		return "invalid token"
	}
}
