package auth

import (
	"context"
	"errors"
)

type contextKey struct{}

// UserContext is the authenticated caller of a request
type UserContext struct {
	UserID string
	Email  string
	Roles  []string
}

// SetUserInContext stores the authenticated user
func SetUserInContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, contextKey{}, user)
}

// GetUserFromContext returns the authenticated user
func GetUserFromContext(ctx context.Context) (*UserContext, error) {
	user, ok := ctx.Value(contextKey{}).(*UserContext)
	if !ok || user == nil {
		return nil, errors.New("no user in context")
	}
	return user, nil
}
