// Package handlers translates HTTP requests into navigation commands and queries.
package handlers

import (
	"net/http"
	"strconv"

	"brainstorm/application/commands"
	"brainstorm/application/queries"
	"brainstorm/interfaces/http/rest/middleware"
	"brainstorm/pkg/auth"
	pkgerrors "brainstorm/pkg/errors"
)

// requestScope resolves the caller and navigation session of r
func requestScope(r *http.Request) (userID, sessionID string, err error) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		return "", "", pkgerrors.NewUnauthorizedError("")
	}
	return user.UserID, middleware.SessionIDFromContext(r.Context()), nil
}

func commandScope(r *http.Request) (commands.SessionScope, error) {
	userID, sessionID, err := requestScope(r)
	return commands.SessionScope{UserID: userID, SessionID: sessionID}, err
}

func queryScope(r *http.Request) (queries.SessionScope, error) {
	userID, sessionID, err := requestScope(r)
	return queries.SessionScope{UserID: userID, SessionID: sessionID}, err
}

// intParam parses an optional integer query parameter
func intParam(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.NewValidationError(name + " must be an integer")
	}
	return v, nil
}
