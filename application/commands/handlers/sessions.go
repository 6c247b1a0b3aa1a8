package handlers

import (
	"context"

	"brainstorm/application/commands"
	"brainstorm/application/services"

	"go.uber.org/zap"
)

// SessionProvider resolves the navigation session of a reader
type SessionProvider interface {
	Get(userID, sessionID string) *services.Session
	End(userID, sessionID string)
}

// EndSessionHandler handles session teardown commands
type EndSessionHandler struct {
	sessions SessionProvider
	logger   *zap.Logger
}

// NewEndSessionHandler creates a new end session handler
func NewEndSessionHandler(sessions SessionProvider, logger *zap.Logger) *EndSessionHandler {
	return &EndSessionHandler{sessions: sessions, logger: logger}
}

// Handle executes the end session command
func (h *EndSessionHandler) Handle(_ context.Context, cmd commands.EndSessionCommand) error {
	h.sessions.End(cmd.UserID, cmd.SessionID)
	h.logger.Info("Session ended",
		zap.String("userID", cmd.UserID),
		zap.String("sessionID", cmd.SessionID),
	)
	return nil
}
