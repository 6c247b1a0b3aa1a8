package handlers

import (
	"context"

	"brainstorm/application/commands"

	"go.uber.org/zap"
)

// ContinueThreadHandler handles feed continuation commands
type ContinueThreadHandler struct {
	sessions SessionProvider
	logger   *zap.Logger
}

// NewContinueThreadHandler creates a new continue thread handler
func NewContinueThreadHandler(sessions SessionProvider, logger *zap.Logger) *ContinueThreadHandler {
	return &ContinueThreadHandler{sessions: sessions, logger: logger}
}

// Handle executes the continue thread command.
// Reaching the end of everything reachable is not an error; the feed simply stays as it is.
func (h *ContinueThreadHandler) Handle(ctx context.Context, cmd commands.ContinueThreadCommand) error {
	session := h.sessions.Get(cmd.UserID, cmd.SessionID)

	appended, err := session.Assembler.ContinueAfterEnd(ctx)
	if err != nil {
		return err
	}
	if len(appended) > 0 {
		h.logger.Debug("Feed extended",
			zap.String("sessionID", cmd.SessionID),
			zap.String("target", appended[0].NodeID().String()),
			zap.Int("appended", len(appended)),
		)
	}
	return nil
}

// ClearThreadHandler handles feed reset commands
type ClearThreadHandler struct {
	sessions SessionProvider
}

// NewClearThreadHandler creates a new clear thread handler
func NewClearThreadHandler(sessions SessionProvider) *ClearThreadHandler {
	return &ClearThreadHandler{sessions: sessions}
}

// Handle executes the clear thread command
func (h *ClearThreadHandler) Handle(_ context.Context, cmd commands.ClearThreadCommand) error {
	h.sessions.Get(cmd.UserID, cmd.SessionID).Assembler.ClearThread()
	return nil
}
