package handlers

import (
	"context"

	"brainstorm/application/commands"
	"brainstorm/domain/services/viewport"
)

// CloseLayoutHandler handles layout close commands
type CloseLayoutHandler struct {
	sessions SessionProvider
}

// NewCloseLayoutHandler creates a new close layout handler
func NewCloseLayoutHandler(sessions SessionProvider) *CloseLayoutHandler {
	return &CloseLayoutHandler{sessions: sessions}
}

// Handle executes the close layout command
func (h *CloseLayoutHandler) Handle(_ context.Context, cmd commands.CloseLayoutCommand) error {
	h.sessions.Get(cmd.UserID, cmd.SessionID).Layout.Close()
	return nil
}

// SubmitCameraHandler handles zoom and pan updates
type SubmitCameraHandler struct {
	sessions SessionProvider
}

// NewSubmitCameraHandler creates a new submit camera handler
func NewSubmitCameraHandler(sessions SessionProvider) *SubmitCameraHandler {
	return &SubmitCameraHandler{sessions: sessions}
}

// Handle executes the submit camera command
func (h *SubmitCameraHandler) Handle(_ context.Context, cmd commands.SubmitCameraCommand) error {
	vp := h.sessions.Get(cmd.UserID, cmd.SessionID).Viewport
	vp.SubmitCamera(viewport.Camera{
		Width:  cmd.Width,
		Height: cmd.Height,
		Zoom:   cmd.Zoom,
		PanX:   cmd.PanX,
		PanY:   cmd.PanY,
	})
	if cmd.Immediate {
		vp.Flush()
	}
	return nil
}
