package handlers

import (
	"net/http"

	"brainstorm/application/commands"
	"brainstorm/application/commands/bus"
	"brainstorm/pkg/common"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionHandler opens and closes navigation sessions
type SessionHandler struct {
	commandBus *bus.CommandBus
	logger     *zap.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(commandBus *bus.CommandBus, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{commandBus: commandBus, logger: logger}
}

// SessionResponse carries a freshly minted session id
type SessionResponse struct {
	SessionID string `json:"session_id"`
}

// CreateSession handles POST /sessions. The session itself is created lazily on first use.
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	if _, _, err := requestScope(r); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, SessionResponse{SessionID: uuid.NewString()})
}

// EndSession handles DELETE /sessions
func (h *SessionHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	scope, err := commandScope(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	if err := h.commandBus.Send(r.Context(), commands.EndSessionCommand{SessionScope: scope}); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondNoContent(w)
}
