package handlers

import (
	"net/http"

	"brainstorm/application/commands"
	"brainstorm/application/commands/bus"
	"brainstorm/domain/core/valueobjects"
	"brainstorm/pkg/common"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// EdgeHandler handles relation-related HTTP requests
type EdgeHandler struct {
	commandBus *bus.CommandBus
	logger     *zap.Logger
}

// NewEdgeHandler creates a new edge handler
func NewEdgeHandler(commandBus *bus.CommandBus, logger *zap.Logger) *EdgeHandler {
	return &EdgeHandler{commandBus: commandBus, logger: logger}
}

// CreateEdgeRequest represents the request body for linking two posts
type CreateEdgeRequest struct {
	SourceID string `json:"source_id"`
	TargetID string `json:"target_id"`
	Kind     string `json:"kind"`
}

// CreateEdge handles POST /edges
func (h *EdgeHandler) CreateEdge(w http.ResponseWriter, r *http.Request) {
	scope, err := commandScope(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	var req CreateEdgeRequest
	if err := common.ParseJSONBody(w, r, &req); err != nil {
		common.RespondAppError(w, err)
		return
	}

	cmd := commands.AddEdgeCommand{
		SessionScope: scope,
		EdgeID:       valueobjects.NewEdgeID(),
		SourceID:     valueobjects.NodeID(req.SourceID),
		TargetID:     valueobjects.NodeID(req.TargetID),
		Kind:         valueobjects.RelationKind(req.Kind),
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		common.RespondAppError(w, err)
		return
	}

	h.logger.Debug("Edge created",
		zap.String("edgeID", cmd.EdgeID.String()),
		zap.String("source", req.SourceID),
		zap.String("target", req.TargetID),
	)
	common.RespondJSON(w, http.StatusCreated, CreatedResponse{ID: cmd.EdgeID.String()})
}

// DeleteEdge handles DELETE /edges/{edgeID}
func (h *EdgeHandler) DeleteEdge(w http.ResponseWriter, r *http.Request) {
	scope, err := commandScope(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	cmd := commands.DeleteEdgeCommand{
		SessionScope: scope,
		EdgeID:       valueobjects.EdgeID(chi.URLParam(r, "edgeID")),
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondNoContent(w)
}
