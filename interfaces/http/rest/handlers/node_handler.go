package handlers

import (
	"net/http"

	"brainstorm/application/commands"
	"brainstorm/application/commands/bus"
	"brainstorm/application/queries"
	querybus "brainstorm/application/queries/bus"
	"brainstorm/domain/core/valueobjects"
	"brainstorm/pkg/common"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// NodeHandler handles post-related HTTP requests
type NodeHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	logger     *zap.Logger
}

// NewNodeHandler creates a new node handler
func NewNodeHandler(commandBus *bus.CommandBus, queryBus *querybus.QueryBus, logger *zap.Logger) *NodeHandler {
	return &NodeHandler{commandBus: commandBus, queryBus: queryBus, logger: logger}
}

// CreatePostRequest represents the request body for creating a post
type CreatePostRequest struct {
	Title    string `json:"title,omitempty"`
	Content  string `json:"content"`
	ParentID string `json:"parent_id,omitempty"`
	Kind     string `json:"kind,omitempty"`
}

// InteractionRequest represents the request body for recording engagement
type InteractionRequest struct {
	Kind string `json:"kind"`
}

// CreatedResponse carries the id minted for a new post or edge
type CreatedResponse struct {
	ID string `json:"id"`
}

// CreatePost handles POST /nodes
func (h *NodeHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	scope, err := commandScope(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	var req CreatePostRequest
	if err := common.ParseJSONBody(w, r, &req); err != nil {
		common.RespondAppError(w, err)
		return
	}

	cmd := commands.CreatePostCommand{
		SessionScope: scope,
		NodeID:       valueobjects.NewNodeID(),
		Title:        req.Title,
		Content:      req.Content,
		ParentID:     valueobjects.NodeID(req.ParentID),
		Kind:         valueobjects.RelationKind(req.Kind),
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		common.RespondAppError(w, err)
		return
	}

	h.logger.Info("Post created",
		zap.String("nodeID", cmd.NodeID.String()),
		zap.String("userID", scope.UserID),
	)
	common.RespondJSON(w, http.StatusCreated, CreatedResponse{ID: cmd.NodeID.String()})
}

// GetNode handles GET /nodes/{nodeID}, read straight from the data service
func (h *NodeHandler) GetNode(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.GetNodeQuery{
		NodeID: valueobjects.NodeID(chi.URLParam(r, "nodeID")),
	})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// DeleteNode handles DELETE /nodes/{nodeID}
func (h *NodeHandler) DeleteNode(w http.ResponseWriter, r *http.Request) {
	scope, err := commandScope(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	cmd := commands.DeleteNodeCommand{
		SessionScope: scope,
		NodeID:       valueobjects.NodeID(chi.URLParam(r, "nodeID")),
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondNoContent(w)
}

// GetSoftLinks handles GET /nodes/{nodeID}/soft-links
func (h *NodeHandler) GetSoftLinks(w http.ResponseWriter, r *http.Request) {
	scope, err := queryScope(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetSoftLinksQuery{
		SessionScope: scope,
		NodeID:       valueobjects.NodeID(chi.URLParam(r, "nodeID")),
	})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// GetNeighbors handles GET /nodes/{nodeID}/neighbors
func (h *NodeHandler) GetNeighbors(w http.ResponseWriter, r *http.Request) {
	scope, err := queryScope(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetNeighborsQuery{
		SessionScope: scope,
		NodeID:       valueobjects.NodeID(chi.URLParam(r, "nodeID")),
	})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// RecordInteraction handles POST /nodes/{nodeID}/interactions
func (h *NodeHandler) RecordInteraction(w http.ResponseWriter, r *http.Request) {
	scope, err := commandScope(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	var req InteractionRequest
	if err := common.ParseJSONBody(w, r, &req); err != nil {
		common.RespondAppError(w, err)
		return
	}

	cmd := commands.RecordInteractionCommand{
		SessionScope: scope,
		NodeID:       valueobjects.NodeID(chi.URLParam(r, "nodeID")),
		Kind:         valueobjects.InteractionKind(req.Kind),
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondNoContent(w)
}
