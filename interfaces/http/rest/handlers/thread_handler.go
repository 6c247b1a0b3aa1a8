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

// ThreadHandler serves the reading feed of a session
type ThreadHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	logger     *zap.Logger
}

// NewThreadHandler creates a new thread handler
func NewThreadHandler(commandBus *bus.CommandBus, queryBus *querybus.QueryBus, logger *zap.Logger) *ThreadHandler {
	return &ThreadHandler{commandBus: commandBus, queryBus: queryBus, logger: logger}
}

// GetThread handles GET /threads/{nodeID}
func (h *ThreadHandler) GetThread(w http.ResponseWriter, r *http.Request) {
	scope, err := queryScope(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetThreadQuery{
		SessionScope: scope,
		NodeID:       valueobjects.NodeID(chi.URLParam(r, "nodeID")),
	})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// GetQueue handles GET /threads
func (h *ThreadHandler) GetQueue(w http.ResponseWriter, r *http.Request) {
	scope, err := queryScope(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetQueueQuery{SessionScope: scope})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// ContinueThread handles POST /threads/continue and returns the extended feed
func (h *ThreadHandler) ContinueThread(w http.ResponseWriter, r *http.Request) {
	scope, err := commandScope(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	if err := h.commandBus.Send(r.Context(), commands.ContinueThreadCommand{SessionScope: scope}); err != nil {
		h.logger.Debug("Thread continuation failed", zap.String("sessionID", scope.SessionID), zap.Error(err))
		common.RespondAppError(w, err)
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetQueueQuery{
		SessionScope: queries.SessionScope{UserID: scope.UserID, SessionID: scope.SessionID},
	})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// ClearThread handles DELETE /threads
func (h *ThreadHandler) ClearThread(w http.ResponseWriter, r *http.Request) {
	scope, err := commandScope(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	if err := h.commandBus.Send(r.Context(), commands.ClearThreadCommand{SessionScope: scope}); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondNoContent(w)
}

// GetFeed handles GET /feed?graph_id=&author=&limit=
func (h *ThreadHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	scope, err := queryScope(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	limit, err := intParam(r, "limit")
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetFeedQuery{
		SessionScope: scope,
		GraphID:      r.URL.Query().Get("graph_id"),
		Author:       r.URL.Query().Get("author"),
		Limit:        limit,
	})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}
