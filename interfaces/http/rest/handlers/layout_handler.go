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

// LayoutHandler serves the spatial layout and the camera looking at it
type LayoutHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	logger     *zap.Logger
}

// NewLayoutHandler creates a new layout handler
func NewLayoutHandler(commandBus *bus.CommandBus, queryBus *querybus.QueryBus, logger *zap.Logger) *LayoutHandler {
	return &LayoutHandler{commandBus: commandBus, queryBus: queryBus, logger: logger}
}

// CameraRequest represents the request body for moving the camera
type CameraRequest struct {
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Zoom      float64 `json:"zoom"`
	PanX      float64 `json:"pan_x"`
	PanY      float64 `json:"pan_y"`
	Immediate bool    `json:"immediate"`
}

// GetLayout handles GET /layouts/{nodeID}?graph_id=&author=
func (h *LayoutHandler) GetLayout(w http.ResponseWriter, r *http.Request) {
	scope, err := queryScope(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetLayoutQuery{
		SessionScope: scope,
		NodeID:       valueobjects.NodeID(chi.URLParam(r, "nodeID")),
		GraphID:      r.URL.Query().Get("graph_id"),
		Author:       r.URL.Query().Get("author"),
	})
	if err != nil {
		h.logger.Debug("Layout failed", zap.String("nodeID", chi.URLParam(r, "nodeID")), zap.Error(err))
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// CloseLayout handles DELETE /layouts
func (h *LayoutHandler) CloseLayout(w http.ResponseWriter, r *http.Request) {
	scope, err := commandScope(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	if err := h.commandBus.Send(r.Context(), commands.CloseLayoutCommand{SessionScope: scope}); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondNoContent(w)
}

// SubmitCamera handles PUT /viewport; updates are applied on the next frame unless immediate
func (h *LayoutHandler) SubmitCamera(w http.ResponseWriter, r *http.Request) {
	scope, err := commandScope(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	var req CameraRequest
	if err := common.ParseJSONBody(w, r, &req); err != nil {
		common.RespondAppError(w, err)
		return
	}

	cmd := commands.SubmitCameraCommand{
		SessionScope: scope,
		Width:        req.Width,
		Height:       req.Height,
		Zoom:         req.Zoom,
		PanX:         req.PanX,
		PanY:         req.PanY,
		Immediate:    req.Immediate,
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		common.RespondAppError(w, err)
		return
	}
	if req.Immediate {
		common.RespondNoContent(w)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// GetVisible handles GET /viewport/visible
func (h *LayoutHandler) GetVisible(w http.ResponseWriter, r *http.Request) {
	scope, err := queryScope(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetVisibleQuery{SessionScope: scope})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}
