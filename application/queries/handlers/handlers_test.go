package handlers

import (
	"context"
	"errors"
	"testing"
	"time"

	"brainstorm/application/ports"
	"brainstorm/application/queries"
	"brainstorm/application/services"
	"brainstorm/domain/core/entities"
	"brainstorm/domain/core/valueobjects"
	"brainstorm/infrastructure/persistence/memory"
	pkgerrors "brainstorm/pkg/errors"
	"brainstorm/pkg/fixtures"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var scope = queries.SessionScope{UserID: "user-1", SessionID: "tab-1"}

func newRegistry(t *testing.T) (*services.SessionRegistry, *memory.DataService) {
	t.Helper()
	data := memory.NewDataService("graph-1")
	for i, id := range []string{"A", "B", "C", "D"} {
		data.PutNode(ports.NodeRecord{
			ID:        valueobjects.NodeID(id),
			Title:     "Post " + id,
			Content:   "post " + id,
			Author:    "user-1",
			CreatedAt: fixtures.BaseTime.Add(time.Duration(i) * time.Minute),
		})
	}
	data.PutRelation("A", "B", valueobjects.RelationHard)
	data.PutRelation("B", "C", valueobjects.RelationHard)
	data.PutRelation("B", "D", valueobjects.RelationSoft)

	registry := services.NewSessionRegistry(data, nil, nil, services.Instrumentation{}, time.Hour, zap.NewNop())
	t.Cleanup(registry.Close)
	return registry, data
}

func itemTypes(result *queries.ThreadResult) []string {
	out := make([]string, 0, len(result.Items))
	for _, item := range result.Items {
		out = append(out, item.Type+":"+item.Node.ID)
	}
	return out
}

func TestGetThreadHandler(t *testing.T) {
	registry, data := newRegistry(t)
	handler := NewGetThreadHandler(registry, zap.NewNop())
	ctx := context.Background()

	result, err := handler.Handle(ctx, queries.GetThreadQuery{SessionScope: scope, NodeID: "B"})
	require.NoError(t, err)
	assert.Equal(t, []string{"post:A", "post:B", "post:C"}, itemTypes(result))
	assert.False(t, result.FetchingMore)

	_, err = handler.Handle(ctx, queries.GetThreadQuery{SessionScope: scope, NodeID: "ghost"})
	assert.True(t, pkgerrors.IsNotFound(err))

	data.SetError("FetchNodeByID", errors.New("timeout"))
	other := queries.SessionScope{UserID: "user-2", SessionID: "tab-1"}
	_, err = handler.Handle(ctx, queries.GetThreadQuery{SessionScope: other, NodeID: "A"})
	assert.Equal(t, 502, pkgerrors.HTTPStatus(err))
}

func TestGetQueueAndFeedHandlers(t *testing.T) {
	registry, _ := newRegistry(t)
	ctx := context.Background()

	feed, err := NewGetFeedHandler(registry).Handle(ctx, queries.GetFeedQuery{SessionScope: scope, Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, []string{"post:D", "post:C", "post:B"}, itemTypes(feed))

	session := registry.Get(scope.UserID, scope.SessionID)
	session.Assembler.RebuildFromSelection("B")
	_, err = session.Assembler.ContinueAfterEnd(ctx)
	require.NoError(t, err)

	queue, err := NewGetQueueHandler(registry).Handle(ctx, queries.GetQueueQuery{SessionScope: scope})
	require.NoError(t, err)
	assert.Equal(t, []string{"post:B", "post:C", "handoff:D", "post:D"}, itemTypes(queue))
	assert.Equal(t, "B", queue.Items[2].From)
}

func TestLayoutHandlers(t *testing.T) {
	registry, _ := newRegistry(t)
	ctx := context.Background()

	visible, err := NewGetVisibleHandler(registry).Handle(ctx, queries.GetVisibleQuery{SessionScope: scope})
	require.NoError(t, err)
	assert.Empty(t, visible.Nodes)

	result, err := NewGetLayoutHandler(registry).Handle(ctx, queries.GetLayoutQuery{SessionScope: scope, NodeID: "A", GraphID: "graph-1"})
	require.NoError(t, err)
	assert.Equal(t, valueobjects.NodeID("A"), result.Layout.RootID)
	assert.Equal(t, entities.ClassRoot, result.Classes["A"])
	assert.Equal(t, entities.ClassThread, result.Classes["B"])
	assert.Equal(t, entities.ClassDecorative, result.Classes["D"], "D is only softly linked, so it lands on the outer ring")

	visible, err = NewGetVisibleHandler(registry).Handle(ctx, queries.GetVisibleQuery{SessionScope: scope})
	require.NoError(t, err)
	assert.NotEmpty(t, visible.Nodes)
	assert.Equal(t, services.DefaultCamera, visible.Camera)

	_, err = NewGetLayoutHandler(registry).Handle(ctx, queries.GetLayoutQuery{SessionScope: scope, NodeID: "ghost"})
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestNodeHandlers(t *testing.T) {
	registry, data := newRegistry(t)
	ctx := context.Background()
	_, err := NewGetThreadHandler(registry, zap.NewNop()).Handle(ctx, queries.GetThreadQuery{SessionScope: scope, NodeID: "A"})
	require.NoError(t, err)

	neighbors, err := NewGetNeighborsHandler(registry).Handle(ctx, queries.GetNeighborsQuery{SessionScope: scope, NodeID: "B"})
	require.NoError(t, err)
	ids := []string{}
	for _, n := range neighbors.Neighbors {
		ids = append(ids, n.ID)
	}
	assert.ElementsMatch(t, []string{"A", "C"}, ids)

	_, err = NewGetNeighborsHandler(registry).Handle(ctx, queries.GetNeighborsQuery{SessionScope: scope, NodeID: "ghost"})
	assert.True(t, pkgerrors.IsNotFound(err))

	links, err := NewGetSoftLinksHandler(registry).Handle(ctx, queries.GetSoftLinksQuery{SessionScope: scope, NodeID: "A"})
	require.NoError(t, err)
	assert.NotNil(t, links.Links)
	assert.Empty(t, links.Links)

	getNode := NewGetNodeHandler(data, zap.NewNop())
	view, err := getNode.Handle(ctx, queries.GetNodeQuery{NodeID: "D"})
	require.NoError(t, err)
	assert.Equal(t, "Post D", view.Title)

	_, err = getNode.Handle(ctx, queries.GetNodeQuery{NodeID: "ghost"})
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestQueryValidation(t *testing.T) {
	assert.True(t, pkgerrors.IsValidation(queries.GetFeedQuery{SessionScope: scope, Limit: 1000}.Validate()))
	assert.True(t, pkgerrors.IsValidation(queries.GetThreadQuery{SessionScope: scope}.Validate()))
	assert.True(t, pkgerrors.IsValidation(queries.GetNodeQuery{}.Validate()))
	assert.NoError(t, queries.GetFeedQuery{SessionScope: scope}.Validate())
	assert.Equal(t, "D", queries.GetNodeQuery{NodeID: "D"}.CacheKey())
}
