package queries

import (
	"time"

	"brainstorm/domain/core/aggregates"
	"brainstorm/domain/core/entities"
	"brainstorm/domain/services/viewport"
)

// NodeView is the presented form of a post
type NodeView struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
	Views     int64     `json:"views"`
	Thoughts  int64     `json:"thoughts"`
	Tags      []string  `json:"tags"`
	Emoji     string    `json:"emoji,omitempty"`
}

// NodeViewFrom converts a post entity
func NodeViewFrom(n *entities.Node) NodeView {
	return NodeView{
		ID:        n.ID().String(),
		Title:     n.DisplayTitle(),
		Content:   n.Content(),
		Author:    n.Author(),
		CreatedAt: n.CreatedAt(),
		Views:     n.Views(),
		Thoughts:  n.Thoughts(),
		Tags:      n.Tags(),
		Emoji:     n.Emoji(),
	}
}

// NodeViews converts a list of post entities
func NodeViews(nodes []*entities.Node) []NodeView {
	views := make([]NodeView, 0, len(nodes))
	for _, n := range nodes {
		views = append(views, NodeViewFrom(n))
	}
	return views
}

// Thread item types
const (
	ItemPost    = "post"
	ItemHandoff = "handoff"
)

// ThreadItemView is one entry of the presented feed
type ThreadItemView struct {
	Type string   `json:"type"`
	Node NodeView `json:"node"`
	// From is the post whose soft link led into the thread, set on handoffs only
	From string `json:"from,omitempty"`
}

// ThreadResult is the presented feed of a session
type ThreadResult struct {
	Items        []ThreadItemView `json:"items"`
	FetchingMore bool             `json:"fetching_more"`
}

// ThreadResultFrom converts a queue snapshot
func ThreadResultFrom(items []entities.ThreadItem, fetching bool) *ThreadResult {
	views := make([]ThreadItemView, 0, len(items))
	for _, item := range items {
		switch it := item.(type) {
		case entities.ThreadItemPost:
			views = append(views, ThreadItemView{Type: ItemPost, Node: NodeViewFrom(it.Post)})
		case entities.ThreadItemHandoff:
			views = append(views, ThreadItemView{Type: ItemHandoff, Node: NodeViewFrom(it.Target), From: it.From.String()})
		}
	}
	return &ThreadResult{Items: views, FetchingMore: fetching}
}

// LayoutResult is a computed layout with per-node classes
type LayoutResult struct {
	Layout  *entities.Layout              `json:"layout"`
	Classes map[string]entities.NodeClass `json:"classes"`
}

// LayoutResultFrom attaches the visual class of every node
func LayoutResultFrom(layout *entities.Layout) *LayoutResult {
	classes := make(map[string]entities.NodeClass, len(layout.Nodes))
	for _, n := range layout.Nodes {
		classes[n.ID.String()] = layout.Class(n.ID)
	}
	return &LayoutResult{Layout: layout, Classes: classes}
}

// VisibleResult is what the camera of a session currently shows
type VisibleResult struct {
	Camera viewport.Camera       `json:"camera"`
	Nodes  []viewport.NodeVisual `json:"nodes"`
}

// SoftLinksResult lists the outgoing soft links of a post
type SoftLinksResult struct {
	NodeID string                `json:"node_id"`
	Links  []aggregates.SoftLink `json:"links"`
}

// NeighborsResult lists the posts joined to a post by a hard link
type NeighborsResult struct {
	NodeID    string     `json:"node_id"`
	Neighbors []NodeView `json:"neighbors"`
}
