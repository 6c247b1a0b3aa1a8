package entities

import (
	"time"

	"brainstorm/domain/core/valueobjects"
)

// DecorativeDepth tags distant nodes that are unrelated to the layout root.
// It is always rendered as maximally faded whatever the tree depth.
const DecorativeDepth = 999

// NodeClass is the visual role of a node in a layout
type NodeClass string

const (
	ClassRoot       NodeClass = "root"
	ClassThread     NodeClass = "thread"
	ClassCrosslink  NodeClass = "crosslink"
	ClassDecorative NodeClass = "decorative"
)

// LayoutNode is a positioned node of a spatial layout
type LayoutNode struct {
	ID       valueobjects.NodeID `json:"id"`
	Title    string              `json:"title"`
	Content  string              `json:"content"`
	X        float64             `json:"x"`
	Y        float64             `json:"y"`
	Depth    int                 `json:"depth"`
	ParentID valueobjects.NodeID `json:"parent_id,omitempty"`
}

// Position returns the node's canvas position
func (n LayoutNode) Position() valueobjects.Position {
	return valueobjects.NewPosition(n.X, n.Y)
}

// IsDecorative reports whether the node carries the sentinel depth
func (n LayoutNode) IsDecorative() bool {
	return n.Depth == DecorativeDepth
}

// LayoutConnection is a drawn link between two positioned nodes
type LayoutConnection struct {
	From valueobjects.NodeID       `json:"from"`
	To   valueobjects.NodeID       `json:"to"`
	Kind valueobjects.RelationKind `json:"kind"`
}

// Layout is the result of one layout computation around a root
type Layout struct {
	RootID      valueobjects.NodeID `json:"root_id"`
	Nodes       []LayoutNode        `json:"nodes"`
	Connections []LayoutConnection  `json:"connections"`
	ComputedAt  time.Time           `json:"computed_at"`
}

// Node finds a positioned node by id
func (l *Layout) Node(id valueobjects.NodeID) (LayoutNode, bool) {
	for _, n := range l.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return LayoutNode{}, false
}

// Class derives the visual role of a node.
// A crosslink is a non-root tree node at either end of a soft connection.
func (l *Layout) Class(id valueobjects.NodeID) NodeClass {
	if id == l.RootID {
		return ClassRoot
	}
	if n, ok := l.Node(id); ok && n.IsDecorative() {
		return ClassDecorative
	}
	for _, c := range l.Connections {
		if c.Kind == valueobjects.RelationSoft && (c.From == id || c.To == id) {
			return ClassCrosslink
		}
	}
	return ClassThread
}
