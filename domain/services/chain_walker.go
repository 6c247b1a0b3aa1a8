// Package services contains pure domain traversal over the loaded graph.
package services

import (
	"brainstorm/domain/core/entities"
	"brainstorm/domain/core/valueobjects"
)

// ChainSource is the read-only view of the graph the walker needs.
// GraphStore implements it.
type ChainSource interface {
	Node(id valueobjects.NodeID) (*entities.Node, bool)
	IncomingHard(id valueobjects.NodeID) (valueobjects.NodeID, bool)
	OutgoingHard(id valueobjects.NodeID) (valueobjects.NodeID, bool)
}

// ChainWalker follows hard edges to rebuild a linear thread.
// Every walk carries a visited set, so cyclic data terminates.
type ChainWalker struct {
	source ChainSource
}

// NewChainWalker creates a walker over source
func NewChainWalker(source ChainSource) *ChainWalker {
	return &ChainWalker{source: source}
}

// BacktrackToRoot follows incoming hard edges until there is none, the source node is
// not loaded, or a node repeats. It returns the last valid node reached.
func (w *ChainWalker) BacktrackToRoot(startID valueobjects.NodeID) (*entities.Node, bool) {
	current, ok := w.source.Node(startID)
	if !ok {
		return nil, false
	}

	visited := map[valueobjects.NodeID]bool{startID: true}
	for {
		parentID, ok := w.source.IncomingHard(current.ID())
		if !ok || visited[parentID] {
			return current, true
		}
		parent, ok := w.source.Node(parentID)
		if !ok {
			return current, true
		}
		visited[parentID] = true
		current = parent
	}
}

// WalkForward returns start followed by the targets of successive outgoing hard edges
func (w *ChainWalker) WalkForward(start *entities.Node) []*entities.Node {
	if start == nil {
		return nil
	}

	chain := []*entities.Node{start}
	visited := map[valueobjects.NodeID]bool{start.ID(): true}
	current := start.ID()
	for {
		nextID, ok := w.source.OutgoingHard(current)
		if !ok || visited[nextID] {
			return chain
		}
		next, ok := w.source.Node(nextID)
		if !ok {
			return chain
		}
		visited[nextID] = true
		chain = append(chain, next)
		current = nextID
	}
}

// BuildFullHardChainFrom returns the whole thread containing startID, root first.
// A start that is not loaded yields an empty chain.
func (w *ChainWalker) BuildFullHardChainFrom(startID valueobjects.NodeID) []*entities.Node {
	root, ok := w.BacktrackToRoot(startID)
	if !ok {
		return nil
	}
	return w.WalkForward(root)
}
