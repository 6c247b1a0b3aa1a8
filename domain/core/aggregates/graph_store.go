package aggregates

import (
	"sync"

	"brainstorm/domain/core/entities"
	"brainstorm/domain/core/valueobjects"
)

// SoftLink is an outgoing associative link as shown next to a post
type SoftLink struct {
	ID        valueobjects.NodeID `json:"id"`
	Title     string              `json:"title"`
	KindLabel string              `json:"kind_label"`
}

// GraphStore is the in-memory node/edge table for the loaded sub-graph.
// It is the single source of truth for traversal and feed assembly. Callers receive copies;
// every mutation happens under the write lock so readers never see a partially applied write.
// Edges keep insertion order and are not deduplicated.
type GraphStore struct {
	mu        sync.RWMutex
	nodes     map[valueobjects.NodeID]*entities.Node
	order     []valueobjects.NodeID
	edges     []*entities.Edge
	selection valueobjects.NodeID
	ranker    SoftLinkRanker
}

// NewGraphStore creates an empty store. A nil ranker means first-found ranking.
func NewGraphStore(ranker SoftLinkRanker) *GraphStore {
	if ranker == nil {
		ranker = FirstFoundRanker{}
	}
	return &GraphStore{
		nodes:  make(map[valueobjects.NodeID]*entities.Node),
		ranker: ranker,
	}
}

// SetNodes replaces every node after a fetch
func (s *GraphStore) SetNodes(nodes []*entities.Node) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nodes = make(map[valueobjects.NodeID]*entities.Node, len(nodes))
	s.order = make([]valueobjects.NodeID, 0, len(nodes))
	for _, n := range nodes {
		s.putLocked(n)
	}
}

// SetEdges replaces every edge after a fetch
func (s *GraphStore) SetEdges(edges []*entities.Edge) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.edges = make([]*entities.Edge, 0, len(edges))
	for _, e := range edges {
		if e != nil {
			c := *e
			s.edges = append(s.edges, &c)
		}
	}
}

// AddNode inserts or replaces a node (optimistic insert)
func (s *GraphStore) AddNode(node *entities.Node) {
	if node == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putLocked(node)
}

// MergeNodes upserts fetched nodes without touching the rest of the store.
// A node already present keeps its local metrics.
func (s *GraphStore) MergeNodes(nodes []*entities.Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if _, exists := s.nodes[n.ID()]; exists {
			continue
		}
		s.putLocked(n)
	}
}

// MergeEdges appends fetched edges whose id is not already present
func (s *GraphStore) MergeEdges(edges []*entities.Edge) {
	s.mu.Lock()
	defer s.mu.Unlock()

	known := make(map[valueobjects.EdgeID]bool, len(s.edges))
	for _, e := range s.edges {
		known[e.ID] = true
	}
	for _, e := range edges {
		if e == nil || known[e.ID] {
			continue
		}
		c := *e
		s.edges = append(s.edges, &c)
		known[e.ID] = true
	}
}

// UpdateNode applies fn to the stored node in place. It reports whether the node exists.
func (s *GraphStore) UpdateNode(id valueobjects.NodeID, fn func(*entities.Node)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	node, ok := s.nodes[id]
	if !ok {
		return false
	}
	fn(node)
	return true
}

// IncrementViews bumps the view count of a post
func (s *GraphStore) IncrementViews(id valueobjects.NodeID) bool {
	return s.UpdateNode(id, func(n *entities.Node) { n.Record(valueobjects.InteractionView) })
}

// IncrementThoughts bumps the thought count of a post
func (s *GraphStore) IncrementThoughts(id valueobjects.NodeID) bool {
	return s.UpdateNode(id, func(n *entities.Node) { n.Record(valueobjects.InteractionThought) })
}

// DeleteNode removes a node, every edge referencing it and a selection pointing at it
func (s *GraphStore) DeleteNode(id valueobjects.NodeID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, existed := s.nodes[id]
	delete(s.nodes, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i:i], s.order[i+1:]...)
			break
		}
	}

	kept := make([]*entities.Edge, 0, len(s.edges))
	for _, e := range s.edges {
		if !e.Touches(id) {
			kept = append(kept, e)
		}
	}
	s.edges = kept

	if s.selection == id {
		s.selection = ""
	}
	return existed
}

// AddEdge appends an edge. Duplicates are permitted.
func (s *GraphStore) AddEdge(edge *entities.Edge) {
	if edge == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *edge
	s.edges = append(s.edges, &c)
}

// DeleteEdge removes every edge with the given id
func (s *GraphStore) DeleteEdge(id valueobjects.EdgeID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]*entities.Edge, 0, len(s.edges))
	for _, e := range s.edges {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	removed := len(kept) != len(s.edges)
	s.edges = kept
	return removed
}

// Select points the selection at a node
func (s *GraphStore) Select(id valueobjects.NodeID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = id
}

// ClearSelection drops the selection
func (s *GraphStore) ClearSelection() {
	s.Select("")
}

// Selection returns the selected node id, if any
func (s *GraphStore) Selection() (valueobjects.NodeID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selection, !s.selection.IsZero()
}

// Node returns a copy of a node
func (s *GraphStore) Node(id valueobjects.NodeID) (*entities.Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.nodes[id]
	if !ok {
		return nil, false
	}
	return n.Clone(), true
}

// Has reports whether a node is loaded
func (s *GraphStore) Has(id valueobjects.NodeID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.nodes[id]
	return ok
}

// Nodes returns copies of all nodes in insertion order
func (s *GraphStore) Nodes() []*entities.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()

	nodes := make([]*entities.Node, 0, len(s.order))
	for _, id := range s.order {
		nodes = append(nodes, s.nodes[id].Clone())
	}
	return nodes
}

// Edges returns copies of all edges in insertion order
func (s *GraphStore) Edges() []*entities.Edge {
	s.mu.RLock()
	defer s.mu.RUnlock()

	edges := make([]*entities.Edge, 0, len(s.edges))
	for _, e := range s.edges {
		c := *e
		edges = append(edges, &c)
	}
	return edges
}

// NodeCount returns the number of loaded nodes
func (s *GraphStore) NodeCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}

// HardNeighborsFor returns nodes linked to id by a hard edge in either direction
func (s *GraphStore) HardNeighborsFor(id valueobjects.NodeID) []*entities.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[valueobjects.NodeID]bool)
	var neighbors []*entities.Node
	for _, e := range s.edges {
		if !e.IsHard() || !e.Touches(id) {
			continue
		}
		other := e.Other(id)
		if seen[other] {
			continue
		}
		if n, ok := s.nodes[other]; ok {
			seen[other] = true
			neighbors = append(neighbors, n.Clone())
		}
	}
	return neighbors
}

// SoftLinksForPost returns the targets of outgoing soft edges of id
func (s *GraphStore) SoftLinksForPost(id valueobjects.NodeID) []SoftLink {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var links []SoftLink
	for _, e := range s.edges {
		if e.SourceID != id || !e.IsSoft() {
			continue
		}
		link := SoftLink{ID: e.TargetID, KindLabel: e.Kind.Label()}
		if n, ok := s.nodes[e.TargetID]; ok {
			link.Title = n.DisplayTitle()
		}
		links = append(links, link)
	}
	return links
}

// TopSoftLinkByLikes picks the next post reachable from id through an outgoing soft link
func (s *GraphStore) TopSoftLinkByLikes(id valueobjects.NodeID) (*entities.Node, bool) {
	return s.TopSoftLinkExcluding(id, nil)
}

// TopSoftLinkExcluding is TopSoftLinkByLikes restricted to targets for which skip returns false
func (s *GraphStore) TopSoftLinkExcluding(id valueobjects.NodeID, skip func(valueobjects.NodeID) bool) (*entities.Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var candidates []*entities.Node
	seen := make(map[valueobjects.NodeID]bool)
	for _, e := range s.edges {
		if e.SourceID != id || !e.IsSoft() || seen[e.TargetID] {
			continue
		}
		if skip != nil && skip(e.TargetID) {
			continue
		}
		if n, ok := s.nodes[e.TargetID]; ok {
			seen[e.TargetID] = true
			candidates = append(candidates, n)
		}
	}

	best := s.ranker.Pick(candidates)
	if best == nil {
		return nil, false
	}
	return best.Clone(), true
}

// IncomingHard returns the source of the first hard edge targeting id
func (s *GraphStore) IncomingHard(id valueobjects.NodeID) (valueobjects.NodeID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.edges {
		if e.IsHard() && e.TargetID == id {
			return e.SourceID, true
		}
	}
	return "", false
}

// OutgoingHard returns the target of the first hard edge leaving id
func (s *GraphStore) OutgoingHard(id valueobjects.NodeID) (valueobjects.NodeID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.edges {
		if e.IsHard() && e.SourceID == id {
			return e.TargetID, true
		}
	}
	return "", false
}

func (s *GraphStore) putLocked(n *entities.Node) {
	if n == nil || n.ID().IsZero() {
		return
	}
	if _, exists := s.nodes[n.ID()]; !exists {
		s.order = append(s.order, n.ID())
	}
	s.nodes[n.ID()] = n.Clone()
}
