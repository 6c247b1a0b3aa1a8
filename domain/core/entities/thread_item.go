package entities

import "brainstorm/domain/core/valueobjects"

// ThreadItem is an entry of the presented feed.
// It is either a ThreadItemPost or a ThreadItemHandoff; switch on the concrete type.
type ThreadItem interface {
	// NodeID is the post shown by a post item, or the thread entered by a handoff
	NodeID() valueobjects.NodeID
	threadItem()
}

// ThreadItemPost shows a single post
type ThreadItemPost struct {
	Post *Node
}

// NodeID implements ThreadItem
func (p ThreadItemPost) NodeID() valueobjects.NodeID {
	return p.Post.ID()
}

func (ThreadItemPost) threadItem() {}

// ThreadItemHandoff marks the jump from one thread's end into another thread via a soft link
type ThreadItemHandoff struct {
	From   valueobjects.NodeID
	Target *Node
}

// NodeID implements ThreadItem
func (h ThreadItemHandoff) NodeID() valueobjects.NodeID {
	return h.Target.ID()
}

func (ThreadItemHandoff) threadItem() {}

// PostItems wraps a chain of nodes as post items
func PostItems(chain []*Node) []ThreadItem {
	items := make([]ThreadItem, 0, len(chain))
	for _, n := range chain {
		items = append(items, ThreadItemPost{Post: n})
	}
	return items
}
