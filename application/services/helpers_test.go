package services

import (
	"time"

	"brainstorm/application/ports"
	"brainstorm/domain/config"
	"brainstorm/domain/core/entities"
	"brainstorm/domain/core/valueobjects"
	"brainstorm/infrastructure/persistence/memory"
	"brainstorm/pkg/fixtures"
)

type relation struct {
	parent, child string
	kind          valueobjects.RelationKind
}

func hard(parent, child string) relation {
	return relation{parent, child, valueobjects.RelationHard}
}

func soft(parent, child string) relation {
	return relation{parent, child, valueobjects.RelationSoft}
}

// newDataService seeds an in-memory data service; posts are created a minute apart in order
func newDataService(ids []string, relations ...relation) *memory.DataService {
	data := memory.NewDataService("graph-1")
	for i, id := range ids {
		data.PutNode(ports.NodeRecord{
			ID:        valueobjects.NodeID(id),
			Title:     "Post " + id,
			Content:   "content of " + id,
			Author:    "user-1",
			CreatedAt: fixtures.BaseTime.Add(time.Duration(i) * time.Minute),
		})
	}
	for _, r := range relations {
		data.PutRelation(valueobjects.NodeID(r.parent), valueobjects.NodeID(r.child), r.kind)
	}
	return data
}

// describe renders queue items as "post:A" and "handoff:C"
func describe(items []entities.ThreadItem) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch it := item.(type) {
		case entities.ThreadItemPost:
			out = append(out, "post:"+it.Post.ID().String())
		case entities.ThreadItemHandoff:
			out = append(out, "handoff:"+it.Target.ID().String())
		}
	}
	return out
}

func layoutIndex(layout *entities.Layout) map[valueobjects.NodeID]entities.LayoutNode {
	index := make(map[valueobjects.NodeID]entities.LayoutNode, len(layout.Nodes))
	for _, n := range layout.Nodes {
		index[n.ID] = n
	}
	return index
}

// testConfig returns the default engine configuration for tests to tweak
func testConfig() *config.EngineConfig {
	return config.DefaultEngineConfig()
}
