// Package memory provides an in-process GraphDataService used by tests and local runs.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"brainstorm/application/ports"
	"brainstorm/domain/core/valueobjects"
	pkgerrors "brainstorm/pkg/errors"
)

// DataService keeps posts and relations of a single graph in memory
type DataService struct {
	graphID string

	mu        sync.RWMutex
	nodes     map[valueobjects.NodeID]ports.NodeRecord
	relations []ports.Relation

	// For testing error scenarios
	shouldFailOn map[string]error
}

// NewDataService creates an empty data service for graphID
func NewDataService(graphID string) *DataService {
	return &DataService{
		graphID:      graphID,
		nodes:        make(map[valueobjects.NodeID]ports.NodeRecord),
		shouldFailOn: make(map[string]error),
	}
}

// SetError makes the named method fail with err until ClearErrors
func (s *DataService) SetError(method string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shouldFailOn[method] = err
}

// ClearErrors removes all configured errors
func (s *DataService) ClearErrors() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shouldFailOn = make(map[string]error)
}

// check returns the context error or a configured failure; callers hold the lock
func (s *DataService) check(ctx context.Context, method string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.shouldFailOn[method]
}

// PutNode stores or replaces a post
func (s *DataService) PutNode(record ports.NodeRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record.Tags = append([]string(nil), record.Tags...)
	s.nodes[record.ID] = record
}

// PutRelation stores a relation; an empty edge id is derived from the endpoints
func (s *DataService) PutRelation(parentID, childID valueobjects.NodeID, kind valueobjects.RelationKind) ports.Relation {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := ports.Relation{
		ParentID: parentID,
		ChildID:  childID,
		Kind:     kind,
		EdgeID:   valueobjects.EdgeID(fmt.Sprintf("%s#%s#%s", parentID, childID, kind)),
	}
	s.relations = append(s.relations, r)
	return r
}

// RemoveNode deletes a post and its relations
func (s *DataService) RemoveNode(id valueobjects.NodeID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.nodes, id)
	kept := s.relations[:0]
	for _, r := range s.relations {
		if r.ParentID != id && r.ChildID != id {
			kept = append(kept, r)
		}
	}
	s.relations = kept
}

// FetchNodeByID implements ports.GraphDataService
func (s *DataService) FetchNodeByID(ctx context.Context, id valueobjects.NodeID) (*ports.NodeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(ctx, "FetchNodeByID"); err != nil {
		return nil, err
	}

	record, ok := s.nodes[id]
	if !ok {
		return nil, nil
	}
	record.Tags = append([]string(nil), record.Tags...)
	return &record, nil
}

// ChildrenOf implements ports.GraphDataService
func (s *DataService) ChildrenOf(ctx context.Context, id valueobjects.NodeID, kinds []valueobjects.RelationKind) ([]ports.ChildRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(ctx, "ChildrenOf"); err != nil {
		return nil, err
	}

	wanted := kindSet(kinds)
	var children []ports.ChildRef
	for _, r := range s.relations {
		if r.ParentID == id && wanted[r.Kind] {
			children = append(children, ports.ChildRef{ChildID: r.ChildID, Kind: r.Kind, EdgeID: r.EdgeID})
		}
	}
	return children, nil
}

// RelationsTouching implements ports.GraphDataService
func (s *DataService) RelationsTouching(ctx context.Context, ids []valueobjects.NodeID, kinds []valueobjects.RelationKind) ([]ports.Relation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(ctx, "RelationsTouching"); err != nil {
		return nil, err
	}

	wanted := kindSet(kinds)
	touched := make(map[valueobjects.NodeID]bool, len(ids))
	for _, id := range ids {
		touched[id] = true
	}

	var relations []ports.Relation
	for _, r := range s.relations {
		if wanted[r.Kind] && (touched[r.ParentID] || touched[r.ChildID]) {
			relations = append(relations, r)
		}
	}
	return relations, nil
}

// RecentNodes implements ports.GraphDataService
func (s *DataService) RecentNodes(ctx context.Context, excluding []valueobjects.NodeID, filter ports.NodeFilter, limit int) ([]ports.NodeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(ctx, "RecentNodes"); err != nil {
		return nil, err
	}
	if filter.GraphID != "" && filter.GraphID != s.graphID {
		return []ports.NodeRecord{}, nil
	}

	skip := make(map[valueobjects.NodeID]bool, len(excluding))
	for _, id := range excluding {
		skip[id] = true
	}

	records := make([]ports.NodeRecord, 0, len(s.nodes))
	for id, r := range s.nodes {
		if skip[id] || (filter.Author != "" && r.Author != filter.Author) {
			continue
		}
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool {
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.After(records[j].CreatedAt)
		}
		return records[i].ID < records[j].ID
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// IncrementInteraction implements ports.GraphDataService
func (s *DataService) IncrementInteraction(ctx context.Context, id valueobjects.NodeID, kind valueobjects.InteractionKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx, "IncrementInteraction"); err != nil {
		return err
	}

	record, ok := s.nodes[id]
	if !ok {
		return pkgerrors.NewNotFoundError("node")
	}
	switch kind {
	case valueobjects.InteractionView:
		record.Views++
	case valueobjects.InteractionThought:
		record.Thoughts++
	default:
		return pkgerrors.NewValidationError(fmt.Sprintf("unknown interaction kind %q", kind))
	}
	s.nodes[id] = record
	return nil
}

func kindSet(kinds []valueobjects.RelationKind) map[valueobjects.RelationKind]bool {
	set := make(map[valueobjects.RelationKind]bool, len(kinds))
	for _, k := range kinds {
		set[k] = true
	}
	if len(kinds) == 0 {
		for _, k := range valueobjects.AllRelationKinds() {
			set[k] = true
		}
	}
	return set
}
