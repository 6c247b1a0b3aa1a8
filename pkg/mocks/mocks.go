// Package mocks provides testify mocks of the application ports.
package mocks

import (
	"context"

	"brainstorm/application/ports"
	"brainstorm/domain/core/valueobjects"
	"brainstorm/domain/events"

	"github.com/stretchr/testify/mock"
)

// MockGraphDataService is a mock implementation of ports.GraphDataService
type MockGraphDataService struct {
	mock.Mock
}

func (m *MockGraphDataService) FetchNodeByID(ctx context.Context, id valueobjects.NodeID) (*ports.NodeRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.NodeRecord), args.Error(1)
}

func (m *MockGraphDataService) ChildrenOf(ctx context.Context, id valueobjects.NodeID, kinds []valueobjects.RelationKind) ([]ports.ChildRef, error) {
	args := m.Called(ctx, id, kinds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.ChildRef), args.Error(1)
}

func (m *MockGraphDataService) RelationsTouching(ctx context.Context, ids []valueobjects.NodeID, kinds []valueobjects.RelationKind) ([]ports.Relation, error) {
	args := m.Called(ctx, ids, kinds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.Relation), args.Error(1)
}

func (m *MockGraphDataService) RecentNodes(ctx context.Context, excluding []valueobjects.NodeID, filter ports.NodeFilter, limit int) ([]ports.NodeRecord, error) {
	args := m.Called(ctx, excluding, filter, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.NodeRecord), args.Error(1)
}

func (m *MockGraphDataService) IncrementInteraction(ctx context.Context, id valueobjects.NodeID, kind valueobjects.InteractionKind) error {
	args := m.Called(ctx, id, kind)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of ports.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, evts ...events.DomainEvent) error {
	args := m.Called(ctx, evts)
	return args.Error(0)
}
