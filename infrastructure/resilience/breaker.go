// Package resilience guards remote dependencies with circuit breakers.
package resilience

import (
	"context"
	"errors"
	"time"

	"brainstorm/application/ports"
	"brainstorm/domain/core/valueobjects"
	pkgerrors "brainstorm/pkg/errors"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BreakerConfig holds configuration for the data service circuit breaker
type BreakerConfig struct {
	Name        string
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
	// FailureThreshold is the failure ratio that trips the breaker once MinRequests were seen
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultBreakerConfig returns a default configuration
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:             name,
		MaxRequests:      5,
		Interval:         30 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

// BreakerDataService fails fast with an unavailable error while the data service keeps failing.
// Not-found, validation and cancellation outcomes do not count as failures.
type BreakerDataService struct {
	next    ports.GraphDataService
	breaker *gobreaker.CircuitBreaker
}

var _ ports.GraphDataService = (*BreakerDataService)(nil)

// NewBreakerDataService wraps next in a circuit breaker
func NewBreakerDataService(next ports.GraphDataService, cfg BreakerConfig, logger *zap.Logger) *BreakerDataService {
	if logger == nil {
		logger = zap.NewNop()
	}
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		IsSuccessful: isSuccessful,
	})
	return &BreakerDataService{next: next, breaker: breaker}
}

// State reports the breaker state
func (s *BreakerDataService) State() gobreaker.State {
	return s.breaker.State()
}

func isSuccessful(err error) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return true
	case pkgerrors.IsNotFound(err), pkgerrors.IsValidation(err):
		return true
	default:
		return false
	}
}

func (s *BreakerDataService) execute(fn func() (interface{}, error)) (interface{}, error) {
	v, err := s.breaker.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, pkgerrors.NewUnavailableError(s.breaker.Name()).WithCause(err)
	}
	return v, err
}

// FetchNodeByID implements ports.GraphDataService
func (s *BreakerDataService) FetchNodeByID(ctx context.Context, id valueobjects.NodeID) (*ports.NodeRecord, error) {
	v, err := s.execute(func() (interface{}, error) {
		return s.next.FetchNodeByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	record, _ := v.(*ports.NodeRecord)
	return record, nil
}

// ChildrenOf implements ports.GraphDataService
func (s *BreakerDataService) ChildrenOf(ctx context.Context, id valueobjects.NodeID, kinds []valueobjects.RelationKind) ([]ports.ChildRef, error) {
	v, err := s.execute(func() (interface{}, error) {
		return s.next.ChildrenOf(ctx, id, kinds)
	})
	if err != nil {
		return nil, err
	}
	children, _ := v.([]ports.ChildRef)
	return children, nil
}

// RelationsTouching implements ports.GraphDataService
func (s *BreakerDataService) RelationsTouching(ctx context.Context, ids []valueobjects.NodeID, kinds []valueobjects.RelationKind) ([]ports.Relation, error) {
	v, err := s.execute(func() (interface{}, error) {
		return s.next.RelationsTouching(ctx, ids, kinds)
	})
	if err != nil {
		return nil, err
	}
	relations, _ := v.([]ports.Relation)
	return relations, nil
}

// RecentNodes implements ports.GraphDataService
func (s *BreakerDataService) RecentNodes(ctx context.Context, excluding []valueobjects.NodeID, filter ports.NodeFilter, limit int) ([]ports.NodeRecord, error) {
	v, err := s.execute(func() (interface{}, error) {
		return s.next.RecentNodes(ctx, excluding, filter, limit)
	})
	if err != nil {
		return nil, err
	}
	records, _ := v.([]ports.NodeRecord)
	return records, nil
}

// IncrementInteraction implements ports.GraphDataService
func (s *BreakerDataService) IncrementInteraction(ctx context.Context, id valueobjects.NodeID, kind valueobjects.InteractionKind) error {
	_, err := s.execute(func() (interface{}, error) {
		return nil, s.next.IncrementInteraction(ctx, id, kind)
	})
	return err
}
