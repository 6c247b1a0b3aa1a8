package dynamodb

import (
	"context"
	"fmt"
	"sync"

	"brainstorm/application/ports"
	"brainstorm/domain/core/valueobjects"
	pkgerrors "brainstorm/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Client is the subset of the DynamoDB API the data service needs
type Client interface {
	dynamodb.QueryAPIClient
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

// Config names the table and indexes of the single-table design
type Config struct {
	TableName   string
	GraphID     string
	NodeIndex   string // GSI1
	EdgeIndex   string // GSI2
	TargetIndex string // GSI3
	RecentIndex string // GSI4
	// MaxConcurrency bounds the parallel index queries of RelationsTouching
	MaxConcurrency int
}

// DataService implements ports.GraphDataService over DynamoDB
type DataService struct {
	client Client
	config Config
	logger *zap.Logger
}

var _ ports.GraphDataService = (*DataService)(nil)

// NewDataService creates a new DataService
func NewDataService(client Client, cfg Config, logger *zap.Logger) *DataService {
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 8
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DataService{client: client, config: cfg, logger: logger}
}

// FetchNodeByID implements ports.GraphDataService
func (s *DataService) FetchNodeByID(ctx context.Context, id valueobjects.NodeID) (*ports.NodeRecord, error) {
	if id.IsZero() {
		return nil, pkgerrors.NewValidationError("node id is required")
	}

	item, err := s.lookupNode(ctx, id)
	if err != nil || item == nil {
		return nil, err
	}
	record := item.toRecord()
	return &record, nil
}

// ChildrenOf implements ports.GraphDataService
func (s *DataService) ChildrenOf(ctx context.Context, id valueobjects.NodeID, kinds []valueobjects.RelationKind) ([]ports.ChildRef, error) {
	relations, err := s.queryRelations(ctx, s.config.EdgeIndex, "GSI2PK", nodeKey(id), kinds)
	if err != nil {
		return nil, err
	}

	children := make([]ports.ChildRef, 0, len(relations))
	for _, r := range relations {
		children = append(children, ports.ChildRef{ChildID: r.ChildID, Kind: r.Kind, EdgeID: r.EdgeID})
	}
	return children, nil
}

// RelationsTouching implements ports.GraphDataService.
// Outgoing and incoming relations of every id are queried in parallel and deduplicated.
func (s *DataService) RelationsTouching(ctx context.Context, ids []valueobjects.NodeID, kinds []valueobjects.RelationKind) ([]ports.Relation, error) {
	var (
		mu        sync.Mutex
		seen      = make(map[valueobjects.EdgeID]bool)
		relations = make([]ports.Relation, 0)
	)
	collect := func(found []ports.Relation) {
		mu.Lock()
		defer mu.Unlock()
		for _, r := range found {
			key := r.ToEdge().ID
			if seen[key] {
				continue
			}
			seen[key] = true
			relations = append(relations, r)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.MaxConcurrency)
	for _, id := range ids {
		g.Go(func() error {
			found, err := s.queryRelations(gctx, s.config.EdgeIndex, "GSI2PK", nodeKey(id), kinds)
			if err != nil {
				return err
			}
			collect(found)
			return nil
		})
		g.Go(func() error {
			found, err := s.queryRelations(gctx, s.config.TargetIndex, "GSI3PK", targetKey(id), kinds)
			if err != nil {
				return err
			}
			collect(found)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return relations, nil
}

// RecentNodes implements ports.GraphDataService
func (s *DataService) RecentNodes(ctx context.Context, excluding []valueobjects.NodeID, filter ports.NodeFilter, limit int) ([]ports.NodeRecord, error) {
	graphID := filter.GraphID
	if graphID == "" {
		graphID = s.config.GraphID
	}

	builder := expression.NewBuilder().
		WithKeyCondition(expression.Key("GSI4PK").Equal(expression.Value(graphKey(graphID))))
	if filter.Author != "" {
		builder = builder.WithFilter(expression.Name("Author").Equal(expression.Value(filter.Author)))
	}
	expr, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build recent nodes query: %w", err)
	}

	skip := make(map[string]bool, len(excluding))
	for _, id := range excluding {
		skip[id.String()] = true
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(s.config.TableName),
		IndexName:                 aws.String(s.config.RecentIndex),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(false),
	}
	if limit > 0 {
		input.Limit = aws.Int32(int32(limit + len(excluding)))
	}

	records := make([]ports.NodeRecord, 0)
	paginator := dynamodb.NewQueryPaginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			s.logger.Error("Failed to query recent nodes", zap.String("graphID", graphID), zap.Error(err))
			return nil, classifyError("RecentNodes", err)
		}

		var items []nodeItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal nodes: %w", err)
		}
		for _, item := range items {
			if skip[item.NodeID] {
				continue
			}
			records = append(records, item.toRecord())
			if limit > 0 && len(records) == limit {
				return records, nil
			}
		}
	}
	return records, nil
}

// IncrementInteraction implements ports.GraphDataService
func (s *DataService) IncrementInteraction(ctx context.Context, id valueobjects.NodeID, kind valueobjects.InteractionKind) error {
	var attr string
	switch kind {
	case valueobjects.InteractionView:
		attr = "Views"
	case valueobjects.InteractionThought:
		attr = "Thoughts"
	default:
		return pkgerrors.NewValidationError(fmt.Sprintf("unknown interaction kind %q", kind))
	}

	item, err := s.lookupNode(ctx, id)
	if err != nil {
		return err
	}
	if item == nil {
		return pkgerrors.NewNotFoundError("node")
	}

	expr, err := expression.NewBuilder().
		WithUpdate(expression.Add(expression.Name(attr), expression.Value(1))).
		WithCondition(expression.Name("PK").AttributeExists()).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build increment: %w", err)
	}

	_, err = s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.config.TableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: item.PK},
			"SK": &types.AttributeValueMemberS{Value: item.SK},
		},
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		s.logger.Warn("Failed to increment interaction",
			zap.String("nodeID", id.String()),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
		return classifyError("IncrementInteraction", err)
	}
	return nil
}

// lookupNode resolves a node through the NodeIndex; (nil, nil) when absent
func (s *DataService) lookupNode(ctx context.Context, id valueobjects.NodeID) (*nodeItem, error) {
	expr, err := expression.NewBuilder().
		WithKeyCondition(expression.Key("GSI1PK").Equal(expression.Value(nodeLookupKey(id)))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build node lookup: %w", err)
	}

	out, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(s.config.TableName),
		IndexName:                 aws.String(s.config.NodeIndex),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		s.logger.Error("Failed to look up node", zap.String("nodeID", id.String()), zap.Error(err))
		return nil, classifyError("FetchNodeByID", err)
	}
	if len(out.Items) == 0 {
		return nil, nil
	}

	var item nodeItem
	if err := attributevalue.UnmarshalMap(out.Items[0], &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal node: %w", err)
	}
	return &item, nil
}

// queryRelations pages through one edge index partition keeping the wanted kinds.
// Kind filtering happens here since filter expressions do not reduce read cost.
func (s *DataService) queryRelations(ctx context.Context, index, keyAttr, keyValue string, kinds []valueobjects.RelationKind) ([]ports.Relation, error) {
	expr, err := expression.NewBuilder().
		WithKeyCondition(expression.Key(keyAttr).Equal(expression.Value(keyValue))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build relation query: %w", err)
	}

	wanted := make(map[valueobjects.RelationKind]bool, len(kinds))
	for _, k := range kinds {
		wanted[k] = true
	}

	paginator := dynamodb.NewQueryPaginator(s.client, &dynamodb.QueryInput{
		TableName:                 aws.String(s.config.TableName),
		IndexName:                 aws.String(index),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})

	relations := make([]ports.Relation, 0)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			s.logger.Error("Failed to query relations",
				zap.String("index", index),
				zap.String("key", keyValue),
				zap.Error(err),
			)
			return nil, classifyError("QueryRelations", err)
		}

		var items []edgeItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal relations: %w", err)
		}
		for _, item := range items {
			r, ok := item.toRelation()
			if !ok || (len(wanted) > 0 && !wanted[r.Kind]) {
				continue
			}
			relations = append(relations, r)
		}
	}
	return relations, nil
}
