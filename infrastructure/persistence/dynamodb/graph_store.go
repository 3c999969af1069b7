package dynamodb

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"econbot/domain/core/aggregates"
	"econbot/pkg/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	graphPK       = "GRAPH#current"
	querySK       = "QUERY"
	termSKPrefix  = "TERM#"
	graphLockName = "graph"

	// DynamoDB rejects transactions with more actions than this; the query
	// node takes one, so a graph holds at most 99 terms
	maxTransactItems = 100
)

// graphItem is the single-table layout for both node kinds
type graphItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"` // Query | Term
	Name       string `dynamodbav:"Name"`
	RunID      string `dynamodbav:"RunID"`
	Relation   string `dynamodbav:"Relation,omitempty"` // edge from the query node, terms only
	Position   int    `dynamodbav:"Position"`
	TermCount  int    `dynamodbav:"TermCount,omitempty"`
	WrittenAt  string `dynamodbav:"WrittenAt"`
}

type itemKey struct {
	PK string `dynamodbav:"PK"`
	SK string `dynamodbav:"SK"`
}

// GraphStoreOptions tunes the cross-process write lock
type GraphStoreOptions struct {
	LockDuration time.Duration
	LockTimeout  time.Duration
}

// GraphStore implements ports.GraphStore on a single DynamoDB table.
// All items live under one partition, and every item carries the RunID of
// the replace that wrote it.
type GraphStore struct {
	client    Client
	tableName string
	lock      *DistributedLock
	owner     string
	opts      GraphStoreOptions
	logger    *zap.Logger
}

// NewGraphStore creates a new DynamoDB graph store
func NewGraphStore(client Client, tableName string, opts GraphStoreOptions, logger *zap.Logger) *GraphStore {
	if opts.LockDuration <= 0 {
		opts.LockDuration = 30 * time.Second
	}
	if opts.LockTimeout <= 0 {
		opts.LockTimeout = 10 * time.Second
	}
	host, _ := os.Hostname()

	return &GraphStore{
		client:    client,
		tableName: tableName,
		lock:      NewDistributedLock(client, tableName, logger),
		owner:     fmt.Sprintf("%s-%s", host, uuid.New().String()[:8]),
		opts:      opts,
		logger:    logger,
	}
}

// ReplaceGraph swaps the stored graph for the given one under the table lock.
// The new nodes are put in one transaction; stored terms the new graph no
// longer has are deleted afterwards, item by item. Snapshot ignores terms
// from other runs, so readers never see a mix of the two graphs.
func (s *GraphStore) ReplaceGraph(ctx context.Context, graph *aggregates.KnowledgeGraph) error {
	items, keep, err := s.buildPuts(graph)
	if err != nil {
		return err
	}

	lock, err := s.lock.TryAcquireLock(ctx, graphLockName, s.owner, s.opts.LockDuration, s.opts.LockTimeout)
	if err != nil {
		return fmt.Errorf("dynamodb: failed to lock graph: %w", err)
	}
	defer func() {
		// Release even when the request context is already done
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
			s.logger.Warn("Failed to release graph lock", zap.Error(err))
		}
	}()

	existing, err := s.loadKeys(ctx)
	if err != nil {
		return err
	}

	// Another writer may own the graph once the lease runs out
	if lock.IsExpired() {
		return fmt.Errorf("dynamodb: graph lock expired before commit")
	}

	_, err = s.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems:      items,
		ClientRequestToken: aws.String(graph.RunID()),
	})
	if err != nil {
		return fmt.Errorf("dynamodb: failed to replace graph: %w", err)
	}

	deleted := s.deleteStale(ctx, existing, keep)

	s.logger.Debug("Graph written to DynamoDB",
		zap.String("runID", graph.RunID()),
		zap.Int("puts", len(items)),
		zap.Int("staleDeleted", deleted),
	)
	return nil
}

// buildPuts renders every node of the graph as a transactional put and
// returns the set of sort keys written
func (s *GraphStore) buildPuts(graph *aggregates.KnowledgeGraph) ([]types.TransactWriteItem, map[string]bool, error) {
	writtenAt := utils.FormatTimestamp(graph.WrittenAt())
	terms := graph.TermNames()

	if len(terms)+1 > maxTransactItems {
		return nil, nil, fmt.Errorf("dynamodb: graph has %d terms, limit is %d", len(terms), maxTransactItems-1)
	}

	records := make([]graphItem, 0, len(terms)+1)
	records = append(records, graphItem{
		PK:         graphPK,
		SK:         querySK,
		EntityType: aggregates.LabelQuery,
		Name:       graph.Query().Name,
		RunID:      graph.RunID(),
		TermCount:  len(terms),
		WrittenAt:  writtenAt,
	})
	for i, term := range terms {
		records = append(records, graphItem{
			PK:         graphPK,
			SK:         termSKPrefix + term,
			EntityType: aggregates.LabelTerm,
			Name:       term,
			RunID:      graph.RunID(),
			Relation:   aggregates.RelRelatesTo,
			Position:   i,
			WrittenAt:  writtenAt,
		})
	}

	keep := make(map[string]bool, len(records))
	items := make([]types.TransactWriteItem, 0, len(records))
	for _, record := range records {
		av, err := attributevalue.MarshalMap(record)
		if err != nil {
			return nil, nil, fmt.Errorf("dynamodb: failed to marshal %s item: %w", record.EntityType, err)
		}
		keep[record.SK] = true
		items = append(items, types.TransactWriteItem{
			Put: &types.Put{
				TableName: aws.String(s.tableName),
				Item:      av,
			},
		})
	}
	return items, keep, nil
}

// deleteStale removes stored items the new graph did not write. Failures are
// logged only: the leftovers are hidden from Snapshot and the next replace
// deletes them.
func (s *GraphStore) deleteStale(ctx context.Context, existing []itemKey, keep map[string]bool) int {
	deleted := 0
	for _, key := range existing {
		if keep[key.SK] {
			continue
		}
		av, err := attributevalue.MarshalMap(key)
		if err == nil {
			_, err = s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
				TableName: aws.String(s.tableName),
				Key:       av,
			})
		}
		if err != nil {
			s.logger.Warn("Failed to delete stale graph item", zap.String("sk", key.SK), zap.Error(err))
			continue
		}
		deleted++
	}
	return deleted
}

// loadKeys lists the keys currently stored under the graph partition
func (s *GraphStore) loadKeys(ctx context.Context) ([]itemKey, error) {
	items, err := s.queryPartition(ctx, true)
	if err != nil {
		return nil, err
	}
	keys := make([]itemKey, 0, len(items))
	for _, item := range items {
		var key itemKey
		if err := attributevalue.UnmarshalMap(item, &key); err != nil {
			return nil, fmt.Errorf("dynamodb: failed to unmarshal key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func (s *GraphStore) queryPartition(ctx context.Context, keysOnly bool) ([]map[string]types.AttributeValue, error) {
	builder := expression.NewBuilder().
		WithKeyCondition(expression.Key("PK").Equal(expression.Value(graphPK)))
	if keysOnly {
		builder = builder.WithProjection(expression.NamesList(expression.Name("PK"), expression.Name("SK")))
	}
	expr, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("dynamodb: failed to build query: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(s.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ConsistentRead:            aws.Bool(true),
	}
	if keysOnly {
		input.ProjectionExpression = expr.Projection()
	}

	var items []map[string]types.AttributeValue
	for {
		out, err := s.client.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("dynamodb: failed to query graph: %w", err)
		}
		items = append(items, out.Items...)
		if len(out.LastEvaluatedKey) == 0 {
			return items, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

// Snapshot reads back the stored graph
func (s *GraphStore) Snapshot(ctx context.Context) (*aggregates.KnowledgeGraph, error) {
	items, err := s.queryPartition(ctx, false)
	if err != nil {
		return nil, err
	}

	var query *graphItem
	var terms []graphItem
	for _, raw := range items {
		var item graphItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return nil, fmt.Errorf("dynamodb: failed to unmarshal graph item: %w", err)
		}
		switch item.EntityType {
		case aggregates.LabelQuery:
			q := item
			query = &q
		case aggregates.LabelTerm:
			terms = append(terms, item)
		}
	}
	if query == nil {
		return nil, nil
	}

	// Terms of an earlier run may outlive it until their delete succeeds
	current := terms[:0]
	for _, t := range terms {
		if t.RunID == query.RunID {
			current = append(current, t)
		}
	}
	terms = current

	sort.Slice(terms, func(i, j int) bool { return terms[i].Position < terms[j].Position })
	names := make([]string, 0, len(terms))
	for _, t := range terms {
		names = append(names, t.Name)
	}

	return aggregates.RestoreKnowledgeGraph(query.RunID, query.Name, names, utils.ParseTimestamp(query.WrittenAt)), nil
}

// Ping checks that the table exists and is reachable
func (s *GraphStore) Ping(ctx context.Context) error {
	_, err := s.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(s.tableName),
	})
	if err != nil {
		return fmt.Errorf("dynamodb: describe table %s: %w", s.tableName, err)
	}
	return nil
}

// Close is a no-op; the SDK client holds no connections that need closing
func (s *GraphStore) Close(ctx context.Context) error {
	return nil
}
