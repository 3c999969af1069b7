package neo4j

import (
	"context"
	"fmt"
	"time"

	"econbot/domain/core/aggregates"
	"econbot/pkg/utils"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
)

// Cypher statements for the star graph. The store holds one topic at a time,
// so every write starts by wiping the database.
const (
	deleteAllCypher = `MATCH (n) DETACH DELETE n`

	createQueryCypher = `CREATE (q:Query {name: $central_query, runId: $run_id, writtenAt: $written_at})`

	mergeTermCypher = `MERGE (t:Term {name: $term_name})
MERGE (q:Query {name: $central_query})
MERGE (q)-[r:RELATES_TO]->(t)
ON CREATE SET r.position = $position`

	snapshotCypher = `MATCH (q:Query)
OPTIONAL MATCH (q)-[r:RELATES_TO]->(t:Term)
WITH q, r, t ORDER BY r.position
RETURN q.name AS query, q.runId AS runId, q.writtenAt AS writtenAt, collect(t.name) AS terms
LIMIT 1`
)

// Config holds Neo4j connection settings
type Config struct {
	URI                     string
	Username                string
	Password                string
	Database                string
	MaxConnectionPoolSize   int
	ConnectionTimeout       time.Duration
	MaxTransactionRetryTime time.Duration
}

// GraphStore implements ports.GraphStore on Neo4j.
// One driver is shared by all requests; each call opens its own session.
type GraphStore struct {
	driver   neo4j.DriverWithContext
	database string
	logger   *zap.Logger
}

// NewGraphStore creates the driver and checks connectivity. An unreachable
// server is logged, not fatal: the driver reconnects on the next call.
func NewGraphStore(ctx context.Context, cfg Config, logger *zap.Logger) (*GraphStore, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("neo4j: URI is required")
	}

	auth := neo4j.BasicAuth(cfg.Username, cfg.Password, "")
	driver, err := neo4j.NewDriverWithContext(cfg.URI, auth, func(c *neo4j.Config) {
		if cfg.MaxConnectionPoolSize > 0 {
			c.MaxConnectionPoolSize = cfg.MaxConnectionPoolSize
		}
		if cfg.ConnectionTimeout > 0 {
			c.ConnectionAcquisitionTimeout = cfg.ConnectionTimeout
		}
		if cfg.MaxTransactionRetryTime > 0 {
			c.MaxTransactionRetryTime = cfg.MaxTransactionRetryTime
		}
	})
	if err != nil {
		return nil, fmt.Errorf("neo4j: failed to create driver: %w", err)
	}

	store := &GraphStore{
		driver:   driver,
		database: cfg.Database,
		logger:   logger,
	}

	if err := store.Ping(ctx); err != nil {
		logger.Warn("Neo4j not reachable at startup", zap.String("uri", cfg.URI), zap.Error(err))
	}

	return store, nil
}

// ReplaceGraph wipes the database and writes the graph in one write transaction
func (s *GraphStore) ReplaceGraph(ctx context.Context, graph *aggregates.KnowledgeGraph) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: s.database,
		AccessMode:   neo4j.AccessModeWrite,
	})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return nil, writeGraph(ctx, txRunner{tx: tx}, graph)
	})
	if err != nil {
		return fmt.Errorf("neo4j: failed to replace graph: %w", err)
	}

	s.logger.Debug("Graph written to Neo4j",
		zap.String("runID", graph.RunID()),
		zap.Int("terms", len(graph.Terms())),
	)
	return nil
}

// Snapshot reads back the stored graph
func (s *GraphStore) Snapshot(ctx context.Context) (*aggregates.KnowledgeGraph, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: s.database,
		AccessMode:   neo4j.AccessModeRead,
	})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, snapshotCypher, nil)
		if err != nil {
			return nil, err
		}
		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			return nil, nil
		}
		return records[0].AsMap(), nil
	})
	if err != nil {
		return nil, fmt.Errorf("neo4j: failed to read graph: %w", err)
	}
	if result == nil {
		return nil, nil
	}

	return graphFromRecord(result.(map[string]any))
}

// Ping verifies the driver can reach the server
func (s *GraphStore) Ping(ctx context.Context) error {
	return s.driver.VerifyConnectivity(ctx)
}

// Close closes the driver and its connection pool
func (s *GraphStore) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

// cypherRunner runs one statement and discards its result
type cypherRunner interface {
	Run(ctx context.Context, cypher string, params map[string]any) error
}

type txRunner struct {
	tx neo4j.ManagedTransaction
}

func (r txRunner) Run(ctx context.Context, cypher string, params map[string]any) error {
	res, err := r.tx.Run(ctx, cypher, params)
	if err != nil {
		return err
	}
	_, err = res.Consume(ctx)
	return err
}

// writeGraph issues the full-replace sequence: wipe, create the query node,
// then merge each term and its relationship.
func writeGraph(ctx context.Context, run cypherRunner, graph *aggregates.KnowledgeGraph) error {
	if err := run.Run(ctx, deleteAllCypher, nil); err != nil {
		return fmt.Errorf("clear graph: %w", err)
	}

	query := graph.Query().Name
	err := run.Run(ctx, createQueryCypher, map[string]any{
		"central_query": query,
		"run_id":        graph.RunID(),
		"written_at":    utils.FormatTimestamp(graph.WrittenAt()),
	})
	if err != nil {
		return fmt.Errorf("create query node: %w", err)
	}

	for i, term := range graph.TermNames() {
		err := run.Run(ctx, mergeTermCypher, map[string]any{
			"term_name":     term,
			"central_query": query,
			"position":      int64(i),
		})
		if err != nil {
			return fmt.Errorf("merge term %q: %w", term, err)
		}
	}

	return nil
}

// graphFromRecord rebuilds the aggregate from a snapshot row
func graphFromRecord(values map[string]any) (*aggregates.KnowledgeGraph, error) {
	query, ok := values["query"].(string)
	if !ok {
		return nil, fmt.Errorf("neo4j: snapshot row has no query name")
	}

	runID, _ := values["runId"].(string)

	rawWrittenAt, _ := values["writtenAt"].(string)
	writtenAt := utils.ParseTimestamp(rawWrittenAt)

	var terms []string
	if raw, ok := values["terms"].([]any); ok {
		for _, v := range raw {
			if name, ok := v.(string); ok {
				terms = append(terms, name)
			}
		}
	}

	return aggregates.RestoreKnowledgeGraph(runID, query, terms, writtenAt), nil
}
