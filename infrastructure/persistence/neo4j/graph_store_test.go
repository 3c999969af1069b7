package neo4j

import (
	"context"
	"errors"
	"testing"
	"time"

	"econbot/domain/core/aggregates"
	"econbot/domain/core/valueobjects"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statement struct {
	cypher string
	params map[string]any
}

type recordingRunner struct {
	statements []statement
	failAt     int
	err        error
}

func (r *recordingRunner) Run(ctx context.Context, cypher string, params map[string]any) error {
	r.statements = append(r.statements, statement{cypher: cypher, params: params})
	if r.err != nil && len(r.statements) == r.failAt {
		return r.err
	}
	return nil
}

func TestWriteGraph_StatementSequence(t *testing.T) {
	graph := aggregates.NewKnowledgeGraph(
		valueobjects.NewTopic("inflation"),
		valueobjects.TermList{"CPI", "Interest rates", "CPI"},
	)
	runner := &recordingRunner{}

	err := writeGraph(context.Background(), runner, graph)

	require.NoError(t, err)
	require.Len(t, runner.statements, 4)

	assert.Equal(t, deleteAllCypher, runner.statements[0].cypher)

	assert.Equal(t, createQueryCypher, runner.statements[1].cypher)
	assert.Equal(t, "inflation", runner.statements[1].params["central_query"])
	assert.Equal(t, graph.RunID(), runner.statements[1].params["run_id"])

	assert.Equal(t, mergeTermCypher, runner.statements[2].cypher)
	assert.Equal(t, "CPI", runner.statements[2].params["term_name"])
	assert.Equal(t, "inflation", runner.statements[2].params["central_query"])
	assert.Equal(t, int64(0), runner.statements[2].params["position"])

	assert.Equal(t, "Interest rates", runner.statements[3].params["term_name"])
	assert.Equal(t, int64(1), runner.statements[3].params["position"])
}

func TestWriteGraph_NoTerms(t *testing.T) {
	graph := aggregates.NewKnowledgeGraph(valueobjects.NewTopic("inflation"), nil)
	runner := &recordingRunner{}

	require.NoError(t, writeGraph(context.Background(), runner, graph))
	assert.Len(t, runner.statements, 2)
}

func TestWriteGraph_StopsOnFailure(t *testing.T) {
	graph := aggregates.NewKnowledgeGraph(
		valueobjects.NewTopic("inflation"),
		valueobjects.TermList{"CPI", "GDP"},
	)
	runner := &recordingRunner{failAt: 3, err: errors.New("constraint violated")}

	err := writeGraph(context.Background(), runner, graph)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "constraint violated")
	assert.Contains(t, err.Error(), `"CPI"`)
	assert.Len(t, runner.statements, 3)
}

func TestGraphFromRecord(t *testing.T) {
	written := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	graph, err := graphFromRecord(map[string]any{
		"query":     "inflation",
		"runId":     "run-1",
		"writtenAt": written.Format(time.RFC3339Nano),
		"terms":     []any{"CPI", "GDP"},
	})

	require.NoError(t, err)
	assert.Equal(t, "run-1", graph.RunID())
	assert.Equal(t, "inflation", graph.Query().Name)
	assert.Equal(t, []string{"CPI", "GDP"}, graph.TermNames())
	assert.True(t, written.Equal(graph.WrittenAt()))
	assert.Len(t, graph.Edges(), 2)
}

func TestGraphFromRecord_MissingQuery(t *testing.T) {
	_, err := graphFromRecord(map[string]any{"terms": []any{}})
	assert.Error(t, err)
}
