package aggregates

import (
	"testing"
	"time"

	"econbot/domain/core/valueobjects"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKnowledgeGraph_StarShape(t *testing.T) {
	g := NewKnowledgeGraph(
		valueobjects.NewTopic(" inflation "),
		valueobjects.TermList{"CPI", "Interest rates", "CPI", "Deflation"},
	)

	assert.NotEmpty(t, g.RunID())
	assert.False(t, g.WrittenAt().IsZero())
	assert.Equal(t, GraphNode{Label: LabelQuery, Name: "inflation"}, g.Query())
	assert.Equal(t, []string{"CPI", "Interest rates", "Deflation"}, g.TermNames())

	nodes := g.Nodes()
	require.Len(t, nodes, 4)
	assert.Equal(t, LabelQuery, nodes[0].Label)

	edges := g.Edges()
	require.Len(t, edges, 3)
	for _, e := range edges {
		assert.Equal(t, RelRelatesTo, e.Type)
		assert.Equal(t, "inflation", e.Source)
	}
}

func TestNewKnowledgeGraph_NoTerms(t *testing.T) {
	g := NewKnowledgeGraph(valueobjects.NewTopic(""), nil)

	assert.Len(t, g.Nodes(), 1)
	assert.Empty(t, g.Edges())
	assert.Equal(t, "", g.Query().Name)
}

func TestNewKnowledgeGraph_TermNamedLikeTopic(t *testing.T) {
	g := NewKnowledgeGraph(valueobjects.NewTopic("GDP"), valueobjects.TermList{"GDP"})

	assert.Len(t, g.Nodes(), 2, "query and term nodes have different labels")
	assert.Len(t, g.Edges(), 1)
}

func TestTermsReturnsCopy(t *testing.T) {
	g := NewKnowledgeGraph(valueobjects.NewTopic("x"), valueobjects.TermList{"a"})
	terms := g.Terms()
	terms[0].Name = "changed"

	assert.Equal(t, []string{"a"}, g.TermNames())
}

func TestRestoreKnowledgeGraph(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	g := RestoreKnowledgeGraph("run-1", "inflation", []string{"CPI", "Deflation"}, at)

	assert.Equal(t, "run-1", g.RunID())
	assert.Equal(t, "inflation", g.Query().Name)
	assert.Equal(t, []string{"CPI", "Deflation"}, g.TermNames())
	assert.Equal(t, at, g.WrittenAt())

	fresh := RestoreKnowledgeGraph("", "inflation", nil, at)
	assert.NotEmpty(t, fresh.RunID())
}
