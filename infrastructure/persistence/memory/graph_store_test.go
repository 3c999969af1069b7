package memory

import (
	"context"
	"testing"

	"econbot/domain/core/aggregates"
	"econbot/domain/core/valueobjects"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphStore_EmptySnapshot(t *testing.T) {
	store := NewGraphStore()

	snap, err := store.Snapshot(context.Background())

	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestGraphStore_ReplaceIsFull(t *testing.T) {
	ctx := context.Background()
	store := NewGraphStore()

	first := aggregates.NewKnowledgeGraph(valueobjects.NewTopic("inflation"), valueobjects.TermList{"CPI", "GDP"})
	second := aggregates.NewKnowledgeGraph(valueobjects.NewTopic("trade"), valueobjects.TermList{"Tariff"})
	require.NoError(t, store.ReplaceGraph(ctx, first))
	require.NoError(t, store.ReplaceGraph(ctx, second))

	snap, err := store.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "trade", snap.Query().Name)
	assert.Equal(t, []string{"Tariff"}, snap.TermNames())
	assert.Equal(t, second.RunID(), snap.RunID())
	assert.Equal(t, 2, store.Writes())
}

func TestGraphStore_Idempotent(t *testing.T) {
	ctx := context.Background()
	store := NewGraphStore()
	graph := aggregates.NewKnowledgeGraph(valueobjects.NewTopic("inflation"), valueobjects.TermList{"CPI", "CPI", "GDP"})

	require.NoError(t, store.ReplaceGraph(ctx, graph))
	once, _ := store.Snapshot(ctx)
	require.NoError(t, store.ReplaceGraph(ctx, graph))
	twice, _ := store.Snapshot(ctx)

	assert.Equal(t, once.Nodes(), twice.Nodes())
	assert.Equal(t, once.Edges(), twice.Edges())
	assert.Len(t, twice.Edges(), 2)
}

func TestGraphStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store := NewGraphStore()

	err := store.ReplaceGraph(ctx, aggregates.NewKnowledgeGraph(valueobjects.NewTopic("x"), nil))

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, store.Writes())
}
