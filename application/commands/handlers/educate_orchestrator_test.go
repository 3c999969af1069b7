package handlers

import (
	"context"
	"errors"
	"testing"

	"econbot/application/commands"
	"econbot/application/ports"
	"econbot/domain/core/aggregates"
	"econbot/domain/core/valueobjects"
	"econbot/infrastructure/persistence/memory"
	pkgerrors "econbot/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// MockExplainer is a mock implementation of Explainer
type MockExplainer struct {
	mock.Mock
}

func (m *MockExplainer) Explain(ctx context.Context, topic valueobjects.Topic) (string, error) {
	args := m.Called(ctx, topic)
	return args.String(0), args.Error(1)
}

// MockTermSource is a mock implementation of TermSource
type MockTermSource struct {
	mock.Mock
}

func (m *MockTermSource) Extract(ctx context.Context, topic valueobjects.Topic) (valueobjects.TermList, error) {
	args := m.Called(ctx, topic)
	terms, _ := args.Get(0).(valueobjects.TermList)
	return terms, args.Error(1)
}

// MockCache is a mock implementation of ports.Cache
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (interface{}, bool) {
	args := m.Called(ctx, key)
	return args.Get(0), args.Bool(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value interface{}, ttl int) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockCache) Version(ctx context.Context, key string) uint64 {
	return m.Called(ctx, key).Get(0).(uint64)
}

func (m *MockCache) SetIfVersion(ctx context.Context, key string, value interface{}, ttl int, version uint64) (bool, error) {
	args := m.Called(ctx, key, value, ttl, version)
	return args.Bool(0), args.Error(1)
}

type failingStore struct {
	*memory.GraphStore
	err error
}

func (s failingStore) ReplaceGraph(ctx context.Context, graph *aggregates.KnowledgeGraph) error {
	return s.err
}

var inflation = valueobjects.NewTopic("inflation")

func TestEducateOrchestrator_Success(t *testing.T) {
	explainer := new(MockExplainer)
	terms := new(MockTermSource)
	cache := new(MockCache)
	store := memory.NewGraphStore()

	explainer.On("Explain", mock.Anything, inflation).Return("Inflation is...", nil)
	terms.On("Extract", mock.Anything, inflation).
		Return(valueobjects.TermList{"CPI", "Interest rates", "CPI"}, nil)
	cache.On("Delete", mock.Anything, ports.GraphSnapshotCacheKey).Return(nil)

	o := NewEducateOrchestrator(explainer, terms, store, cache, nil, nopLogger{})
	result, err := o.Handle(context.Background(), commands.EducateCommand{Topic: "  inflation "})

	require.NoError(t, err)
	assert.Equal(t, &commands.EducateResult{
		Explanation: "Inflation is...",
		Terms:       []string{"CPI", "Interest rates", "CPI"},
	}, result)

	graph, err := store.Snapshot(context.Background())
	require.NoError(t, err)
	require.NotNil(t, graph)
	assert.Equal(t, "inflation", graph.Query().Name)
	assert.Equal(t, []string{"CPI", "Interest rates"}, graph.TermNames())
	assert.Len(t, graph.Edges(), 2)

	explainer.AssertExpectations(t)
	terms.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestEducateOrchestrator_EmptyTerms(t *testing.T) {
	explainer := new(MockExplainer)
	terms := new(MockTermSource)
	store := memory.NewGraphStore()

	explainer.On("Explain", mock.Anything, mock.Anything).Return("text", nil)
	terms.On("Extract", mock.Anything, mock.Anything).Return(valueobjects.TermList{}, nil)

	o := NewEducateOrchestrator(explainer, terms, store, nil, nil, nopLogger{})
	result, err := o.Handle(context.Background(), commands.EducateCommand{Topic: "inflation"})

	require.NoError(t, err)
	assert.Equal(t, []string{}, result.Terms)

	graph, _ := store.Snapshot(context.Background())
	require.NotNil(t, graph)
	assert.Len(t, graph.Nodes(), 1)
	assert.Empty(t, graph.Edges())
}

func TestEducateOrchestrator_ExplainFailureStopsPipeline(t *testing.T) {
	explainer := new(MockExplainer)
	terms := new(MockTermSource)
	store := memory.NewGraphStore()

	explainer.On("Explain", mock.Anything, mock.Anything).Return("", errors.New("failed to generate explanation: invalid api key"))

	o := NewEducateOrchestrator(explainer, terms, store, nil, nil, nopLogger{})
	result, err := o.Handle(context.Background(), commands.EducateCommand{Topic: "inflation"})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, pkgerrors.IsInternal(err))
	assert.Equal(t, "failed to generate explanation: invalid api key", pkgerrors.GetAppError(err).Detail())

	terms.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
	assert.Equal(t, 0, store.Writes())
}

func TestEducateOrchestrator_ExtractFailureLeavesGraphUntouched(t *testing.T) {
	explainer := new(MockExplainer)
	terms := new(MockTermSource)
	store := memory.NewGraphStore()
	previous := aggregates.NewKnowledgeGraph(valueobjects.NewTopic("GDP"), valueobjects.TermList{"Output"})
	require.NoError(t, store.ReplaceGraph(context.Background(), previous))

	explainer.On("Explain", mock.Anything, mock.Anything).Return("text", nil)
	terms.On("Extract", mock.Anything, mock.Anything).Return(nil, errors.New("rate limit exceeded"))

	o := NewEducateOrchestrator(explainer, terms, store, nil, nil, nopLogger{})
	_, err := o.Handle(context.Background(), commands.EducateCommand{Topic: "inflation"})

	require.Error(t, err)
	assert.Equal(t, "rate limit exceeded", pkgerrors.GetAppError(err).Detail())

	graph, _ := store.Snapshot(context.Background())
	assert.Equal(t, "GDP", graph.Query().Name)
	assert.Equal(t, 1, store.Writes())
}

func TestEducateOrchestrator_StoreFailure(t *testing.T) {
	explainer := new(MockExplainer)
	terms := new(MockTermSource)
	cache := new(MockCache)
	store := failingStore{GraphStore: memory.NewGraphStore(), err: errors.New("Neo4j connection refused")}

	explainer.On("Explain", mock.Anything, mock.Anything).Return("text", nil)
	terms.On("Extract", mock.Anything, mock.Anything).Return(valueobjects.TermList{"CPI"}, nil)

	o := NewEducateOrchestrator(explainer, terms, store, cache, nil, nopLogger{})
	result, err := o.Handle(context.Background(), commands.EducateCommand{Topic: "inflation"})

	require.Error(t, err)
	assert.Nil(t, result, "no partial result on failure")
	assert.Equal(t, "Neo4j connection refused", pkgerrors.GetAppError(err).Detail())
	cache.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestEducateOrchestrator_CacheInvalidationFailureIsIgnored(t *testing.T) {
	explainer := new(MockExplainer)
	terms := new(MockTermSource)
	cache := new(MockCache)

	explainer.On("Explain", mock.Anything, mock.Anything).Return("text", nil)
	terms.On("Extract", mock.Anything, mock.Anything).Return(valueobjects.TermList{"CPI"}, nil)
	cache.On("Delete", mock.Anything, ports.GraphSnapshotCacheKey).Return(errors.New("cache down"))

	o := NewEducateOrchestrator(explainer, terms, memory.NewGraphStore(), cache, nil, nopLogger{})
	result, err := o.Handle(context.Background(), commands.EducateCommand{Topic: "inflation"})

	require.NoError(t, err)
	assert.Equal(t, []string{"CPI"}, result.Terms)
}
