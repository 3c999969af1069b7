package ratelimit

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlidingWindowLimiter(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewSlidingWindowLimiter(2, time.Minute)
	l.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, "a")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, _ := l.Allow(ctx, "a")
	assert.False(t, ok, "third request inside the window")

	ok, _ = l.Allow(ctx, "b")
	assert.True(t, ok, "keys are independent")

	now = now.Add(61 * time.Second)
	ok, _ = l.Allow(ctx, "a")
	assert.True(t, ok, "window slid past earlier requests")
}

func TestSlidingWindowLimiter_Reset(t *testing.T) {
	ctx := context.Background()
	l := NewIPRateLimiter(NewSlidingWindowLimiter(1, time.Hour))

	ok, _ := l.Allow(ctx, "10.0.0.1")
	assert.True(t, ok)
	ok, _ = l.Allow(ctx, "10.0.0.1")
	assert.False(t, ok)

	require.NoError(t, l.Reset(ctx, "10.0.0.1"))
	ok, _ = l.Allow(ctx, "10.0.0.1")
	assert.True(t, ok)
}

func TestSlidingWindowLimiter_PrunesIdleKeys(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewSlidingWindowLimiter(1, time.Minute)
	l.now = func() time.Time { return now }

	for i := 0; i < 100; i++ {
		ok, err := l.Allow(ctx, "client-"+strconv.Itoa(i))
		require.NoError(t, err)
		assert.True(t, ok)
	}
	assert.Len(t, l.windows, 100)

	now = now.Add(30 * time.Second)
	ok, _ := l.Allow(ctx, "client-0")
	assert.False(t, ok, "still inside the first window")

	now = now.Add(61 * time.Second)
	ok, _ = l.Allow(ctx, "late")
	assert.True(t, ok)
	assert.Len(t, l.windows, 1, "idle keys are dropped once their window has passed")
	assert.Contains(t, l.windows, "late")

	ok, _ = l.Allow(ctx, "client-0")
	assert.True(t, ok, "a pruned key starts with an empty window")
}

type fakeCounterClient struct {
	updates []*dynamodb.UpdateItemInput
	deletes []*dynamodb.DeleteItemInput
	count   int
	err     error
}

func (f *fakeCounterClient) UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.updates = append(f.updates, in)
	if f.err != nil {
		return nil, f.err
	}
	f.count++
	return &dynamodb.UpdateItemOutput{Attributes: map[string]types.AttributeValue{
		"Count": &types.AttributeValueMemberN{Value: strconv.Itoa(f.count)},
	}}, nil
}

func (f *fakeCounterClient) DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.deletes = append(f.deletes, in)
	return &dynamodb.DeleteItemOutput{}, nil
}

func TestDistributedLimiter_Allow(t *testing.T) {
	client := &fakeCounterClient{}
	l := NewDistributedLimiter(client, "econbot-graph", 5, time.Minute)
	l.now = func() time.Time { return time.Unix(120, 0) }

	ok, err := l.Allow(context.Background(), "ip:10.0.0.1")
	require.NoError(t, err)
	assert.True(t, ok)

	require.Len(t, client.updates, 1)
	in := client.updates[0]
	assert.Equal(t, "econbot-graph", *in.TableName)
	assert.Equal(t, &types.AttributeValueMemberS{Value: "RATELIMIT#ip:10.0.0.1#120"}, in.Key["PK"])
	assert.Equal(t, &types.AttributeValueMemberS{Value: "COUNTER"}, in.Key["SK"])
	assert.NotNil(t, in.ConditionExpression)
	assert.NotNil(t, in.UpdateExpression)

	require.NoError(t, l.Reset(context.Background(), "ip:10.0.0.1"))
	require.Len(t, client.deletes, 1)
	assert.Equal(t, in.Key, client.deletes[0].Key)
}

func TestDistributedLimiter_LimitReached(t *testing.T) {
	client := &fakeCounterClient{err: &types.ConditionalCheckFailedException{Message: aws.String("limit")}}
	l := NewDistributedLimiter(client, "t", 1, time.Minute)

	ok, err := l.Allow(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDistributedLimiter_FailsOpen(t *testing.T) {
	client := &fakeCounterClient{err: errors.New("throttled")}
	l := NewDistributedLimiter(client, "t", 1, time.Minute)

	ok, err := l.Allow(context.Background(), "k")
	assert.True(t, ok)
	assert.ErrorContains(t, err, "failing open")
}
