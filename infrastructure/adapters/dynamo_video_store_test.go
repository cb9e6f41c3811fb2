package adapters

import (
	"context"
	"testing"
	"time"

	"short-video-agent/config"
	"short-video-agent/domain"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDynamo keeps items keyed by id and honours attribute_not_exists(id).
type fakeDynamo struct {
	dynamodbiface.DynamoDBAPI
	items map[string]map[string]*dynamodb.AttributeValue
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: make(map[string]map[string]*dynamodb.AttributeValue)}
}

func (f *fakeDynamo) PutItemWithContext(ctx aws.Context, input *dynamodb.PutItemInput, opts ...request.Option) (*dynamodb.PutItemOutput, error) {
	id := aws.StringValue(input.Item["id"].S)
	if _, exists := f.items[id]; exists && input.ConditionExpression != nil {
		return nil, awserr.New(dynamodb.ErrCodeConditionalCheckFailedException, "The conditional request failed", nil)
	}
	f.items[id] = input.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) GetItemWithContext(ctx aws.Context, input *dynamodb.GetItemInput, opts ...request.Option) (*dynamodb.GetItemOutput, error) {
	id := aws.StringValue(input.Key["id"].S)
	return &dynamodb.GetItemOutput{Item: f.items[id]}, nil
}

func TestDynamoVideoStore_CreateAndGet(t *testing.T) {
	svc := newFakeDynamo()
	store := NewDynamoVideoStore(testLogger(), svc, &config.DynamoConfig{TableName: "videos"})
	ctx := context.Background()

	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	_, err := store.Create(ctx, domain.VideoRecord{
		ID:        "video-1",
		OwnerID:   "user-1",
		Title:     "octopus facts",
		URL:       "https://bucket.s3.eu-west-1.amazonaws.com/key",
		SizeBytes: 1024,
		RunID:     "run-1",
		Status:    domain.VideoStatusPublished,
		CreatedAt: created,
	})
	require.NoError(t, err)

	assert.Equal(t, "octopus facts", aws.StringValue(svc.items["video-1"]["title"].S))
	assert.Equal(t, "1024", aws.StringValue(svc.items["video-1"]["size_bytes"].N))

	record, err := store.Get(ctx, "video-1")
	require.NoError(t, err)
	assert.Equal(t, domain.VideoStatusPublished, record.Status)
	assert.Equal(t, "run-1", record.RunID)
	assert.Equal(t, created, record.CreatedAt)
}

func TestDynamoVideoStore_DuplicateID(t *testing.T) {
	store := NewDynamoVideoStore(testLogger(), newFakeDynamo(), &config.DynamoConfig{TableName: "videos"})
	ctx := context.Background()

	record := domain.VideoRecord{ID: "video-1", URL: "u", Status: domain.VideoStatusPublished}
	_, err := store.Create(ctx, record)
	require.NoError(t, err)

	_, err = store.Create(ctx, record)
	var persistenceErr *domain.PersistenceError
	require.ErrorAs(t, err, &persistenceErr)
	assert.Equal(t, domain.VideoStatusFailedRegister, domain.StatusForError(err))
}

func TestDynamoVideoStore_NotFound(t *testing.T) {
	store := NewDynamoVideoStore(testLogger(), newFakeDynamo(), &config.DynamoConfig{TableName: "videos"})

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrVideoNotFound)
}
