package adapters

import (
	"context"
	"errors"
	"short-video-agent/application/ports/outbound"
	"short-video-agent/config"
	"short-video-agent/domain"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
)

var ErrVideoNotFound = errors.New("video record not found")

type dynamoVideoItem struct {
	ID        string `dynamodbav:"id"`
	OwnerID   string `dynamodbav:"owner_id"`
	Title     string `dynamodbav:"title"`
	URL       string `dynamodbav:"url"`
	SizeBytes int64  `dynamodbav:"size_bytes"`
	RunID     string `dynamodbav:"run_id"`
	Status    string `dynamodbav:"status"`
	Error     string `dynamodbav:"error,omitempty"`
	CreatedAt int64  `dynamodbav:"created_at"`
}

type dynamoVideoStore struct {
	logger       outbound.LoggerPort
	dynamoSvc    dynamodbiface.DynamoDBAPI
	dynamoConfig *config.DynamoConfig
}

func NewDynamoVideoStore(logger outbound.LoggerPort, dynamoSvc dynamodbiface.DynamoDBAPI, dynamoConfig *config.DynamoConfig) outbound.VideoRecordStorePort {
	return &dynamoVideoStore{
		logger:       logger,
		dynamoSvc:    dynamoSvc,
		dynamoConfig: dynamoConfig,
	}
}

func (c *dynamoVideoStore) Create(ctx context.Context, record domain.VideoRecord) (*domain.VideoRecord, error) {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	item := dynamoVideoItem{
		ID:        record.ID,
		OwnerID:   record.OwnerID,
		Title:     record.Title,
		URL:       record.URL,
		SizeBytes: record.SizeBytes,
		RunID:     record.RunID,
		Status:    string(record.Status),
		Error:     record.Error,
		CreatedAt: record.CreatedAt.Unix(),
	}
	av, err := dynamodbattribute.MarshalMap(item)
	if err != nil {
		c.logger.ErrorWithFields(err, "Failed to marshal video item", map[string]interface{}{
			"id": record.ID,
		})
		return nil, &domain.PersistenceError{Err: err}
	}

	input := &dynamodb.PutItemInput{
		Item:                av,
		TableName:           aws.String(c.dynamoConfig.TableName),
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	}

	_, err = c.dynamoSvc.PutItemWithContext(ctx, input)
	if err != nil {
		c.logger.ErrorWithFields(err, "Failed to save video item", map[string]interface{}{
			"id":     record.ID,
			"run_id": record.RunID,
		})
		return nil, &domain.PersistenceError{Err: err}
	}

	return &record, nil
}

func (c *dynamoVideoStore) Get(ctx context.Context, id string) (*domain.VideoRecord, error) {
	out, err := c.dynamoSvc.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(c.dynamoConfig.TableName),
		Key: map[string]*dynamodb.AttributeValue{
			"id": {S: aws.String(id)},
		},
	})
	if err != nil {
		return nil, &domain.PersistenceError{Err: err}
	}
	if len(out.Item) == 0 {
		return nil, &domain.PersistenceError{Err: ErrVideoNotFound}
	}

	var item dynamoVideoItem
	if err := dynamodbattribute.UnmarshalMap(out.Item, &item); err != nil {
		return nil, &domain.PersistenceError{Err: err}
	}

	return &domain.VideoRecord{
		ID:        item.ID,
		OwnerID:   item.OwnerID,
		Title:     item.Title,
		URL:       item.URL,
		SizeBytes: item.SizeBytes,
		RunID:     item.RunID,
		Status:    domain.VideoStatus(item.Status),
		Error:     item.Error,
		CreatedAt: time.Unix(item.CreatedAt, 0).UTC(),
	}, nil
}
