package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/ariesone/dme-billing-engine/internal/config"
	"github.com/ariesone/dme-billing-engine/internal/idempotency"
	"github.com/ariesone/dme-billing-engine/internal/logger"
)

// idempotencyRecord is the single-item-per-(scope,key) row this store
// writes. RecordedAt exists for operator visibility only; nothing in
// this module reads it back.
type idempotencyRecord struct {
	PK         string    `dynamodbav:"pk"` // scope
	SK         string    `dynamodbav:"sk"` // key
	RecordedAt time.Time `dynamodbav:"recorded_at"`
}

// Store is the durable idempotency.Store backing, used whenever a dedup
// decision must survive past a single process (SPEC_FULL.md's
// Idempotency Store expansion names this as the cross-process
// alternative to internal/cache's in-process CacheStore).
type Store struct {
	client    *Client
	tableName string
	logger    *logger.Logger
}

// NewStore builds a Store. Returns nil when client is nil (DynamoDB not
// in use), so callers fall back to internal/cache's CacheStore instead.
func NewStore(client *Client, cfg *config.Configuration, log *logger.Logger) *Store {
	if client == nil {
		return nil
	}
	return &Store{client: client, tableName: cfg.DynamoDB.IdempotencyTable, logger: log}
}

func (s *Store) Seen(ctx context.Context, scope idempotency.Scope, key string) (bool, error) {
	out, err := s.client.DB().GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"pk": &types.AttributeValueMemberS{Value: string(scope)},
			"sk": &types.AttributeValueMemberS{Value: key},
		},
	})
	if err != nil {
		return false, fmt.Errorf("dynamodb idempotency lookup: %w", err)
	}
	return len(out.Item) > 0, nil
}

func (s *Store) Record(ctx context.Context, scope idempotency.Scope, key string) error {
	record := idempotencyRecord{PK: string(scope), SK: key, RecordedAt: time.Now()}
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("marshal idempotency record: %w", err)
	}

	s.logger.WithContext(ctx).Debugw("recording idempotency key", "scope", scope, "key", key)

	_, err = s.client.DB().PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("dynamodb idempotency record: %w", err)
	}
	return nil
}
