// Package dynamodb provides the durable, cross-process idempotency
// store backing (SPEC_FULL.md's Idempotency Store expansion), selected
// by cmd/server when cfg.DynamoDB.InUse is set.
package dynamodb

import (
	"context"
	"fmt"

	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/ariesone/dme-billing-engine/internal/config"
)

// Client wraps the AWS SDK's dynamodb.Client, resolved once at startup.
type Client struct {
	db *dynamodb.Client
}

// NewClient returns nil, nil when DynamoDB isn't in use, so callers can
// wire it unconditionally and fall back to internal/cache otherwise.
func NewClient(cfg *config.Configuration) (*Client, error) {
	if !cfg.DynamoDB.InUse {
		return nil, nil
	}

	opts := []func(*awsConfig.LoadOptions) error{awsConfig.WithRegion(cfg.DynamoDB.Region)}
	awsCfg, err := awsConfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}

	var optFns []func(*dynamodb.Options)
	if cfg.DynamoDB.EndpointURL != "" {
		optFns = append(optFns, func(o *dynamodb.Options) {
			o.BaseEndpoint = &cfg.DynamoDB.EndpointURL
		})
	}

	return &Client{db: dynamodb.NewFromConfig(awsCfg, optFns...)}, nil
}

func (c *Client) DB() *dynamodb.Client {
	return c.db
}
