package dynamodb

import (
	"testing"

	"github.com/ariesone/dme-billing-engine/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestNewClient_DynamoDBNotInUse_ReturnsNilClient(t *testing.T) {
	cfg := config.GetDefaultConfig()
	cfg.DynamoDB.InUse = false

	client, err := NewClient(cfg)
	assert.NoError(t, err)
	assert.Nil(t, client)
}

func TestNewStore_NilClient_ReturnsNilStore(t *testing.T) {
	cfg := config.GetDefaultConfig()
	store := NewStore(nil, cfg, nil)
	assert.Nil(t, store)
}
