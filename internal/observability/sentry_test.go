package observability

import (
	"context"
	"testing"

	"github.com/ariesone/dme-billing-engine/internal/config"
	"github.com/ariesone/dme-billing-engine/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_Disabled_InitIsNoop(t *testing.T) {
	cfg := config.GetDefaultConfig()
	cfg.Sentry.Enabled = false
	log, err := logger.New()
	require.NoError(t, err)

	svc := NewService(cfg, log)
	assert.NoError(t, svc.Init())
	svc.Close()
}

func TestRecoverPostingPanic_RecoversWithoutPropagating(t *testing.T) {
	cfg := config.GetDefaultConfig()
	log, err := logger.New()
	require.NoError(t, err)
	svc := NewService(cfg, log)

	func() {
		defer svc.RecoverPostingPanic(context.Background(), "AddPayment")
		panic("boom")
	}()
}
