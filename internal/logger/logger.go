// Package logger wraps zap.SugaredLogger with tenant/request-scoped
// context fields, matching the structured-logging convention used
// throughout the rest of the engine.
package logger

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ariesone/dme-billing-engine/internal/types"
)

// Logger wraps zap.SugaredLogger.
type Logger struct {
	*zap.SugaredLogger
}

var global *Logger

// New builds a production-configured Logger.
func New() (*Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	zl, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{SugaredLogger: zl.Sugar()}, nil
}

func init() {
	global, _ = New()
}

// Get returns the process-global logger, initializing it lazily. Use
// WithContext for anything that should carry tenant/user scoping.
func Get() *Logger {
	if global == nil {
		global, _ = New()
	}
	return global
}

// WithContext returns a logger annotated with the tenant/user/request
// identifiers carried on ctx, if any.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	return &Logger{
		SugaredLogger: l.SugaredLogger.With(
			"tenant_id", types.TenantIDFromContext(ctx),
			"user_id", types.UserIDFromContext(ctx),
			"request_id", types.RequestIDFromContext(ctx),
		),
	}
}
