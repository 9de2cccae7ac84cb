package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/ariesone/dme-billing-engine/internal/logger"
)

// QueryTracer times one query and logs its outcome.
type QueryTracer struct {
	logger *logger.Logger
	query  string
	start  time.Time
	txID   string
}

func NewQueryTracer(log *logger.Logger, query, txID string) *QueryTracer {
	return &QueryTracer{logger: log, query: query, start: time.Now(), txID: txID}
}

func (qt *QueryTracer) Done(err error) {
	fields := []interface{}{"duration_ms", time.Since(qt.start).Milliseconds(), "query", qt.query}
	if qt.txID != "" {
		fields = append(fields, "tx_id", qt.txID)
	}
	if err != nil {
		qt.logger.Errorw("database query failed", append(fields, "error", err.Error())...)
		return
	}
	qt.logger.Debugw("database query completed", fields...)
}

// TracedQuerier wraps a Querier, logging every call through Done.
type TracedQuerier struct {
	Querier
	logger *logger.Logger
	txID   string
}

func NewTracedQuerier(q Querier, log *logger.Logger, txID string) *TracedQuerier {
	return &TracedQuerier{Querier: q, logger: log, txID: txID}
}

func (t *TracedQuerier) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	tr := NewQueryTracer(t.logger, query, t.txID)
	res, err := t.Querier.ExecContext(ctx, query, args...)
	tr.Done(err)
	return res, err
}

func (t *TracedQuerier) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	tr := NewQueryTracer(t.logger, query, t.txID)
	err := t.Querier.GetContext(ctx, dest, query, args...)
	tr.Done(err)
	return err
}

func (t *TracedQuerier) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	tr := NewQueryTracer(t.logger, query, t.txID)
	err := t.Querier.SelectContext(ctx, dest, query, args...)
	tr.Done(err)
	return err
}
