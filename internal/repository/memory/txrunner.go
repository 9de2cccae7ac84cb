package memory

import "context"

// TxRunner satisfies postgres.TxRunner without a real database: each
// in-memory repository already guards its own map with a mutex, so
// there is no separate transaction boundary to demarcate. It exists so
// internal/service can be exercised against the memory adapters in
// tests without standing up Postgres.
type TxRunner struct{}

func NewTxRunner() *TxRunner {
	return &TxRunner{}
}

func (TxRunner) WithTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}
