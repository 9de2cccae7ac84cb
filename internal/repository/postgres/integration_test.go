//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/ariesone/dme-billing-engine/internal/config"
	"github.com/ariesone/dme-billing-engine/internal/domain/invoiceline"
	"github.com/ariesone/dme-billing-engine/internal/logger"
	pg "github.com/ariesone/dme-billing-engine/internal/postgres"
	"github.com/ariesone/dme-billing-engine/internal/repository/memory"
	"github.com/ariesone/dme-billing-engine/internal/repository/postgres"
	"github.com/ariesone/dme-billing-engine/internal/types"
)

// startPostgres boots a throwaway Postgres container and applies the
// schema this package's repositories expect.
func startPostgres(t *testing.T) *pg.DB {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "dme",
			"POSTGRES_PASSWORD": "dme",
			"POSTGRES_DB":       "dme_billing",
		},
		WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	cfg := config.GetDefaultConfig()
	cfg.Postgres.Host = host
	cfg.Postgres.Port = port.Int()
	cfg.Postgres.User = "dme"
	cfg.Postgres.Password = "dme"
	cfg.Postgres.DBName = "dme_billing"
	cfg.Postgres.SSLMode = "disable"

	log, err := logger.New()
	require.NoError(t, err)

	db, err := pg.NewDB(cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.ExecContext(ctx, `
		CREATE TABLE invoice_lines (
			id TEXT PRIMARY KEY,
			invoice_id TEXT NOT NULL,
			order_line_id TEXT NOT NULL,
			version INTEGER NOT NULL DEFAULT 0,
			payload JSONB NOT NULL
		)`)
	require.NoError(t, err)
	return db
}

// TestInvoiceLineRepository_MatchesMemoryAdapter asserts the Postgres
// and in-memory adapters agree on Version and InvoiceID for the same
// line after the same sequence of writes, and both reject a stale write.
func TestInvoiceLineRepository_MatchesMemoryAdapter(t *testing.T) {
	db := startPostgres(t)
	pgRepo := postgres.NewInvoiceLineRepository(db)
	memRepo := memory.NewInvoiceLineRepository()

	ctx := context.Background()
	line := &invoiceline.Line{
		ID:          types.GenerateIDWithPrefix("iline"),
		InvoiceID:   types.GenerateIDWithPrefix("inv"),
		OrderLineID: types.GenerateIDWithPrefix("oline"),
		Version:     0,
	}

	require.NoError(t, pgRepo.Create(ctx, line))
	memLine := *line
	require.NoError(t, memRepo.Create(ctx, &memLine))

	pgLine, err := pgRepo.Get(ctx, line.ID)
	require.NoError(t, err)
	storedMemLine, err := memRepo.Get(ctx, line.ID)
	require.NoError(t, err)

	require.Equal(t, storedMemLine.Version, pgLine.Version)
	require.Equal(t, storedMemLine.InvoiceID, pgLine.InvoiceID)

	require.NoError(t, pgRepo.Update(ctx, pgLine))
	require.NoError(t, memRepo.Update(ctx, storedMemLine))
	require.Equal(t, storedMemLine.Version, pgLine.Version)

	// A stale write on either adapter surfaces the same conflict.
	stale := *line
	stale.Version = 0
	pgErr := pgRepo.Update(ctx, &stale)
	require.Error(t, pgErr)
	memErr := memRepo.Update(ctx, &stale)
	require.Error(t, memErr)
}
