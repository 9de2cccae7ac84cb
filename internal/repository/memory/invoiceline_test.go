package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	ierr "github.com/ariesone/dme-billing-engine/internal/errors"
	"github.com/ariesone/dme-billing-engine/internal/domain/invoiceline"
	"github.com/ariesone/dme-billing-engine/internal/repository/memory"
)

func TestInvoiceLineRepository_Update_VersionConflict(t *testing.T) {
	repo := memory.NewInvoiceLineRepository()
	ctx := context.Background()

	line := &invoiceline.Line{ID: "line-1", InvoiceID: "inv-1", Version: 0}
	require.NoError(t, repo.Create(ctx, line))

	got, err := repo.Get(ctx, "line-1")
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, got))
	require.Equal(t, 1, got.Version)

	stale := &invoiceline.Line{ID: "line-1", InvoiceID: "inv-1", Version: 0}
	err = repo.Update(ctx, stale)
	require.Error(t, err)
	require.True(t, ierr.IsVersionConflict(err))
}

func TestInvoiceLineRepository_ListForInvoice_OrderedByID(t *testing.T) {
	repo := memory.NewInvoiceLineRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &invoiceline.Line{ID: "b", InvoiceID: "inv-1"}))
	require.NoError(t, repo.Create(ctx, &invoiceline.Line{ID: "a", InvoiceID: "inv-1"}))
	require.NoError(t, repo.Create(ctx, &invoiceline.Line{ID: "c", InvoiceID: "inv-2"}))

	lines, err := repo.ListForInvoice(ctx, "inv-1")
	require.NoError(t, err)
	require.Len(t, lines, 2)
	require.Equal(t, "a", lines[0].ID)
	require.Equal(t, "b", lines[1].ID)
}

func TestCustomerRepository_GetMissing_ReturnsNotFound(t *testing.T) {
	repo := memory.NewCustomerRepository()
	_, err := repo.Get(context.Background(), "missing")
	require.True(t, ierr.IsNotFound(err))
}
