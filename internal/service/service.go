// Package service is the orchestration layer: it loads aggregates
// from repositories, runs them through the pure internal/billing
// packages, persists the result inside one transaction, and publishes
// the domain events that follow. Nothing in internal/billing ever
// touches a repository or the network directly — this is the one
// package that wires them together.
package service

import (
	"github.com/ariesone/dme-billing-engine/internal/cache"
	"github.com/ariesone/dme-billing-engine/internal/domain/customer"
	"github.com/ariesone/dme-billing-engine/internal/domain/invoice"
	"github.com/ariesone/dme-billing-engine/internal/domain/invoiceline"
	"github.com/ariesone/dme-billing-engine/internal/domain/ledger"
	"github.com/ariesone/dme-billing-engine/internal/domain/order"
	"github.com/ariesone/dme-billing-engine/internal/domain/orderline"
	"github.com/ariesone/dme-billing-engine/internal/domain/policy"
	"github.com/ariesone/dme-billing-engine/internal/idempotency"
	"github.com/ariesone/dme-billing-engine/internal/logger"
	"github.com/ariesone/dme-billing-engine/internal/observability"
	"github.com/ariesone/dme-billing-engine/internal/postgres"
	"github.com/ariesone/dme-billing-engine/internal/pubsub"
)

// Repositories bundles every domain Repository this service needs.
// Both internal/repository/postgres and internal/repository/memory
// satisfy it.
type Repositories struct {
	Customer    customer.Repository
	Policy      policy.Repository
	Order       order.Repository
	OrderLine   orderline.Repository
	Invoice     invoice.Repository
	InvoiceLine invoiceline.Repository
	Ledger      ledger.Repository
}

// BillingService ties the pure billing packages to storage, the
// idempotency store, and the domain event bus.
type BillingService struct {
	repos    Repositories
	db       postgres.TxRunner
	idem     idempotency.Store
	idemGen  *idempotency.Generator
	events   *pubsub.EventPublisher
	obs      *observability.Service
	logger   *logger.Logger
	mirCache cache.Cache
}

// NewBillingService uses mirCache as given (nil is accepted:
// ValidateMIR degrades to an uncached lookup on every call).
func NewBillingService(
	repos Repositories,
	db postgres.TxRunner,
	idem idempotency.Store,
	events *pubsub.EventPublisher,
	obs *observability.Service,
	log *logger.Logger,
	mirCache cache.Cache,
) *BillingService {
	return &BillingService{
		repos:    repos,
		db:       db,
		idem:     idem,
		idemGen:  idempotency.NewGenerator(),
		events:   events,
		obs:      obs,
		logger:   log,
		mirCache: mirCache,
	}
}
