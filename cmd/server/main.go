// Package main wires the engine's dependencies and runs its one
// scheduled job: a periodic invoice generation batch over every
// approved order. There is no HTTP/API surface in scope here (the
// spec's Non-goals exclude any outer transport layer) — this binary's
// surface is the scheduler and the webhook dispatcher it keeps running
// in the background until told to stop.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariesone/dme-billing-engine/internal/cache"
	"github.com/ariesone/dme-billing-engine/internal/config"
	"github.com/ariesone/dme-billing-engine/internal/dynamodb"
	"github.com/ariesone/dme-billing-engine/internal/idempotency"
	"github.com/ariesone/dme-billing-engine/internal/logger"
	"github.com/ariesone/dme-billing-engine/internal/observability"
	"github.com/ariesone/dme-billing-engine/internal/postgres"
	"github.com/ariesone/dme-billing-engine/internal/pubsub"
	pubsubmemory "github.com/ariesone/dme-billing-engine/internal/pubsub/memory"
	pgrepo "github.com/ariesone/dme-billing-engine/internal/repository/postgres"
	"github.com/ariesone/dme-billing-engine/internal/service"
	"github.com/ariesone/dme-billing-engine/internal/webhook"
)

func init() {
	time.Local = time.UTC
}

func main() {
	log, err := logger.New()
	if err != nil {
		panic(err)
	}

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	obs := observability.NewService(cfg, log)
	if err := obs.Init(); err != nil {
		log.Errorw("failed to initialize observability", "error", err)
	}
	defer obs.Close()

	db, err := postgres.NewDB(cfg, log)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer db.Close()

	idemStore, err := newIdempotencyStore(cfg, log)
	if err != nil {
		log.Fatalf("failed to initialize idempotency store: %v", err)
	}

	bus := pubsubmemory.NewPubSub()
	eventPublisher := pubsub.NewEventPublisher(bus, log)

	webhookClient, err := webhook.NewClient(cfg)
	if err != nil {
		log.Fatalf("failed to initialize webhook client: %v", err)
	}
	dispatcher := webhook.NewDispatcher(bus, webhookClient, cfg, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := dispatcher.Start(ctx); err != nil {
		log.Fatalf("failed to start webhook dispatcher: %v", err)
	}
	defer dispatcher.Close()

	repos := service.Repositories{
		Customer:    pgrepo.NewCustomerRepository(db),
		Policy:      pgrepo.NewPolicyRepository(db),
		Order:       pgrepo.NewOrderRepository(db),
		OrderLine:   pgrepo.NewOrderLineRepository(db),
		Invoice:     pgrepo.NewInvoiceRepository(db),
		InvoiceLine: pgrepo.NewInvoiceLineRepository(db),
		Ledger:      pgrepo.NewLedgerRepository(db),
	}

	mirCache := cache.NewInMemoryCache(cfg)
	billingService := service.NewBillingService(repos, db, idemStore, eventPublisher, obs, log, mirCache)

	if cfg.Scheduler.Enabled {
		go runScheduler(ctx, billingService, cfg, log)
	}

	log.Info("dme billing engine initialized, waiting for shutdown signal")
	<-ctx.Done()
	log.Info("shutting down")
}

// runScheduler ticks RunDueInvoiceGeneration on cfg.Scheduler's own
// interval until ctx is cancelled. This is the one caller of
// GenerateInvoices in this binary: the batch a DME billing engine
// daemon exists to run, not a constructed-and-unused service.
func runScheduler(ctx context.Context, svc *service.BillingService, cfg *config.Configuration, log *logger.Logger) {
	interval := time.Duration(cfg.Scheduler.IntervalSeconds) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			results, err := svc.RunDueInvoiceGeneration(ctx, time.Now(), cfg.Scheduler.MaxConcurrency)
			if err != nil {
				log.Errorw("invoice generation batch failed", "error", err)
				continue
			}
			failed := 0
			for _, r := range results {
				if r.Err != nil {
					failed++
					log.Errorw("order invoice generation failed", "order_id", r.OrderID, "error", r.Err)
				}
			}
			log.Infow("invoice generation batch complete", "orders", len(results), "failed", failed)
		}
	}
}

// newIdempotencyStore picks the durable DynamoDB-backed store when
// configured, falling back to the in-process cache store otherwise —
// the "durable de-dup store" of SPEC_FULL.md's Idempotency Store
// (component K) is only
// actually durable across process restarts in the DynamoDB case.
func newIdempotencyStore(cfg *config.Configuration, log *logger.Logger) (idempotency.Store, error) {
	if cfg.DynamoDB.InUse {
		client, err := dynamodb.NewClient(cfg)
		if err != nil {
			return nil, err
		}
		return dynamodb.NewStore(client, cfg, log), nil
	}

	ttl := time.Duration(cfg.Cache.TTLSeconds) * time.Second
	return idempotency.NewCacheStore(cache.NewInMemoryCache(cfg), ttl), nil
}
