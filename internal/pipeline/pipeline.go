// Package pipeline orchestrates a single warehouse run: load the raw
// snapshot, validate it, run the cleaning, enrichment and rollup stages
// in memory, and publish the mart relations atomically.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"

	"martforge/internal/enrich"
	"martforge/internal/refdata"
	"martforge/internal/rollup"
	"martforge/internal/staging"
	"martforge/internal/warehouse"
	"martforge/pkg/errors"
	"martforge/pkg/models"
)

// Store is the warehouse surface the pipeline depends on.
type Store interface {
	LoadSnapshot(ctx context.Context) (*warehouse.Snapshot, error)
	Publish(ctx context.Context, marts *models.Marts, keepPrevious bool) error
}

// Runner executes the full transformation pipeline.
type Runner struct {
	store     Store
	reference *refdata.Set
	config    models.Pipeline
}

// Result summarizes one run for reporting.
type Result struct {
	RunID              string
	StartedAt          time.Time
	Duration           time.Duration
	DryRun             bool
	Products           int
	Customers          int
	Orders             int
	OrderItems         int
	DailySummaries     int
	CorrectedLocations int
	StageDurations     map[string]time.Duration
}

// NewRunner creates a pipeline runner.
func NewRunner(store Store, reference *refdata.Set, config models.Pipeline) *Runner {
	return &Runner{
		store:     store,
		reference: reference,
		config:    config,
	}
}

// Run executes one pipeline run. A failed run returns before publish, so
// the live mart tables keep the previous snapshot. In dry-run mode every
// stage executes but nothing is published.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	result := &Result{
		RunID:          uuid.New().String(),
		StartedAt:      time.Now(),
		DryRun:         r.config.DryRun,
		StageDurations: make(map[string]time.Duration),
	}
	defer func() { result.Duration = time.Since(result.StartedAt) }()

	start := time.Now()
	snap, err := r.store.LoadSnapshot(ctx)
	result.StageDurations["load"] = time.Since(start)
	if err != nil {
		return result, err
	}

	if r.config.Validation.Referential {
		start = time.Now()
		violations := Referential(snap, r.config.Validation.Strict)
		result.StageDurations["validate"] = time.Since(start)
		if err := summarizeViolations(violations); err != nil {
			return result, err
		}
	}

	start = time.Now()
	staged, err := stageAll(snap)
	result.StageDurations["staging"] = time.Since(start)
	if err != nil {
		return result, err
	}

	start = time.Now()
	enriched := enrich.Users(staged.users, r.reference)
	result.StageDurations["enrich"] = time.Since(start)
	result.CorrectedLocations = enrich.CountCorrected(enriched)

	start = time.Now()
	marts, err := r.rollup(ctx, staged, enriched)
	result.StageDurations["rollup"] = time.Since(start)
	if err != nil {
		return result, err
	}

	result.Products = len(marts.Products)
	result.Customers = len(marts.Customers)
	result.Orders = len(marts.Orders)
	result.OrderItems = len(marts.OrderItems)
	result.DailySummaries = len(marts.Daily)

	if r.config.DryRun {
		return result, nil
	}

	start = time.Now()
	if err := r.store.Publish(ctx, marts, r.config.KeepPrevious); err != nil {
		result.StageDurations["publish"] = time.Since(start)
		return result, errors.Wrap(err, errors.ErrCodePublishFailed, "Failed to publish mart relations").
			WithContext("run_id", result.RunID)
	}
	result.StageDurations["publish"] = time.Since(start)

	return result, nil
}

type stagedRelations struct {
	products []models.StagedProduct
	users    []models.StagedUser
	orders   []models.StagedOrder
	items    []models.StagedOrderItem
}

func stageAll(snap *warehouse.Snapshot) (*stagedRelations, error) {
	products, err := staging.Products(snap.Products)
	if err != nil {
		return nil, err
	}
	users, err := staging.Users(snap.Users)
	if err != nil {
		return nil, err
	}
	orders, err := staging.Orders(snap.Orders)
	if err != nil {
		return nil, err
	}
	items, err := staging.OrderItems(snap.OrderItems)
	if err != nil {
		return nil, err
	}
	return &stagedRelations{products: products, users: users, orders: orders, items: items}, nil
}

// rollup builds the five mart relations across the worker pool. Each
// relation is an independent aggregation, so the pool only affects
// throughput, never output.
func (r *Runner) rollup(ctx context.Context, staged *stagedRelations, enriched []models.EnrichedUser) (*models.Marts, error) {
	marts := &models.Marts{}

	tasks := []task{
		{name: "dim_products", run: func() error {
			marts.Products = rollup.Products(staged.products, staged.items)
			return nil
		}},
		{name: "dim_customers", run: func() error {
			marts.Customers = rollup.Customers(enriched, staged.orders)
			return nil
		}},
		{name: "fct_orders", run: func() error {
			marts.Orders = rollup.Orders(staged.orders)
			return nil
		}},
		{name: "fct_order_items", run: func() error {
			marts.OrderItems = rollup.OrderItems(staged.items, staged.orders)
			return nil
		}},
		{name: "daily_summary", run: func() error {
			marts.Daily = rollup.Daily(staged.orders)
			return nil
		}},
	}

	if err := runTasks(ctx, r.config.Workers, tasks); err != nil {
		return nil, err
	}
	return marts, nil
}
