package pipeline

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"martforge/internal/refdata"
	"martforge/internal/warehouse"
	"martforge/pkg/errors"
	"martforge/pkg/models"
)

type fakeStore struct {
	snapshot   *warehouse.Snapshot
	loadErr    error
	publishErr error
	published  []*models.Marts
}

func (f *fakeStore) LoadSnapshot(ctx context.Context) (*warehouse.Snapshot, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.snapshot, nil
}

func (f *fakeStore) Publish(ctx context.Context, marts *models.Marts, keepPrevious bool) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, marts)
	return nil
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleSnapshot() *warehouse.Snapshot {
	ordered := time.Date(2025, time.March, 14, 9, 0, 0, 0, time.UTC)
	return &warehouse.Snapshot{
		Products: []models.RawProduct{
			{ID: 1, Title: "Mouse", Category: "electronics", Price: d("20.00"), DiscountPct: d("0"), Rating: d("4.2"), Stock: 12},
			{ID: 2, Title: "Lamp", Category: "home", Price: d("35.00"), DiscountPct: d("10"), Rating: d("3.1"), Stock: 0},
		},
		Users: []models.RawUser{
			{ID: 7, FirstName: "Ada", LastName: "Lovelace", Age: 36, City: "Chicago", State: "Texas", StateCode: "TX"},
			{ID: 8, FirstName: "Alan", LastName: "Turing", Age: 41, City: "Nowhereville", State: "Atlantis"},
		},
		Orders: []models.RawOrder{
			{OrderID: 10, UserID: 7, OrderDate: ordered, TotalAmount: d("40.00"), DiscountedAmount: d("40.00"), TotalItems: 2, Status: "completed"},
			{OrderID: 11, UserID: 8, OrderDate: ordered, TotalAmount: d("35.00"), DiscountedAmount: d("31.50"), TotalItems: 1, Status: "pending"},
		},
		OrderItems: []models.RawOrderItem{
			{OrderID: 10, ProductID: 1, Quantity: 2, UnitPrice: d("20.00"), DiscountPct: d("0")},
			{OrderID: 11, ProductID: 2, Quantity: 1, UnitPrice: d("35.00"), DiscountPct: d("10")},
		},
	}
}

func defaultConfig() models.Pipeline {
	return models.Pipeline{
		Workers: 2,
		Validation: models.ValidationConfig{
			Enabled:     true,
			Referential: true,
		},
	}
}

func TestRun(t *testing.T) {
	store := &fakeStore{snapshot: sampleSnapshot()}
	runner := NewRunner(store, refdata.Default(), defaultConfig())

	result, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.False(t, result.DryRun)
	assert.Equal(t, 2, result.Products)
	assert.Equal(t, 2, result.Customers)
	assert.Equal(t, 2, result.Orders)
	assert.Equal(t, 2, result.OrderItems)
	assert.Equal(t, 1, result.DailySummaries)
	assert.Equal(t, 1, result.CorrectedLocations)

	require.Len(t, store.published, 1)
	marts := store.published[0]

	// Chicago's state is corrected to Illinois on the customer dimension
	ada := marts.Customers[0]
	assert.Equal(t, 7, ada.CustomerID)
	assert.Equal(t, "Illinois", ada.State)
	assert.Equal(t, "IL", ada.StateCode)
	assert.True(t, ada.WasCorrected)
	assert.True(t, ada.LifetimeValue.Equal(d("40.00")))

	// Pending-only customer keeps orders but realizes no value
	alan := marts.Customers[1]
	assert.Equal(t, 0, alan.CompletedOrders)
	assert.False(t, alan.AvgOrderValue.Valid)

	// Product revenue counts the pending order too
	lamp := marts.Products[1]
	assert.True(t, lamp.TotalRevenue.Equal(d("31.50")))
}

func TestRunIsIdempotent(t *testing.T) {
	store := &fakeStore{snapshot: sampleSnapshot()}
	runner := NewRunner(store, refdata.Default(), defaultConfig())

	_, err := runner.Run(context.Background())
	require.NoError(t, err)
	_, err = runner.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, store.published, 2)
	assert.Equal(t, store.published[0], store.published[1])
}

func TestRunDryRunPublishesNothing(t *testing.T) {
	store := &fakeStore{snapshot: sampleSnapshot()}
	config := defaultConfig()
	config.DryRun = true
	runner := NewRunner(store, refdata.Default(), config)

	result, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, result.DryRun)
	assert.Equal(t, 2, result.Products)
	assert.Empty(t, store.published)
}

func TestRunFailsOnReferentialViolation(t *testing.T) {
	snap := sampleSnapshot()
	snap.Orders = append(snap.Orders, models.RawOrder{
		OrderID:          12,
		UserID:           999,
		OrderDate:        time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC),
		TotalAmount:      d("10.00"),
		DiscountedAmount: d("10.00"),
		TotalItems:       1,
		Status:           "pending",
	})

	store := &fakeStore{snapshot: snap}
	runner := NewRunner(store, refdata.Default(), defaultConfig())

	_, err := runner.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeReferentialViolation, errors.GetErrorCode(err))
	assert.Empty(t, store.published)
}

func TestRunFailsOnContractViolation(t *testing.T) {
	snap := sampleSnapshot()
	snap.Products[0].Stock = -5

	store := &fakeStore{snapshot: snap}
	runner := NewRunner(store, refdata.Default(), defaultConfig())

	_, err := runner.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeValidationFailed, errors.GetErrorCode(err))
	assert.Empty(t, store.published)
}

func TestRunWrapsPublishFailure(t *testing.T) {
	store := &fakeStore{
		snapshot:   sampleSnapshot(),
		publishErr: fmt.Errorf("connection reset"),
	}
	runner := NewRunner(store, refdata.Default(), defaultConfig())

	_, err := runner.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodePublishFailed, errors.GetErrorCode(err))
}

func TestReferential(t *testing.T) {
	snap := &warehouse.Snapshot{
		Products: []models.RawProduct{{ID: 1}},
		Users:    []models.RawUser{{ID: 7}},
		Orders: []models.RawOrder{
			{OrderID: 10, UserID: 7},
			{OrderID: 11, UserID: 999},
		},
		OrderItems: []models.RawOrderItem{
			{OrderID: 10, ProductID: 1},
			{OrderID: 99, ProductID: 1},
			{OrderID: 10, ProductID: 888},
		},
	}

	violations := Referential(snap, false)
	assert.Len(t, violations, 3)

	// Strict mode stops at the first violation
	violations = Referential(snap, true)
	assert.Len(t, violations, 1)
}

func TestSummarizeViolations(t *testing.T) {
	assert.NoError(t, summarizeViolations(nil))

	err := summarizeViolations([]error{
		errors.ReferentialError("order", 11, "user", 999),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 violation")
}

func TestRunTasksBoundsConcurrency(t *testing.T) {
	var order []string
	tasks := []task{
		{name: "a", run: func() error { order = append(order, "a"); return nil }},
	}

	require.NoError(t, runTasks(context.Background(), 4, tasks))
	assert.Equal(t, []string{"a"}, order)
}

func TestRunTasksPropagatesError(t *testing.T) {
	boom := fmt.Errorf("boom")
	tasks := []task{
		{name: "ok", run: func() error { return nil }},
		{name: "fail", run: func() error { return boom }},
	}

	err := runTasks(context.Background(), 1, tasks)
	require.Error(t, err)
	assert.Equal(t, boom, err)
}
