package staging

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"martforge/pkg/errors"
	"martforge/pkg/models"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestProducts(t *testing.T) {
	raw := []models.RawProduct{
		{
			ID:          2,
			Title:       "  Wireless Mouse ",
			Category:    "electronics",
			Brand:       "Logi",
			Price:       d("100.00"),
			DiscountPct: d("12.5"),
			Rating:      d("4.5"),
			Stock:       10,
		},
		{
			ID:          1,
			Title:       "Desk Lamp",
			Category:    "home",
			Brand:       "Lumen",
			Price:       d("25.00"),
			DiscountPct: d("0"),
			Rating:      d("2.9"),
			Stock:       0,
		},
	}

	staged, err := Products(raw)
	require.NoError(t, err)
	require.Len(t, staged, 2)

	// Sorted by id
	assert.Equal(t, 1, staged[0].ID)
	assert.Equal(t, 2, staged[1].ID)

	lamp := staged[0]
	assert.Equal(t, "Desk Lamp", lamp.Name)
	assert.True(t, lamp.DiscountedPrice.Equal(d("25.00")))
	assert.Equal(t, "Out of Stock", lamp.StockStatus)
	assert.Equal(t, "Poor", lamp.RatingCategory)

	mouse := staged[1]
	assert.Equal(t, "Wireless Mouse", mouse.Name)
	assert.True(t, mouse.DiscountedPrice.Equal(d("87.50")), "got %s", mouse.DiscountedPrice)
	assert.Equal(t, "In Stock", mouse.StockStatus)
	assert.Equal(t, "Excellent", mouse.RatingCategory)
}

func TestProductsRejectsContractViolations(t *testing.T) {
	base := models.RawProduct{
		ID:          1,
		Title:       "Widget",
		Price:       d("10.00"),
		DiscountPct: d("0"),
		Rating:      d("4.0"),
		Stock:       5,
	}

	tests := []struct {
		name   string
		mutate func(*models.RawProduct)
	}{
		{"zero id", func(p *models.RawProduct) { p.ID = 0 }},
		{"negative price", func(p *models.RawProduct) { p.Price = d("-1") }},
		{"negative stock", func(p *models.RawProduct) { p.Stock = -1 }},
		{"discount above 100", func(p *models.RawProduct) { p.DiscountPct = d("100.5") }},
		{"negative discount", func(p *models.RawProduct) { p.DiscountPct = d("-5") }},
		{"rating above scale", func(p *models.RawProduct) { p.Rating = d("5.1") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base
			tt.mutate(&p)
			_, err := Products([]models.RawProduct{p})
			require.Error(t, err)
			assert.Equal(t, errors.ErrCodeValidationFailed, errors.GetErrorCode(err))
		})
	}
}

func TestUsers(t *testing.T) {
	raw := []models.RawUser{
		{
			ID:        7,
			FirstName: " Ada ",
			LastName:  "Lovelace",
			Age:       36,
			Gender:    "Female",
			Email:     "Ada@Example.COM",
			City:      "Chicago",
			State:     "Illinois",
			StateCode: "IL",
			Country:   "United States",
		},
	}

	staged, err := Users(raw)
	require.NoError(t, err)
	require.Len(t, staged, 1)

	u := staged[0]
	assert.Equal(t, "Ada Lovelace", u.FullName)
	assert.Equal(t, "35-49", u.AgeGroup)
	assert.Equal(t, "female", u.Gender)
	assert.Equal(t, "ada@example.com", u.Email)
}

func TestUsersRejectsBadRows(t *testing.T) {
	_, err := Users([]models.RawUser{{ID: 0}})
	require.Error(t, err)

	_, err = Users([]models.RawUser{{ID: 1, Age: -3}})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeValidationFailed, errors.GetErrorCode(err))
}

func TestOrders(t *testing.T) {
	ordered := time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC)
	raw := []models.RawOrder{
		{
			OrderID:          10,
			UserID:           7,
			OrderDate:        ordered,
			TotalAmount:      d("180.00"),
			DiscountedAmount: d("150.00"),
			TotalItems:       3,
			Status:           "Completed",
		},
		{
			OrderID:          9,
			UserID:           7,
			OrderDate:        ordered,
			TotalAmount:      d("40.00"),
			DiscountedAmount: d("40.00"),
			TotalItems:       1,
			Status:           "cancelled",
		},
	}

	staged, err := Orders(raw)
	require.NoError(t, err)
	require.Len(t, staged, 2)

	// Sorted by order id
	assert.Equal(t, 9, staged[0].OrderID)
	assert.Equal(t, 10, staged[1].OrderID)

	small := staged[0]
	assert.True(t, small.IsCancelled)
	assert.False(t, small.IsCompleted)
	assert.Equal(t, "Small", small.OrderSize)

	large := staged[1]
	assert.Equal(t, 2025, large.Year)
	assert.Equal(t, 3, large.Month)
	assert.Equal(t, "completed", large.Status)
	assert.True(t, large.IsCompleted)
	assert.True(t, large.DiscountAmount.Equal(d("30.00")))
	// 150.00 lands in Large, boundary is inclusive on the lower bound
	assert.Equal(t, "Large", large.OrderSize)
}

func TestOrdersRejectsContractViolations(t *testing.T) {
	ordered := time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC)
	base := models.RawOrder{
		OrderID:          1,
		UserID:           1,
		OrderDate:        ordered,
		TotalAmount:      d("50.00"),
		DiscountedAmount: d("45.00"),
		TotalItems:       1,
		Status:           "pending",
	}

	tests := []struct {
		name   string
		mutate func(*models.RawOrder)
	}{
		{"zero order id", func(o *models.RawOrder) { o.OrderID = 0 }},
		{"zero user id", func(o *models.RawOrder) { o.UserID = 0 }},
		{"zero order date", func(o *models.RawOrder) { o.OrderDate = time.Time{} }},
		{"negative total", func(o *models.RawOrder) { o.TotalAmount = d("-1") }},
		{"discounted above total", func(o *models.RawOrder) { o.DiscountedAmount = d("60.00") }},
		{"negative item count", func(o *models.RawOrder) { o.TotalItems = -1 }},
		{"unknown status", func(o *models.RawOrder) { o.Status = "refunded" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := base
			tt.mutate(&o)
			_, err := Orders([]models.RawOrder{o})
			require.Error(t, err)
			assert.Equal(t, errors.ErrCodeValidationFailed, errors.GetErrorCode(err))
		})
	}
}

func TestOrderItems(t *testing.T) {
	raw := []models.RawOrderItem{
		{OrderID: 2, ProductID: 1, Quantity: 1, UnitPrice: d("10.00"), DiscountPct: d("0")},
		{OrderID: 1, ProductID: 5, Quantity: 3, UnitPrice: d("20.00"), DiscountPct: d("10")},
	}

	staged, err := OrderItems(raw)
	require.NoError(t, err)
	require.Len(t, staged, 2)

	// Sorted by (order id, product id)
	assert.Equal(t, 1, staged[0].OrderID)
	assert.Equal(t, 2, staged[1].OrderID)

	line := staged[0]
	assert.True(t, line.Gross.Equal(d("60.00")))
	assert.True(t, line.DiscountAmount.Equal(d("6.00")))
	assert.True(t, line.Subtotal.Equal(d("54.00")))
}

func TestOrderItemsRejectsContractViolations(t *testing.T) {
	base := models.RawOrderItem{
		OrderID:     1,
		ProductID:   1,
		Quantity:    1,
		UnitPrice:   d("5.00"),
		DiscountPct: d("0"),
	}

	tests := []struct {
		name   string
		mutate func(*models.RawOrderItem)
	}{
		{"zero order id", func(it *models.RawOrderItem) { it.OrderID = 0 }},
		{"zero product id", func(it *models.RawOrderItem) { it.ProductID = 0 }},
		{"zero quantity", func(it *models.RawOrderItem) { it.Quantity = 0 }},
		{"negative unit price", func(it *models.RawOrderItem) { it.UnitPrice = d("-0.01") }},
		{"discount above 100", func(it *models.RawOrderItem) { it.DiscountPct = d("101") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := base
			tt.mutate(&it)
			_, err := OrderItems([]models.RawOrderItem{it})
			require.Error(t, err)
			assert.Equal(t, errors.ErrCodeValidationFailed, errors.GetErrorCode(err))
		})
	}
}
