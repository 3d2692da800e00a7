package bucket

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestStockStatus(t *testing.T) {
	tests := []struct {
		name     string
		stock    int
		expected string
	}{
		{"zero stock", 0, "Out of Stock"},
		{"single unit", 1, "Low Stock"},
		{"just below low boundary", 9, "Low Stock"},
		{"boundary ten is in stock", 10, "In Stock"},
		{"just below well stocked", 49, "In Stock"},
		{"boundary fifty is well stocked", 50, "Well Stocked"},
		{"large stock", 500, "Well Stocked"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StockStatus(tt.stock))
		})
	}
}

func TestRatingCategory(t *testing.T) {
	tests := []struct {
		name     string
		rating   string
		expected string
	}{
		{"lowest rating", "0", "Poor"},
		{"just below average", "2.99", "Poor"},
		{"boundary three is average", "3.0", "Average"},
		{"just below good", "3.99", "Average"},
		{"boundary four is good", "4.0", "Good"},
		{"just below excellent", "4.49", "Good"},
		{"boundary is excellent", "4.5", "Excellent"},
		{"perfect rating", "5.0", "Excellent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RatingCategory(decimal.RequireFromString(tt.rating)))
		})
	}
}

func TestOrderSize(t *testing.T) {
	tests := []struct {
		name     string
		total    string
		expected string
	}{
		{"small order", "10.00", "Small"},
		{"just below medium", "49.99", "Small"},
		{"boundary fifty is medium", "50.00", "Medium"},
		{"boundary one fifty is large", "150.00", "Large"},
		{"just below extra large", "299.99", "Large"},
		{"boundary three hundred", "300.00", "Extra Large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, OrderSize(decimal.RequireFromString(tt.total)))
		})
	}
}

func TestSalesCategory(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		expected string
	}{
		{"no sales", 0, "No Sales"},
		{"single sale", 1, "Regular"},
		{"regular upper bound", 10, "Regular"},
		{"popular lower bound", 11, "Popular"},
		{"popular upper bound", 20, "Popular"},
		{"bestseller", 21, "Bestseller"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SalesCategory(tt.quantity))
		})
	}
}

func TestOrderFrequency(t *testing.T) {
	tests := []struct {
		name     string
		count    int
		expected string
	}{
		{"never ordered", 0, "Never Ordered"},
		{"one time", 1, "One-Time"},
		{"occasional lower", 2, "Occasional"},
		{"occasional upper", 3, "Occasional"},
		{"regular lower", 4, "Regular"},
		{"regular upper", 5, "Regular"},
		{"frequent", 6, "Frequent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, OrderFrequency(tt.count))
		})
	}
}

func TestSpendTier(t *testing.T) {
	tests := []struct {
		name     string
		lifetime string
		expected string
	}{
		{"no purchase", "0", "No Purchase"},
		{"minimal spend", "0.01", "Basic"},
		{"just below standard", "199.99", "Basic"},
		{"standard lower bound", "200.00", "Standard"},
		{"premium lower bound", "500.00", "Premium"},
		{"just below vip", "999.99", "Premium"},
		{"vip boundary", "1000.00", "VIP"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SpendTier(decimal.RequireFromString(tt.lifetime)))
		})
	}
}

func TestAgeGroup(t *testing.T) {
	tests := []struct {
		name     string
		age      int
		expected string
	}{
		{"minor", 17, "Under 18"},
		{"young adult lower", 18, "18-24"},
		{"young adult upper", 24, "18-24"},
		{"adult", 30, "25-34"},
		{"middle aged", 45, "35-49"},
		{"senior boundary", 50, "50+"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AgeGroup(tt.age))
		})
	}
}
