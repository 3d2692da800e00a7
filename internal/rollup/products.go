// Package rollup implements the final stage: joining staged and enriched
// relations with aggregated transaction metrics into denormalized
// dimension, fact and summary relations. Every builder returns rows
// sorted by key so repeated runs over the same snapshot are
// byte-identical.
package rollup

import (
	"sort"

	"github.com/shopspring/decimal"

	"martforge/internal/bucket"
	"martforge/pkg/models"
)

type productMetrics struct {
	orders   map[int]struct{}
	quantity int
	revenue  decimal.Decimal
}

// Products builds the product dimension. Sales metrics aggregate over
// every order item regardless of order status; products with no sales
// carry zero metrics, never nulls.
func Products(products []models.StagedProduct, items []models.StagedOrderItem) []models.ProductDim {
	metrics := make(map[int]*productMetrics, len(products))
	for _, it := range items {
		m, ok := metrics[it.ProductID]
		if !ok {
			m = &productMetrics{orders: make(map[int]struct{})}
			metrics[it.ProductID] = m
		}
		m.orders[it.OrderID] = struct{}{}
		m.quantity += it.Quantity
		m.revenue = m.revenue.Add(it.Subtotal)
	}

	dims := make([]models.ProductDim, 0, len(products))
	for _, p := range products {
		dim := models.ProductDim{
			ProductID:       p.ID,
			Name:            p.Name,
			Category:        p.Category,
			Brand:           p.Brand,
			Price:           p.Price,
			DiscountedPrice: p.DiscountedPrice,
			Stock:           p.Stock,
			StockStatus:     p.StockStatus,
			Rating:          p.Rating,
			RatingCategory:  p.RatingCategory,
			TotalRevenue:    decimal.Zero,
		}
		if m, ok := metrics[p.ID]; ok {
			dim.TimesOrdered = len(m.orders)
			dim.TotalQuantitySold = m.quantity
			dim.TotalRevenue = m.revenue
		}
		dim.SalesCategory = bucket.SalesCategory(dim.TotalQuantitySold)
		dims = append(dims, dim)
	}

	sort.Slice(dims, func(i, j int) bool { return dims[i].ProductID < dims[j].ProductID })
	return dims
}
