package rollup

import (
	"sort"

	"github.com/shopspring/decimal"

	"martforge/pkg/models"
)

// Orders builds the order fact at order grain.
func Orders(orders []models.StagedOrder) []models.OrderFact {
	facts := make([]models.OrderFact, 0, len(orders))
	for _, o := range orders {
		facts = append(facts, models.OrderFact{
			OrderID:        o.OrderID,
			CustomerID:     o.UserID,
			OrderedAt:      o.OrderedAt,
			Year:           o.Year,
			Month:          o.Month,
			Status:         o.Status,
			IsCompleted:    o.IsCompleted,
			IsCancelled:    o.IsCancelled,
			ItemCount:      o.TotalItems,
			TotalAmount:    o.TotalAmount,
			DiscountAmount: o.DiscountAmount,
			NetAmount:      o.DiscountedAmount,
			OrderSize:      o.OrderSize,
		})
	}

	sort.Slice(facts, func(i, j int) bool { return facts[i].OrderID < facts[j].OrderID })
	return facts
}

// OrderItems builds the order-item fact at line grain. Revenue share is
// the line subtotal over the order's summed line subtotals, zero when the
// order nets to zero.
func OrderItems(items []models.StagedOrderItem, orders []models.StagedOrder) []models.OrderItemFact {
	statusByOrder := make(map[int]string, len(orders))
	for _, o := range orders {
		statusByOrder[o.OrderID] = o.Status
	}

	orderTotals := make(map[int]decimal.Decimal, len(orders))
	for _, it := range items {
		orderTotals[it.OrderID] = orderTotals[it.OrderID].Add(it.Subtotal)
	}

	facts := make([]models.OrderItemFact, 0, len(items))
	for _, it := range items {
		share := decimal.Zero
		if total := orderTotals[it.OrderID]; total.IsPositive() {
			share = it.Subtotal.Div(total).Round(4)
		}

		facts = append(facts, models.OrderItemFact{
			OrderID:        it.OrderID,
			ProductID:      it.ProductID,
			Quantity:       it.Quantity,
			UnitPrice:      it.UnitPrice,
			DiscountPct:    it.DiscountPct,
			Gross:          it.Gross,
			DiscountAmount: it.DiscountAmount,
			Subtotal:       it.Subtotal,
			OrderStatus:    statusByOrder[it.OrderID],
			RevenueShare:   share,
		})
	}

	sort.Slice(facts, func(i, j int) bool {
		if facts[i].OrderID != facts[j].OrderID {
			return facts[i].OrderID < facts[j].OrderID
		}
		return facts[i].ProductID < facts[j].ProductID
	})
	return facts
}
