package staging

import (
	"sort"

	"github.com/shopspring/decimal"

	"martforge/pkg/errors"
	"martforge/pkg/models"
)

// OrderItems cleans raw order line rows. The line subtotal is always
// recomputed from quantity, unit price and discount; any total carried by
// the extraction layer is ignored. Output is sorted by (order id,
// product id).
func OrderItems(raw []models.RawOrderItem) ([]models.StagedOrderItem, error) {
	staged := make([]models.StagedOrderItem, 0, len(raw))

	for _, it := range raw {
		if err := validateOrderItem(it); err != nil {
			return nil, err
		}

		gross := it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
		discount := gross.Mul(it.DiscountPct).Div(hundred).Round(2)

		staged = append(staged, models.StagedOrderItem{
			OrderID:        it.OrderID,
			ProductID:      it.ProductID,
			Quantity:       it.Quantity,
			UnitPrice:      it.UnitPrice,
			DiscountPct:    it.DiscountPct,
			Gross:          gross,
			DiscountAmount: discount,
			Subtotal:       gross.Sub(discount),
		})
	}

	sort.Slice(staged, func(i, j int) bool {
		if staged[i].OrderID != staged[j].OrderID {
			return staged[i].OrderID < staged[j].OrderID
		}
		return staged[i].ProductID < staged[j].ProductID
	})
	return staged, nil
}

func validateOrderItem(it models.RawOrderItem) error {
	if it.OrderID <= 0 {
		return errors.ValidationError("order_item.order_id", it.OrderID, "must be a positive identifier")
	}
	if it.ProductID <= 0 {
		return errors.ValidationError("order_item.product_id", it.ProductID, "must be a positive identifier").
			WithContext("order_id", it.OrderID)
	}
	if it.Quantity <= 0 {
		return errors.ValidationError("order_item.quantity", it.Quantity, "must be positive").
			WithContext("order_id", it.OrderID).
			WithContext("product_id", it.ProductID)
	}
	if it.UnitPrice.IsNegative() {
		return errors.ValidationError("order_item.unit_price", it.UnitPrice.String(), "must not be negative").
			WithContext("order_id", it.OrderID).
			WithContext("product_id", it.ProductID)
	}
	if it.DiscountPct.IsNegative() || it.DiscountPct.GreaterThan(hundred) {
		return errors.ValidationError("order_item.discount_percentage", it.DiscountPct.String(), "must be within [0,100]").
			WithContext("order_id", it.OrderID).
			WithContext("product_id", it.ProductID)
	}
	return nil
}
