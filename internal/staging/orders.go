package staging

import (
	"sort"
	"strings"

	"martforge/internal/bucket"
	"martforge/pkg/errors"
	"martforge/pkg/models"
)

// Orders cleans raw order rows. Derived fields: calendar year/month,
// status flags, discount amount, order size. Output is sorted by order id.
func Orders(raw []models.RawOrder) ([]models.StagedOrder, error) {
	staged := make([]models.StagedOrder, 0, len(raw))

	for _, o := range raw {
		if err := validateOrder(o); err != nil {
			return nil, err
		}

		status := strings.ToLower(strings.TrimSpace(o.Status))

		staged = append(staged, models.StagedOrder{
			OrderID:          o.OrderID,
			UserID:           o.UserID,
			OrderedAt:        o.OrderDate,
			Year:             o.OrderDate.Year(),
			Month:            int(o.OrderDate.Month()),
			TotalAmount:      o.TotalAmount,
			DiscountedAmount: o.DiscountedAmount,
			DiscountAmount:   o.TotalAmount.Sub(o.DiscountedAmount),
			TotalItems:       o.TotalItems,
			Status:           status,
			IsCompleted:      status == models.StatusCompleted,
			IsCancelled:      status == models.StatusCancelled,
			OrderSize:        bucket.OrderSize(o.DiscountedAmount),
		})
	}

	sort.Slice(staged, func(i, j int) bool { return staged[i].OrderID < staged[j].OrderID })
	return staged, nil
}

func validateOrder(o models.RawOrder) error {
	if o.OrderID <= 0 {
		return errors.ValidationError("order.order_id", o.OrderID, "must be a positive identifier")
	}
	if o.UserID <= 0 {
		return errors.ValidationError("order.user_id", o.UserID, "must be a positive identifier").
			WithContext("order_id", o.OrderID)
	}
	if o.OrderDate.IsZero() {
		return errors.ValidationError("order.order_date", o.OrderDate, "must be set").
			WithContext("order_id", o.OrderID)
	}
	if o.TotalAmount.IsNegative() {
		return errors.ValidationError("order.total_amount", o.TotalAmount.String(), "must not be negative").
			WithContext("order_id", o.OrderID)
	}
	if o.DiscountedAmount.IsNegative() {
		return errors.ValidationError("order.discounted_amount", o.DiscountedAmount.String(), "must not be negative").
			WithContext("order_id", o.OrderID)
	}
	if o.DiscountedAmount.GreaterThan(o.TotalAmount) {
		return errors.ValidationError("order.discounted_amount", o.DiscountedAmount.String(),
			"must not exceed total_amount").
			WithContext("order_id", o.OrderID)
	}
	if o.TotalItems < 0 {
		return errors.ValidationError("order.total_items", o.TotalItems, "must not be negative").
			WithContext("order_id", o.OrderID)
	}

	status := strings.ToLower(strings.TrimSpace(o.Status))
	for _, known := range models.KnownStatuses {
		if status == known {
			return nil
		}
	}
	return errors.ValidationError("order.status", o.Status, "is not a recognized order status").
		WithContext("order_id", o.OrderID).
		WithSuggestions("Expected one of: " + strings.Join(models.KnownStatuses, ", "))
}
