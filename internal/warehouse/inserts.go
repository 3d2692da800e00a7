package warehouse

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"martforge/pkg/models"
)

// insertMarts writes every mart relation into its __next staging table.
func (s *Service) insertMarts(ctx context.Context, tx *sqlx.Tx, marts *models.Marts) error {
	schema := s.martsSchema()
	next := func(table string) string { return fmt.Sprintf("%s.%s__next", schema, table) }

	productRows := make([][]interface{}, 0, len(marts.Products))
	for _, p := range marts.Products {
		productRows = append(productRows, []interface{}{
			p.ProductID, p.Name, p.Category, p.Brand, p.Price, p.DiscountedPrice,
			p.Stock, p.StockStatus, p.Rating, p.RatingCategory,
			p.TimesOrdered, p.TotalQuantitySold, p.TotalRevenue, p.SalesCategory,
		})
	}
	if err := insertRows(ctx, tx, next("dim_products"), []string{
		"product_id", "name", "category", "brand", "price", "discounted_price",
		"stock", "stock_status", "rating", "rating_category",
		"times_ordered", "total_quantity_sold", "total_revenue", "sales_category",
	}, productRows, s.batchSize); err != nil {
		return err
	}

	customerRows := make([][]interface{}, 0, len(marts.Customers))
	for _, c := range marts.Customers {
		customerRows = append(customerRows, []interface{}{
			c.CustomerID, c.FullName, c.Email, c.Phone, c.Age, c.AgeGroup, c.Gender,
			c.City, c.State, c.StateCode, c.Location, c.WasCorrected,
			c.TotalOrders, c.CompletedOrders, c.LifetimeValue, c.AvgOrderValue,
			c.OrderFrequency, c.SpendTier,
		})
	}
	if err := insertRows(ctx, tx, next("dim_customers"), []string{
		"customer_id", "full_name", "email", "phone", "age", "age_group", "gender",
		"city", "state", "state_code", "location", "was_corrected",
		"total_orders", "completed_orders", "lifetime_value", "avg_order_value",
		"order_frequency", "spend_tier",
	}, customerRows, s.batchSize); err != nil {
		return err
	}

	orderRows := make([][]interface{}, 0, len(marts.Orders))
	for _, o := range marts.Orders {
		orderRows = append(orderRows, []interface{}{
			o.OrderID, o.CustomerID, o.OrderedAt, o.Year, o.Month, o.Status,
			o.IsCompleted, o.IsCancelled, o.ItemCount,
			o.TotalAmount, o.DiscountAmount, o.NetAmount, o.OrderSize,
		})
	}
	if err := insertRows(ctx, tx, next("fct_orders"), []string{
		"order_id", "customer_id", "ordered_at", "year", "month", "status",
		"is_completed", "is_cancelled", "item_count",
		"total_amount", "discount_amount", "net_amount", "order_size",
	}, orderRows, s.batchSize); err != nil {
		return err
	}

	itemRows := make([][]interface{}, 0, len(marts.OrderItems))
	for _, it := range marts.OrderItems {
		itemRows = append(itemRows, []interface{}{
			it.OrderID, it.ProductID, it.Quantity, it.UnitPrice, it.DiscountPct,
			it.Gross, it.DiscountAmount, it.Subtotal, it.OrderStatus, it.RevenueShare,
		})
	}
	if err := insertRows(ctx, tx, next("fct_order_items"), []string{
		"order_id", "product_id", "quantity", "unit_price", "discount_percentage",
		"gross", "discount_amount", "subtotal", "order_status", "revenue_share",
	}, itemRows, s.batchSize); err != nil {
		return err
	}

	dailyRows := make([][]interface{}, 0, len(marts.Daily))
	for _, day := range marts.Daily {
		dailyRows = append(dailyRows, []interface{}{
			day.Date, day.TotalOrders, day.CompletedOrders, day.CancelledOrders,
			day.TotalItemsSold, day.UniqueCustomers, day.TotalRevenue, day.AvgOrderValue,
		})
	}
	return insertRows(ctx, tx, next("daily_summary"), []string{
		"date", "total_orders", "completed_orders", "cancelled_orders",
		"total_items_sold", "unique_customers", "total_revenue", "avg_order_value",
	}, dailyRows, s.batchSize)
}
