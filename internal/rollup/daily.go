package rollup

import (
	"sort"

	"github.com/shopspring/decimal"

	"martforge/pkg/models"
)

const dateLayout = "2006-01-02"

// Daily builds the per-calendar-date summary. Order and customer counts
// cover every order on the date; revenue, items sold and average order
// value cover completed orders only, with a null average on dates without
// a completed order.
func Daily(orders []models.StagedOrder) []models.DailySummary {
	type dayAgg struct {
		totalOrders     int
		completedOrders int
		cancelledOrders int
		itemsSold       int
		customers       map[int]struct{}
		revenue         decimal.Decimal
	}

	days := make(map[string]*dayAgg)
	for _, o := range orders {
		date := o.OrderedAt.Format(dateLayout)
		agg, ok := days[date]
		if !ok {
			agg = &dayAgg{customers: make(map[int]struct{})}
			days[date] = agg
		}
		agg.totalOrders++
		agg.customers[o.UserID] = struct{}{}
		if o.IsCancelled {
			agg.cancelledOrders++
		}
		if o.IsCompleted {
			agg.completedOrders++
			agg.itemsSold += o.TotalItems
			agg.revenue = agg.revenue.Add(o.DiscountedAmount)
		}
	}

	summaries := make([]models.DailySummary, 0, len(days))
	for date, agg := range days {
		s := models.DailySummary{
			Date:            date,
			TotalOrders:     agg.totalOrders,
			CompletedOrders: agg.completedOrders,
			CancelledOrders: agg.cancelledOrders,
			TotalItemsSold:  agg.itemsSold,
			UniqueCustomers: len(agg.customers),
			TotalRevenue:    agg.revenue,
		}
		if agg.completedOrders > 0 {
			avg := agg.revenue.Div(decimal.NewFromInt(int64(agg.completedOrders))).Round(2)
			s.AvgOrderValue = decimal.NullDecimal{Decimal: avg, Valid: true}
		}
		summaries = append(summaries, s)
	}

	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Date < summaries[j].Date })
	return summaries
}
