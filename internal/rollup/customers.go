package rollup

import (
	"sort"

	"github.com/shopspring/decimal"

	"martforge/internal/bucket"
	"martforge/pkg/models"
)

type customerMetrics struct {
	totalOrders     int
	completedOrders int
	lifetimeValue   decimal.Decimal
}

// Customers builds the customer dimension. Lifetime value and average
// order value aggregate over completed orders only, while order counts
// cover every order. A customer with no completed orders has a null
// average order value.
func Customers(users []models.EnrichedUser, orders []models.StagedOrder) []models.CustomerDim {
	metrics := make(map[int]*customerMetrics, len(users))
	for _, o := range orders {
		m, ok := metrics[o.UserID]
		if !ok {
			m = &customerMetrics{}
			metrics[o.UserID] = m
		}
		m.totalOrders++
		if o.IsCompleted {
			m.completedOrders++
			m.lifetimeValue = m.lifetimeValue.Add(o.DiscountedAmount)
		}
	}

	dims := make([]models.CustomerDim, 0, len(users))
	for _, u := range users {
		dim := models.CustomerDim{
			CustomerID:    u.ID,
			FullName:      u.FullName,
			Email:         u.Email,
			Phone:         u.Phone,
			Age:           u.Age,
			AgeGroup:      u.AgeGroup,
			Gender:        u.Gender,
			City:          u.City,
			State:         u.CorrectedState,
			StateCode:     u.CorrectedStateCode,
			Location:      u.Location,
			WasCorrected:  u.WasCorrected,
			LifetimeValue: decimal.Zero,
		}
		if m, ok := metrics[u.ID]; ok {
			dim.TotalOrders = m.totalOrders
			dim.CompletedOrders = m.completedOrders
			dim.LifetimeValue = m.lifetimeValue
			if m.completedOrders > 0 {
				avg := m.lifetimeValue.Div(decimal.NewFromInt(int64(m.completedOrders))).Round(2)
				dim.AvgOrderValue = decimal.NullDecimal{Decimal: avg, Valid: true}
			}
		}
		dim.OrderFrequency = bucket.OrderFrequency(dim.TotalOrders)
		dim.SpendTier = bucket.SpendTier(dim.LifetimeValue)
		dims = append(dims, dim)
	}

	sort.Slice(dims, func(i, j int) bool { return dims[i].CustomerID < dims[j].CustomerID })
	return dims
}
