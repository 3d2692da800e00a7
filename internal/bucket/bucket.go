// Package bucket provides the ordered-threshold classifiers used by the
// staging and rollup stages. Every classifier is total: each valid input
// maps to exactly one bucket, and boundaries are half-open on the lower
// bound.
package bucket

import "github.com/shopspring/decimal"

var (
	ratingAverage   = decimal.NewFromFloat(3.0)
	ratingGood      = decimal.NewFromFloat(4.0)
	ratingExcellent = decimal.NewFromFloat(4.5)

	orderMedium = decimal.NewFromInt(50)
	orderLarge  = decimal.NewFromInt(150)
	orderXL     = decimal.NewFromInt(300)

	spendStandard = decimal.NewFromInt(200)
	spendPremium  = decimal.NewFromInt(500)
	spendVIP      = decimal.NewFromInt(1000)
)

// StockStatus classifies a stock level.
func StockStatus(stock int) string {
	switch {
	case stock == 0:
		return "Out of Stock"
	case stock < 10:
		return "Low Stock"
	case stock < 50:
		return "In Stock"
	default:
		return "Well Stocked"
	}
}

// RatingCategory classifies a product rating.
func RatingCategory(rating decimal.Decimal) string {
	switch {
	case rating.LessThan(ratingAverage):
		return "Poor"
	case rating.LessThan(ratingGood):
		return "Average"
	case rating.LessThan(ratingExcellent):
		return "Good"
	default:
		return "Excellent"
	}
}

// OrderSize classifies an order by its post-discount total.
func OrderSize(total decimal.Decimal) string {
	switch {
	case total.LessThan(orderMedium):
		return "Small"
	case total.LessThan(orderLarge):
		return "Medium"
	case total.LessThan(orderXL):
		return "Large"
	default:
		return "Extra Large"
	}
}

// SalesCategory classifies a product by total quantity sold.
func SalesCategory(quantitySold int) string {
	switch {
	case quantitySold == 0:
		return "No Sales"
	case quantitySold <= 10:
		return "Regular"
	case quantitySold <= 20:
		return "Popular"
	default:
		return "Bestseller"
	}
}

// OrderFrequency classifies a customer by order count.
func OrderFrequency(orderCount int) string {
	switch {
	case orderCount == 0:
		return "Never Ordered"
	case orderCount == 1:
		return "One-Time"
	case orderCount <= 3:
		return "Occasional"
	case orderCount <= 5:
		return "Regular"
	default:
		return "Frequent"
	}
}

// SpendTier classifies a customer by lifetime spend.
func SpendTier(lifetime decimal.Decimal) string {
	switch {
	case lifetime.IsZero():
		return "No Purchase"
	case lifetime.LessThan(spendStandard):
		return "Basic"
	case lifetime.LessThan(spendPremium):
		return "Standard"
	case lifetime.LessThan(spendVIP):
		return "Premium"
	default:
		return "VIP"
	}
}

// AgeGroup classifies a customer age for the demographic dimension.
func AgeGroup(age int) string {
	switch {
	case age < 18:
		return "Under 18"
	case age <= 24:
		return "18-24"
	case age <= 34:
		return "25-34"
	case age <= 49:
		return "35-49"
	default:
		return "50+"
	}
}
