// Package staging implements the cleaning stage: per-entity pure
// transformations from raw snapshot rows into typed, derived staged rows.
// Input-contract violations are rejected, never coerced.
package staging

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"martforge/internal/bucket"
	"martforge/pkg/errors"
	"martforge/pkg/models"
)

var hundred = decimal.NewFromInt(100)

// Products cleans raw product rows. Derived fields: discounted price,
// stock status, rating category. Output is sorted by product id.
func Products(raw []models.RawProduct) ([]models.StagedProduct, error) {
	staged := make([]models.StagedProduct, 0, len(raw))

	for _, p := range raw {
		if err := validateProduct(p); err != nil {
			return nil, err
		}

		discounted := p.Price.Mul(hundred.Sub(p.DiscountPct)).Div(hundred).Round(2)

		staged = append(staged, models.StagedProduct{
			ID:              p.ID,
			Name:            strings.TrimSpace(p.Title),
			Category:        strings.TrimSpace(p.Category),
			Brand:           strings.TrimSpace(p.Brand),
			Price:           p.Price,
			DiscountPct:     p.DiscountPct,
			DiscountedPrice: discounted,
			Stock:           p.Stock,
			StockStatus:     bucket.StockStatus(p.Stock),
			Rating:          p.Rating,
			RatingCategory:  bucket.RatingCategory(p.Rating),
		})
	}

	sort.Slice(staged, func(i, j int) bool { return staged[i].ID < staged[j].ID })
	return staged, nil
}

func validateProduct(p models.RawProduct) error {
	if p.ID <= 0 {
		return errors.ValidationError("product.id", p.ID, "must be a positive identifier")
	}
	if p.Price.IsNegative() {
		return errors.ValidationError("product.price", p.Price.String(), "must not be negative").
			WithContext("product_id", p.ID)
	}
	if p.Stock < 0 {
		return errors.ValidationError("product.stock", p.Stock, "must not be negative").
			WithContext("product_id", p.ID)
	}
	if p.DiscountPct.IsNegative() || p.DiscountPct.GreaterThan(hundred) {
		return errors.ValidationError("product.discount_percentage", p.DiscountPct.String(), "must be within [0,100]").
			WithContext("product_id", p.ID)
	}
	if p.Rating.IsNegative() || p.Rating.GreaterThan(decimal.NewFromInt(5)) {
		return errors.ValidationError("product.rating", p.Rating.String(), "must be within [0,5]").
			WithContext("product_id", p.ID)
	}
	return nil
}
