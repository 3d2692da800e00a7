package pipeline

import (
	"fmt"

	"martforge/internal/warehouse"
	"martforge/pkg/errors"
)

// maxReportedViolations caps how many referential violations a single run
// reports before summarizing the remainder.
const maxReportedViolations = 20

// Referential checks cross-relation integrity: every order references a
// known user, every order item a known order and product. Violations are
// surfaced, never auto-corrected. In strict mode the first violation
// fails the check; otherwise all violations are collected.
func Referential(snap *warehouse.Snapshot, strict bool) []error {
	users := make(map[int]struct{}, len(snap.Users))
	for _, u := range snap.Users {
		users[u.ID] = struct{}{}
	}
	products := make(map[int]struct{}, len(snap.Products))
	for _, p := range snap.Products {
		products[p.ID] = struct{}{}
	}
	orders := make(map[int]struct{}, len(snap.Orders))
	for _, o := range snap.Orders {
		orders[o.OrderID] = struct{}{}
	}

	var violations []error
	add := func(err error) bool {
		violations = append(violations, err)
		return strict
	}

	for _, o := range snap.Orders {
		if _, ok := users[o.UserID]; !ok {
			if add(errors.ReferentialError("order", o.OrderID, "user", o.UserID)) {
				return violations
			}
		}
	}

	for _, it := range snap.OrderItems {
		if _, ok := orders[it.OrderID]; !ok {
			if add(errors.ReferentialError("order item", fmt.Sprintf("%d/%d", it.OrderID, it.ProductID), "order", it.OrderID)) {
				return violations
			}
		}
		if _, ok := products[it.ProductID]; !ok {
			if add(errors.ReferentialError("order item", fmt.Sprintf("%d/%d", it.OrderID, it.ProductID), "product", it.ProductID)) {
				return violations
			}
		}
	}

	return violations
}

// summarizeViolations folds a violation list into a single error carrying
// the first few and the total count.
func summarizeViolations(violations []error) error {
	if len(violations) == 0 {
		return nil
	}

	err := errors.New(errors.ErrCodeReferentialViolation,
		fmt.Sprintf("Referential validation failed with %d violation(s)", len(violations))).
		WithContext("violations", len(violations))

	for i, v := range violations {
		if i >= maxReportedViolations {
			err.WithContext("truncated", len(violations)-maxReportedViolations)
			break
		}
		err.WithContext(fmt.Sprintf("violation_%d", i+1), v.Error())
	}

	return err
}
