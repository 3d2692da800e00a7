package warehouse

import (
	"context"
	"database/sql"
	"fmt"

	"martforge/pkg/errors"
	"martforge/pkg/models"
)

// Snapshot holds the four raw relations loaded for one run.
type Snapshot struct {
	Products   []models.RawProduct
	Users      []models.RawUser
	Orders     []models.RawOrder
	OrderItems []models.RawOrderItem
}

// LoadSnapshot reads all four raw relations inside a single
// repeatable-read transaction so the run sees a consistent view.
func (s *Service) LoadSnapshot(ctx context.Context) (*Snapshot, error) {
	if !s.connected {
		return nil, errors.New(errors.ErrCodeConnectionFailed, "Not connected to warehouse").
			WithSuggestions("Call Connect() before loading snapshots")
	}

	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{
		Isolation: sql.LevelRepeatableRead,
		ReadOnly:  true,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSQLTransaction, "Failed to begin snapshot transaction")
	}
	defer tx.Rollback() //nolint:errcheck

	snap := &Snapshot{}
	schema := s.rawSchema()

	query := fmt.Sprintf(`SELECT id, title, category, brand, sku, price, discount_percentage, rating, stock
		FROM %s.raw_products ORDER BY id`, schema)
	if err := tx.SelectContext(ctx, &snap.Products, query); err != nil {
		return nil, errors.SQLError("Failed to load raw products", query, err)
	}

	query = fmt.Sprintf(`SELECT id, first_name, last_name, age, gender, email, phone, city, state, state_code, country
		FROM %s.raw_users ORDER BY id`, schema)
	if err := tx.SelectContext(ctx, &snap.Users, query); err != nil {
		return nil, errors.SQLError("Failed to load raw users", query, err)
	}

	query = fmt.Sprintf(`SELECT order_id, user_id, order_date, total_amount, discounted_amount, total_items, status
		FROM %s.raw_orders ORDER BY order_id`, schema)
	if err := tx.SelectContext(ctx, &snap.Orders, query); err != nil {
		return nil, errors.SQLError("Failed to load raw orders", query, err)
	}

	query = fmt.Sprintf(`SELECT order_id, product_id, product_title, quantity, unit_price, discount_percentage
		FROM %s.raw_order_items ORDER BY order_id, product_id`, schema)
	if err := tx.SelectContext(ctx, &snap.OrderItems, query); err != nil {
		return nil, errors.SQLError("Failed to load raw order items", query, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSQLTransaction, "Failed to commit snapshot transaction")
	}

	return snap, nil
}
