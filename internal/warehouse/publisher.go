package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"martforge/pkg/errors"
	"martforge/pkg/models"
)

// martTables lists the published relations in publish order.
var martTables = []string{
	"dim_products",
	"dim_customers",
	"fct_orders",
	"fct_order_items",
	"daily_summary",
}

var martDDL = map[string]string{
	"dim_products": `(
		product_id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT,
		brand TEXT,
		price NUMERIC(12,2) NOT NULL,
		discounted_price NUMERIC(12,2) NOT NULL,
		stock INTEGER NOT NULL,
		stock_status TEXT NOT NULL,
		rating NUMERIC(4,2) NOT NULL,
		rating_category TEXT NOT NULL,
		times_ordered INTEGER NOT NULL,
		total_quantity_sold INTEGER NOT NULL,
		total_revenue NUMERIC(14,2) NOT NULL,
		sales_category TEXT NOT NULL
	)`,
	"dim_customers": `(
		customer_id INTEGER PRIMARY KEY,
		full_name TEXT NOT NULL,
		email TEXT,
		phone TEXT,
		age INTEGER NOT NULL,
		age_group TEXT NOT NULL,
		gender TEXT,
		city TEXT,
		state TEXT,
		state_code TEXT,
		location TEXT,
		was_corrected BOOLEAN NOT NULL,
		total_orders INTEGER NOT NULL,
		completed_orders INTEGER NOT NULL,
		lifetime_value NUMERIC(14,2) NOT NULL,
		avg_order_value NUMERIC(12,2),
		order_frequency TEXT NOT NULL,
		spend_tier TEXT NOT NULL
	)`,
	"fct_orders": `(
		order_id INTEGER PRIMARY KEY,
		customer_id INTEGER NOT NULL,
		ordered_at TIMESTAMPTZ NOT NULL,
		year INTEGER NOT NULL,
		month INTEGER NOT NULL,
		status TEXT NOT NULL,
		is_completed BOOLEAN NOT NULL,
		is_cancelled BOOLEAN NOT NULL,
		item_count INTEGER NOT NULL,
		total_amount NUMERIC(12,2) NOT NULL,
		discount_amount NUMERIC(12,2) NOT NULL,
		net_amount NUMERIC(12,2) NOT NULL,
		order_size TEXT NOT NULL
	)`,
	"fct_order_items": `(
		order_id INTEGER NOT NULL,
		product_id INTEGER NOT NULL,
		quantity INTEGER NOT NULL,
		unit_price NUMERIC(12,2) NOT NULL,
		discount_percentage NUMERIC(5,2) NOT NULL,
		gross NUMERIC(12,2) NOT NULL,
		discount_amount NUMERIC(12,2) NOT NULL,
		subtotal NUMERIC(12,2) NOT NULL,
		order_status TEXT NOT NULL,
		revenue_share NUMERIC(8,4) NOT NULL,
		PRIMARY KEY (order_id, product_id)
	)`,
	"daily_summary": `(
		date DATE PRIMARY KEY,
		total_orders INTEGER NOT NULL,
		completed_orders INTEGER NOT NULL,
		cancelled_orders INTEGER NOT NULL,
		total_items_sold INTEGER NOT NULL,
		unique_customers INTEGER NOT NULL,
		total_revenue NUMERIC(14,2) NOT NULL,
		avg_order_value NUMERIC(12,2)
	)`,
}

// Publish replaces the mart relations with the given run output. Each
// table is staged under a __next suffix first; a single transaction then
// swaps every live table to __prev and every __next to live, so readers
// see either the old snapshot or the new one, never a mix. A failure
// before the swap leaves the live tables untouched.
func (s *Service) Publish(ctx context.Context, marts *models.Marts, keepPrevious bool) error {
	if !s.connected {
		return errors.New(errors.ErrCodeConnectionFailed, "Not connected to warehouse").
			WithSuggestions("Call Connect() before publishing")
	}

	if err := s.stageNext(ctx, marts); err != nil {
		return err
	}

	return s.swapNext(ctx, keepPrevious)
}

func (s *Service) stageNext(ctx context.Context, marts *models.Marts) error {
	schema := s.martsSchema()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSQLTransaction, "Failed to begin staging transaction")
	}

	txHandler := s.errorHandler.NewTransactionHandler(tx, tx.Rollback)
	return txHandler.Execute(func() error {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schema)); err != nil {
			return errors.SQLError("Failed to ensure marts schema", schema, err)
		}

		for _, table := range martTables {
			next := fmt.Sprintf("%s.%s__next", schema, table)
			if _, err := tx.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", next)); err != nil {
				return errors.SQLError("Failed to drop stale staging table", next, err)
			}
			if _, err := tx.ExecContext(ctx, fmt.Sprintf("CREATE TABLE %s %s", next, martDDL[table])); err != nil {
				return errors.SQLError("Failed to create staging table", next, err)
			}
		}

		if err := s.insertMarts(ctx, tx, marts); err != nil {
			return err
		}

		if err := tx.Commit(); err != nil {
			return errors.Wrap(err, errors.ErrCodeSQLTransaction, "Failed to commit staging transaction")
		}
		return nil
	})
}

func (s *Service) swapNext(ctx context.Context, keepPrevious bool) error {
	schema := s.martsSchema()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSQLTransaction, "Failed to begin swap transaction")
	}

	txHandler := s.errorHandler.NewTransactionHandler(tx, tx.Rollback)
	return txHandler.Execute(func() error {
		for _, table := range martTables {
			stmts := []string{
				fmt.Sprintf("DROP TABLE IF EXISTS %s.%s__prev", schema, table),
				fmt.Sprintf("ALTER TABLE IF EXISTS %s.%s RENAME TO %s__prev", schema, table, table),
				fmt.Sprintf("ALTER TABLE %s.%s__next RENAME TO %s", schema, table, table),
			}
			if !keepPrevious {
				stmts = append(stmts, fmt.Sprintf("DROP TABLE IF EXISTS %s.%s__prev", schema, table))
			}
			for _, stmt := range stmts {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return errors.SQLError("Failed to swap mart table", stmt, err).
						WithContext("table", table)
				}
			}
		}

		if err := tx.Commit(); err != nil {
			return errors.Wrap(err, errors.ErrCodeSQLTransaction, "Failed to commit swap transaction")
		}
		return nil
	})
}

// Rollback swaps every mart table with its __prev snapshot, restoring the
// previous run's output. The swap is symmetric, so rolling back twice
// returns to the current snapshot.
func (s *Service) Rollback(ctx context.Context) error {
	if !s.connected {
		return errors.New(errors.ErrCodeConnectionFailed, "Not connected to warehouse").
			WithSuggestions("Call Connect() before rolling back")
	}

	schema := s.martsSchema()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSQLTransaction, "Failed to begin rollback transaction")
	}

	txHandler := s.errorHandler.NewTransactionHandler(tx, tx.Rollback)
	return txHandler.Execute(func() error {
		for _, table := range martTables {
			var exists bool
			query := "SELECT to_regclass($1) IS NOT NULL"
			if err := tx.GetContext(ctx, &exists, query, fmt.Sprintf("%s.%s__prev", schema, table)); err != nil {
				return errors.SQLError("Failed to check previous snapshot", query, err).
					WithContext("table", table)
			}
			if !exists {
				return errors.New(errors.ErrCodeNoPreviousSnapshot, "No previous snapshot to roll back to").
					WithContext("table", table).
					WithSuggestions(
						"Enable keep_previous in the pipeline configuration",
						"Re-run the pipeline to produce a fresh snapshot",
					)
			}
		}

		for _, table := range martTables {
			stmts := []string{
				fmt.Sprintf("ALTER TABLE %s.%s RENAME TO %s__swap", schema, table, table),
				fmt.Sprintf("ALTER TABLE %s.%s__prev RENAME TO %s", schema, table, table),
				fmt.Sprintf("ALTER TABLE %s.%s__swap RENAME TO %s__prev", schema, table, table),
			}
			for _, stmt := range stmts {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return errors.SQLError("Failed to restore mart table", stmt, err).
						WithContext("table", table)
				}
			}
		}

		if err := tx.Commit(); err != nil {
			return errors.Wrap(err, errors.ErrCodeSQLTransaction, "Failed to commit rollback transaction")
		}
		return nil
	})
}

// insertRows writes rows in batches of the configured batch size.
func insertRows(ctx context.Context, tx execer, table string, columns []string, rows [][]interface{}, batchSize int) error {
	if batchSize <= 0 {
		batchSize = 500
	}

	for start := 0; start < len(rows); start += batchSize {
		end := start + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		batch := rows[start:end]

		var sb strings.Builder
		args := make([]interface{}, 0, len(batch)*len(columns))
		fmt.Fprintf(&sb, "INSERT INTO %s (%s) VALUES ", table, strings.Join(columns, ", "))
		for i, row := range batch {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString("(")
			for j := range columns {
				if j > 0 {
					sb.WriteString(", ")
				}
				fmt.Fprintf(&sb, "$%d", len(args)+j+1)
			}
			sb.WriteString(")")
			args = append(args, row...)
		}

		if _, err := tx.ExecContext(ctx, sb.String(), args...); err != nil {
			return errors.SQLError("Failed to insert batch", table, err).
				WithContext("table", table).
				WithContext("batch_start", start)
		}
	}

	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}
