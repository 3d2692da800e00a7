// Package testutil provides shared fixtures for tests that drive the
// pipeline against a mocked warehouse.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"martforge/internal/warehouse"
	"martforge/pkg/models"
)

// MartTables lists the published mart relations in publish order.
var MartTables = []string{"dim_products", "dim_customers", "fct_orders", "fct_order_items", "daily_summary"}

// MockWarehouse returns a warehouse service backed by sqlmock.
func MockWarehouse(t *testing.T) (*warehouse.Service, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	service := warehouse.NewServiceWithDB(sqlx.NewDb(db, "postgres"), models.Warehouse{
		Host:        "localhost",
		Port:        5432,
		Database:    "warehouse",
		Username:    "martforge",
		RawSchema:   "public",
		MartsSchema: "marts",
		Timeout:     "5s",
	})
	return service, mock
}

// ExpectSampleSnapshot registers load expectations for a small but
// complete raw snapshot: two products, two users (one with a state that
// needs correcting), and three orders across two days covering the
// completed, pending and cancelled statuses.
func ExpectSampleSnapshot(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
	mock.ExpectQuery("FROM public.raw_products").WillReturnRows(
		sqlmock.NewRows([]string{"id", "title", "category", "brand", "sku", "price", "discount_percentage", "rating", "stock"}).
			AddRow(1, "Mouse", "electronics", "Logi", "SKU-1", "20.00", "0", "4.2", 12).
			AddRow(2, "Desk Lamp", "home", "Lumen", "SKU-2", "35.00", "10", "3.1", 0),
	)
	mock.ExpectQuery("FROM public.raw_users").WillReturnRows(
		sqlmock.NewRows([]string{"id", "first_name", "last_name", "age", "gender", "email", "phone", "city", "state", "state_code", "country"}).
			AddRow(7, "Ada", "Lovelace", 36, "Female", "ADA@example.com", "555-0100", "Chicago", "Texas", "TX", "United States").
			AddRow(8, "Alan", "Turing", 41, "Male", "alan@example.com", "", "Bletchley", "", "", "United Kingdom"),
	)
	mock.ExpectQuery("FROM public.raw_orders").WillReturnRows(
		sqlmock.NewRows([]string{"order_id", "user_id", "order_date", "total_amount", "discounted_amount", "total_items", "status"}).
			AddRow(10, 7, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), "40.00", "40.00", 2, "completed").
			AddRow(11, 7, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), "35.00", "31.50", 1, "cancelled").
			AddRow(12, 8, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), "20.00", "20.00", 1, "pending"),
	)
	mock.ExpectQuery("FROM public.raw_order_items").WillReturnRows(
		sqlmock.NewRows([]string{"order_id", "product_id", "product_title", "quantity", "unit_price", "discount_percentage"}).
			AddRow(10, 1, "Mouse", 2, "20.00", "0").
			AddRow(11, 2, "Desk Lamp", 1, "35.00", "10").
			AddRow(12, 1, "Mouse", 1, "20.00", "0"),
	)
	mock.ExpectCommit()
}

// ExpectPublish registers the staging and swap expectations for a
// publish where every mart relation holds at least one row.
func ExpectPublish(mock sqlmock.Sqlmock, keepPrevious bool) {
	mock.ExpectBegin()
	mock.ExpectExec("CREATE SCHEMA IF NOT EXISTS marts").WillReturnResult(sqlmock.NewResult(0, 0))
	for _, table := range MartTables {
		mock.ExpectExec(fmt.Sprintf("DROP TABLE IF EXISTS marts.%s__next", table)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(fmt.Sprintf("CREATE TABLE marts.%s__next", table)).
			WillReturnResult(sqlmock.NewResult(0, 0))
	}
	for _, table := range MartTables {
		mock.ExpectExec(fmt.Sprintf("INSERT INTO marts.%s__next", table)).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	mock.ExpectBegin()
	for _, table := range MartTables {
		mock.ExpectExec(fmt.Sprintf("DROP TABLE IF EXISTS marts.%s__prev", table)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(fmt.Sprintf("ALTER TABLE IF EXISTS marts.%s RENAME TO %s__prev", table, table)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(fmt.Sprintf("ALTER TABLE marts.%s__next RENAME TO %s", table, table)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		if !keepPrevious {
			mock.ExpectExec(fmt.Sprintf("DROP TABLE IF EXISTS marts.%s__prev", table)).
				WillReturnResult(sqlmock.NewResult(0, 0))
		}
	}
	mock.ExpectCommit()
}
