package core_test

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"po-generator/internal/core"
	"po-generator/internal/db"
	"po-generator/migrations"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	_ = godotenv.Load("../../.env")

	// Use a dedicated TEST database to avoid wiping the live app database.
	// Set TEST_DATABASE_URL in your .env or environment to run integration tests.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test to protect live database")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.Migrate(ctx, pool, migrations.FS, zap.NewNop()); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	// Clean and seed test DB
	_, err = pool.Exec(ctx, `
		TRUNCATE TABLE purchase_order_line_items, purchase_orders, po_number_sequences,
		               saved_vendors, saved_line_items, line_items, vendors, users
		RESTART IDENTITY CASCADE;

		INSERT INTO users (id, username, first_name, last_name, password_hash, is_staff)
		VALUES (1, 'alice', 'Alice', 'Nguyen', 'x', true),
		       (2, 'bob', '', '', 'x', false);
		SELECT setval('users_id_seq', 2);

		INSERT INTO vendors (name, address, city, state, zip_code, country)
		VALUES ('Acme Corp', '1 Main St', 'Springfield', 'IL', '60001', 'US');
	`)
	if err != nil {
		t.Fatalf("Failed to seed test database: %v", err)
	}

	return pool
}

func mustLineItem(t *testing.T, svc core.LineItemService, qty, desc, rate string) *core.LineItem {
	t.Helper()
	li, err := svc.CreateLineItem(context.Background(), core.LineItemInput{
		Quantity:    decimal.RequireFromString(qty),
		Description: desc,
		Rate:        decimal.RequireFromString(rate),
	})
	if err != nil {
		t.Fatalf("CreateLineItem %s: %v", desc, err)
	}
	return li
}
