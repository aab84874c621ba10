package postgres

import "context"

// EnsureSchema creates the tables the server needs when they do not exist
// yet. The stock log has no update path anywhere in the codebase; entries are
// only ever inserted.
func EnsureSchema(ctx context.Context, db *DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS products (
		product_id            TEXT PRIMARY KEY,
		product_name          TEXT NOT NULL,
		category              TEXT NOT NULL DEFAULT '',
		available_sizes       JSONB NOT NULL DEFAULT '[]',
		initial_stock_by_size JSONB NOT NULL DEFAULT '{}',
		prices_by_size        JSONB NOT NULL DEFAULT '{}',
		retail_price          NUMERIC NOT NULL DEFAULT 0,
		wholesale_price       NUMERIC NOT NULL DEFAULT 0,
		created_at            TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at            TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS stock_log (
		log_id          TEXT PRIMARY KEY,
		product_id      TEXT NOT NULL,
		size            TEXT NOT NULL,
		quantity_change INTEGER NOT NULL,
		change_type     TEXT NOT NULL,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_stock_log_product ON stock_log (product_id);

	CREATE TABLE IF NOT EXISTS customers (
		customer_id    TEXT PRIMARY KEY,
		customer_name  TEXT NOT NULL,
		contact_person TEXT NOT NULL DEFAULT '',
		email          TEXT NOT NULL DEFAULT '',
		phone          TEXT NOT NULL DEFAULT '',
		address        TEXT NOT NULL DEFAULT '',
		customer_type  TEXT NOT NULL,
		discount_rate  NUMERIC NOT NULL DEFAULT 0,
		credit_limit   NUMERIC NOT NULL DEFAULT 0,
		payment_terms  TEXT NOT NULL DEFAULT '',
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS orders (
		order_id             TEXT PRIMARY KEY,
		customer_id          TEXT NOT NULL,
		customer_info        JSONB NOT NULL,
		order_date           TIMESTAMPTZ NOT NULL,
		delivery_date        TIMESTAMPTZ NOT NULL,
		items                JSONB NOT NULL,
		subtotal             NUMERIC NOT NULL,
		discount_percent     NUMERIC NOT NULL,
		discount_amount      NUMERIC NOT NULL,
		total_after_discount NUMERIC NOT NULL,
		vat_amount           NUMERIC NOT NULL,
		grand_total          NUMERIC NOT NULL,
		notes                TEXT NOT NULL DEFAULT '',
		status               TEXT NOT NULL,
		created_at           TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_orders_customer ON orders (customer_id);
	CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders (created_at DESC);
	`

	_, err := db.ExecContext(ctx, schema)
	return err
}
