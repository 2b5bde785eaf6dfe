package postgres

var schema = []string{
	`CREATE TABLE IF NOT EXISTS stores (
		store_id    TEXT PRIMARY KEY,
		store_name  TEXT NOT NULL,
		location    TEXT NOT NULL DEFAULT '',
		manager     TEXT NOT NULL DEFAULT '',
		total_value NUMERIC(14, 2) NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		product_id     TEXT NOT NULL,
		store_id       TEXT NOT NULL,
		name           TEXT NOT NULL,
		category       TEXT NOT NULL DEFAULT '',
		current_stock  INTEGER NOT NULL CHECK (current_stock >= 0),
		min_threshold  INTEGER NOT NULL CHECK (min_threshold >= 0),
		max_capacity   INTEGER NOT NULL CHECK (max_capacity >= min_threshold),
		price          NUMERIC(12, 2) NOT NULL DEFAULT 0,
		last_restocked TEXT NOT NULL DEFAULT '',
		trend          TEXT NOT NULL DEFAULT 'stable',
		holiday_impact DOUBLE PRECISION NOT NULL DEFAULT 1,
		PRIMARY KEY (store_id, product_id)
	)`,
	`CREATE TABLE IF NOT EXISTS sales_history (
		product_id TEXT NOT NULL,
		store_id   TEXT NOT NULL,
		date       DATE NOT NULL,
		units_sold INTEGER NOT NULL CHECK (units_sold >= 0),
		revenue    NUMERIC(12, 2) NOT NULL DEFAULT 0,
		PRIMARY KEY (product_id, store_id, date)
	)`,
	`CREATE TABLE IF NOT EXISTS holidays (
		holiday_name        TEXT NOT NULL,
		date                DATE NOT NULL,
		impact_multiplier   DOUBLE PRECISION NOT NULL DEFAULT 1,
		affected_categories TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (holiday_name, date)
	)`,
	`CREATE TABLE IF NOT EXISTS warehouse_inventory (
		product_name       TEXT PRIMARY KEY,
		available_stock    INTEGER NOT NULL CHECK (available_stock >= 0),
		warehouse_location TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS store_distances (
		store1_id   TEXT NOT NULL,
		store2_id   TEXT NOT NULL,
		distance_km DOUBLE PRECISION NOT NULL CHECK (distance_km >= 0),
		PRIMARY KEY (store1_id, store2_id)
	)`,
	`CREATE TABLE IF NOT EXISTS transfer_history (
		transfer_id  TEXT PRIMARY KEY,
		from_store   TEXT NOT NULL,
		to_store     TEXT NOT NULL,
		product_name TEXT NOT NULL,
		quantity     DOUBLE PRECISION NOT NULL,
		status       TEXT NOT NULL,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		completed_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS pending_orders (
		order_id           TEXT PRIMARY KEY,
		store_id           TEXT NOT NULL,
		product_name       TEXT NOT NULL,
		quantity           INTEGER NOT NULL,
		urgency            TEXT NOT NULL,
		status             TEXT NOT NULL,
		created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		estimated_delivery TIMESTAMPTZ NOT NULL
	)`,
}
