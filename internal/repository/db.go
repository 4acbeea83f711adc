package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of pgx shared by pools, connections and transactions.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// Schema is the PostgreSQL schema of the store. Every statement is idempotent.
const Schema = `
	CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		platform TEXT NOT NULL,
		genre TEXT NOT NULL DEFAULT '',
		price_cents BIGINT NOT NULL CHECK (price_cents >= 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_products_platform ON products(platform);

	CREATE TABLE IF NOT EXISTS discount_codes (
		id UUID PRIMARY KEY,
		code TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		discount_type TEXT NOT NULL CHECK (discount_type IN ('percentage', 'fixed_amount')),
		discount_value BIGINT NOT NULL CHECK (discount_value >= 0),
		min_purchase_amount BIGINT CHECK (min_purchase_amount >= 0),
		max_uses INTEGER CHECK (max_uses >= 0),
		max_uses_per_customer INTEGER CHECK (max_uses_per_customer >= 0),
		valid_from TIMESTAMPTZ,
		valid_until TIMESTAMPTZ,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		uses_count INTEGER NOT NULL DEFAULT 0 CHECK (uses_count >= 0),
		applicable_product_ids TEXT[] NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT discount_codes_uses_within_max CHECK (max_uses IS NULL OR uses_count <= max_uses)
	);

	CREATE TABLE IF NOT EXISTS discount_code_usages (
		id UUID PRIMARY KEY,
		discount_code_id UUID NOT NULL REFERENCES discount_codes(id) ON DELETE RESTRICT,
		order_id UUID NOT NULL,
		customer TEXT NOT NULL DEFAULT '',
		discount_amount BIGINT NOT NULL CHECK (discount_amount >= 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_discount_code_usages_code ON discount_code_usages(discount_code_id);

	CREATE TABLE IF NOT EXISTS orders (
		id UUID PRIMARY KEY,
		customer TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL CHECK (status IN ('pending', 'completed', 'cancelled', 'failed')),
		subtotal_cents BIGINT NOT NULL CHECK (subtotal_cents >= 0),
		discount_code_id UUID REFERENCES discount_codes(id) ON DELETE SET NULL,
		discount_code TEXT,
		discount_cents BIGINT NOT NULL DEFAULT 0 CHECK (discount_cents >= 0),
		total_cents BIGINT NOT NULL CHECK (total_cents >= 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS order_items (
		id UUID PRIMARY KEY,
		order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		product_id TEXT NOT NULL REFERENCES products(id),
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		unit_price_cents BIGINT NOT NULL CHECK (unit_price_cents >= 0)
	);
	CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id);
`

// EnsureSchema creates any missing tables and indexes.
func EnsureSchema(ctx context.Context, db DBTX) error {
	if _, err := db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// PostgreSQL error codes the repositories react to.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func isPgError(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
