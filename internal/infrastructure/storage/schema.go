package storage

import (
	"context"
	"fmt"
)

// schemaStatements create the tables owned by this service. The
// watchlist and user_subscriptions tables are shared with the main
// subscription tracker and created here only when absent.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS subscriptions (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		category TEXT NOT NULL DEFAULT '',
		price_monthly DOUBLE PRECISION,
		price_yearly DOUBLE PRECISION,
		currency TEXT NOT NULL DEFAULT 'INR',
		last_scraped_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS subscription_plans (
		id BIGSERIAL PRIMARY KEY,
		subscription_id BIGINT NOT NULL REFERENCES subscriptions(id),
		plan_name TEXT NOT NULL,
		price_monthly DOUBLE PRECISION,
		price_yearly DOUBLE PRECISION,
		currency TEXT NOT NULL DEFAULT 'INR',
		video_quality TEXT NOT NULL DEFAULT '',
		max_screens INT NOT NULL DEFAULT 0,
		download_devices INT NOT NULL DEFAULT 0,
		has_ads BOOLEAN NOT NULL DEFAULT FALSE,
		device_types TEXT NOT NULL DEFAULT '',
		extra_features TEXT NOT NULL DEFAULT '',
		features TEXT[] NOT NULL DEFAULT '{}',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		last_scraped_at TIMESTAMPTZ,
		UNIQUE (subscription_id, plan_name)
	)`,
	`CREATE TABLE IF NOT EXISTS price_history (
		id BIGSERIAL PRIMARY KEY,
		subscription_id BIGINT NOT NULL REFERENCES subscriptions(id),
		price_monthly DOUBLE PRECISION,
		price_yearly DOUBLE PRECISION,
		currency TEXT NOT NULL DEFAULT 'INR',
		recorded_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS catalog_entries (
		provider_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		url TEXT NOT NULL,
		last_fetch_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS watchlist (
		id BIGSERIAL PRIMARY KEY,
		subscription_id BIGINT NOT NULL REFERENCES subscriptions(id),
		user_email TEXT NOT NULL,
		target_price DOUBLE PRECISION,
		notify_on_drop BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS user_subscriptions (
		id BIGSERIAL PRIMARY KEY,
		user_email TEXT NOT NULL,
		subscription_name TEXT NOT NULL,
		renewal_date DATE NOT NULL,
		reminder_days_before INT NOT NULL DEFAULT 3,
		is_active BOOLEAN NOT NULL DEFAULT TRUE
	)`,
}

// EnsureSchema creates missing tables. Statements are idempotent, so
// running it on every start is safe.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// SeedCatalogEntry registers a provider page without disturbing its
// fetch timestamp.
func (s *PostgresStore) SeedCatalogEntry(ctx context.Context, providerID, name, category, url string) error {
	query, args, err := psql.
		Insert("catalog_entries").
		Columns("provider_id", "name", "category", "url").
		Values(providerID, name, category, url).
		Suffix(`ON CONFLICT (provider_id) DO UPDATE SET
			name = EXCLUDED.name,
			category = EXCLUDED.category,
			url = EXCLUDED.url`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("seed catalog entry: %w", err)
	}
	return nil
}
