package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"SubTracker/internal/domain"
	"SubTracker/internal/ports"
)

// psql builds queries with $1-style placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgresStore persists subscriptions, plans, price history, and reads
// the externally owned watchlist and renewal tables.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var (
	_ ports.CatalogStore    = (*PostgresStore)(nil)
	_ ports.WatchlistSource = (*PostgresStore)(nil)
	_ ports.RenewalSource   = (*PostgresStore)(nil)
)

// NewPostgresStore wires a connection pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// NewPool opens a pgx pool and verifies connectivity.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return pool, nil
}

// SubscriptionByName finds the tracked subscription row, returning nil
// without error when the name is unknown.
func (s *PostgresStore) SubscriptionByName(ctx context.Context, name string) (*domain.Subscription, error) {
	query, args, err := psql.
		Select("id", "name", "category", "price_monthly", "price_yearly", "currency", "last_scraped_at").
		From("subscriptions").
		Where(sq.Eq{"name": name}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var sub domain.Subscription
	row := s.pool.QueryRow(ctx, query, args...)
	err = row.Scan(&sub.ID, &sub.Name, &sub.Category, &sub.PriceMonthly, &sub.PriceYearly,
		&sub.Currency, &sub.LastScrapedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan subscription: %w", err)
	}

	return &sub, nil
}

// EnsureSubscription creates the subscription row when missing and
// returns it either way.
func (s *PostgresStore) EnsureSubscription(ctx context.Context, name, category, currency string) (*domain.Subscription, error) {
	query, args, err := psql.
		Insert("subscriptions").
		Columns("name", "category", "currency").
		Values(name, category, currency).
		Suffix(`ON CONFLICT (name) DO UPDATE SET category = EXCLUDED.category
			RETURNING id, name, category, price_monthly, price_yearly, currency, last_scraped_at`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var sub domain.Subscription
	row := s.pool.QueryRow(ctx, query, args...)
	if err := row.Scan(&sub.ID, &sub.Name, &sub.Category, &sub.PriceMonthly, &sub.PriceYearly,
		&sub.Currency, &sub.LastScrapedAt); err != nil {
		return nil, fmt.Errorf("ensure subscription: %w", err)
	}

	return &sub, nil
}

// UpsertPlan inserts or refreshes one plan row, keyed by subscription
// and plan name.
func (s *PostgresStore) UpsertPlan(ctx context.Context, plan domain.Plan) error {
	query, args, err := psql.
		Insert("subscription_plans").
		Columns("subscription_id", "plan_name", "price_monthly", "price_yearly", "currency",
			"video_quality", "max_screens", "download_devices", "has_ads", "device_types",
			"extra_features", "features", "is_active", "last_scraped_at").
		Values(plan.SubscriptionID, plan.PlanName, plan.PriceMonthly, plan.PriceYearly, plan.Currency,
			plan.VideoQuality, plan.MaxScreens, plan.DownloadDevices, plan.HasAds, plan.DeviceTypes,
			plan.ExtraFeatures, plan.Features, plan.IsActive, plan.LastScrapedAt).
		Suffix(`ON CONFLICT (subscription_id, plan_name) DO UPDATE SET
			price_monthly = EXCLUDED.price_monthly,
			price_yearly = EXCLUDED.price_yearly,
			currency = EXCLUDED.currency,
			video_quality = EXCLUDED.video_quality,
			max_screens = EXCLUDED.max_screens,
			download_devices = EXCLUDED.download_devices,
			has_ads = EXCLUDED.has_ads,
			device_types = EXCLUDED.device_types,
			extra_features = EXCLUDED.extra_features,
			features = EXCLUDED.features,
			is_active = EXCLUDED.is_active,
			last_scraped_at = EXCLUDED.last_scraped_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert plan: %w", err)
	}
	return nil
}

// ActivePlans lists the active plan rows for one subscription.
func (s *PostgresStore) ActivePlans(ctx context.Context, subscriptionID int64) ([]domain.Plan, error) {
	query, args, err := psql.
		Select("id", "subscription_id", "plan_name", "price_monthly", "price_yearly", "currency",
			"video_quality", "max_screens", "download_devices", "has_ads", "device_types",
			"extra_features", "features", "is_active", "last_scraped_at").
		From("subscription_plans").
		Where(sq.Eq{"subscription_id": subscriptionID, "is_active": true}).
		OrderBy("price_monthly").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query plans: %w", err)
	}
	defer rows.Close()

	var plans []domain.Plan
	for rows.Next() {
		var p domain.Plan
		if err := rows.Scan(&p.ID, &p.SubscriptionID, &p.PlanName, &p.PriceMonthly, &p.PriceYearly,
			&p.Currency, &p.VideoQuality, &p.MaxScreens, &p.DownloadDevices, &p.HasAds,
			&p.DeviceTypes, &p.ExtraFeatures, &p.Features, &p.IsActive, &p.LastScrapedAt); err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return plans, nil
}

// SetHeadline writes the subscription's representative prices.
func (s *PostgresStore) SetHeadline(ctx context.Context, subscriptionID int64, monthly, yearly float64, scrapedAt time.Time) error {
	query, args, err := psql.
		Update("subscriptions").
		Set("price_monthly", monthly).
		Set("price_yearly", yearly).
		Set("last_scraped_at", scrapedAt).
		Where(sq.Eq{"id": subscriptionID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("update headline: %w", err)
	}
	return nil
}

// AppendPriceHistory records the price that was in effect before a
// change.
func (s *PostgresStore) AppendPriceHistory(ctx context.Context, rec domain.PriceHistory) error {
	query, args, err := psql.
		Insert("price_history").
		Columns("subscription_id", "price_monthly", "price_yearly", "currency", "recorded_at").
		Values(rec.SubscriptionID, rec.PriceMonthly, rec.PriceYearly, rec.Currency, rec.RecordedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert history: %w", err)
	}
	return nil
}

// TouchCatalogFetch stamps the catalog entry's last fetch time.
func (s *PostgresStore) TouchCatalogFetch(ctx context.Context, providerID string, at time.Time) error {
	query, args, err := psql.
		Update("catalog_entries").
		Set("last_fetch_at", at).
		Where(sq.Eq{"provider_id": providerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("touch catalog: %w", err)
	}
	return nil
}

// Watchlist lists users interested in one subscription's price.
func (s *PostgresStore) Watchlist(ctx context.Context, subscriptionID int64) ([]domain.WatchlistEntry, error) {
	query, args, err := psql.
		Select("id", "subscription_id", "user_email", "target_price", "notify_on_drop").
		From("watchlist").
		Where(sq.Eq{"subscription_id": subscriptionID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query watchlist: %w", err)
	}
	defer rows.Close()

	var entries []domain.WatchlistEntry
	for rows.Next() {
		var e domain.WatchlistEntry
		if err := rows.Scan(&e.ID, &e.SubscriptionID, &e.UserEmail, &e.TargetPrice, &e.NotifyOnDrop); err != nil {
			return nil, fmt.Errorf("scan watchlist entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return entries, nil
}

// UpcomingRenewals lists active user subscriptions renewing inside the
// window, both bounds inclusive.
func (s *PostgresStore) UpcomingRenewals(ctx context.Context, from, to time.Time) ([]domain.RenewalRecord, error) {
	query, args, err := psql.
		Select("id", "user_email", "subscription_name", "renewal_date", "reminder_days_before", "is_active").
		From("user_subscriptions").
		Where(sq.Eq{"is_active": true}).
		Where(sq.GtOrEq{"renewal_date": from}).
		Where(sq.LtOrEq{"renewal_date": to}).
		OrderBy("renewal_date").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query renewals: %w", err)
	}
	defer rows.Close()

	var records []domain.RenewalRecord
	for rows.Next() {
		var r domain.RenewalRecord
		if err := rows.Scan(&r.ID, &r.UserEmail, &r.SubscriptionName, &r.RenewalDate,
			&r.ReminderDaysBefore, &r.IsActive); err != nil {
			return nil, fmt.Errorf("scan renewal: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return records, nil
}
