package ports

import (
	"context"
	"time"

	"github.com/PuerkitoBio/goquery"

	"SubTracker/internal/domain"
)

// PageFetcher retrieves a provider's pricing page as a parsed document.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (*goquery.Document, error)
}

// CatalogStore persists subscriptions, plans and price history.
type CatalogStore interface {
	SubscriptionByName(ctx context.Context, name string) (*domain.Subscription, error)
	EnsureSubscription(ctx context.Context, name, category, currency string) (*domain.Subscription, error)
	UpsertPlan(ctx context.Context, plan domain.Plan) error
	ActivePlans(ctx context.Context, subscriptionID int64) ([]domain.Plan, error)
	SetHeadline(ctx context.Context, subscriptionID int64, monthly, yearly float64, scrapedAt time.Time) error
	AppendPriceHistory(ctx context.Context, rec domain.PriceHistory) error
	TouchCatalogFetch(ctx context.Context, providerID string, at time.Time) error
}

// WatchlistSource reads watchlist interest for a subscription.
type WatchlistSource interface {
	Watchlist(ctx context.Context, subscriptionID int64) ([]domain.WatchlistEntry, error)
}

// RenewalSource reads externally owned user-subscription rows whose
// renewal date falls inside the lookahead window.
type RenewalSource interface {
	UpcomingRenewals(ctx context.Context, from, to time.Time) ([]domain.RenewalRecord, error)
}

// AlertSink receives price-drop and renewal-reminder requests. The
// external system owns persistence and delivery.
type AlertSink interface {
	Send(ctx context.Context, req domain.AlertRequest) error
}

// Scheduler drives recurring jobs.
type Scheduler interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
