package domain

import "time"

// CatalogEntry maps a tracked provider to its public pricing page.
type CatalogEntry struct {
	ProviderID string
	Name       string
	Category   string
	URL        string
	LastFetch  time.Time
}

// RawPlan is what an extraction tier pulls out of a pricing page.
// Prices are optional at this stage; the normalizer fills the gaps.
type RawPlan struct {
	PlanName        string
	PriceMonthly    *float64
	PriceYearly     *float64
	VideoQuality    string
	MaxScreens      int
	DownloadDevices int
	HasAds          bool
	DeviceTypes     string
	ExtraFeatures   string
	Features        []string
}

// HasUsableMonthly reports whether the plan carries a monthly price a
// tier run can accept as evidence of successful extraction.
func (p RawPlan) HasUsableMonthly() bool {
	return p.PriceMonthly != nil && *p.PriceMonthly >= 0
}

// Plan is a persisted subscription plan, unique per (subscription, name).
type Plan struct {
	ID              int64
	SubscriptionID  int64
	PlanName        string
	PriceMonthly    float64
	PriceYearly     float64
	Currency        string
	VideoQuality    string
	MaxScreens      int
	DownloadDevices int
	HasAds          bool
	DeviceTypes     string
	ExtraFeatures   string
	Features        []string
	IsActive        bool
	LastScrapedAt   time.Time
}

// Subscription is the tracked service. PriceMonthly is derived, the
// minimum monthly price among its active plans after every scrape; it
// is nil until the first successful scrape.
type Subscription struct {
	ID            int64
	Name          string
	Category      string
	PriceMonthly  *float64
	PriceYearly   *float64
	Currency      string
	LastScrapedAt *time.Time
}

// PriceHistory is an append-only snapshot written when a subscription's
// headline price changes. It records the price that was replaced.
type PriceHistory struct {
	ID             int64
	SubscriptionID int64
	PriceMonthly   float64
	PriceYearly    float64
	Currency       string
	RecordedAt     time.Time
}

// Float makes optional prices in RawPlan literals less noisy.
func Float(v float64) *float64 { return &v }
