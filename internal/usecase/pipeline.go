package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"SubTracker/internal/domain"
	"SubTracker/internal/extract"
	"SubTracker/internal/normalize"
	"SubTracker/internal/ports"
)

// Pipeline runs the scrape batch: fetch each catalog page, extract raw
// plans, normalize prices, persist, and fan out price-drop alerts.
type Pipeline struct {
	catalog  []domain.CatalogEntry
	fetcher  ports.PageFetcher
	registry *extract.Registry
	store    ports.CatalogStore
	watch    ports.WatchlistSource
	alerts   ports.AlertSink
	norm     *normalize.Normalizer
	currency string
	logger   *slog.Logger
}

// NewPipeline wires the scrape dependencies.
func NewPipeline(
	catalog []domain.CatalogEntry,
	fetcher ports.PageFetcher,
	registry *extract.Registry,
	store ports.CatalogStore,
	watch ports.WatchlistSource,
	alerts ports.AlertSink,
	norm *normalize.Normalizer,
	currency string,
	logger *slog.Logger,
) *Pipeline {
	return &Pipeline{
		catalog:  catalog,
		fetcher:  fetcher,
		registry: registry,
		store:    store,
		watch:    watch,
		alerts:   alerts,
		norm:     norm,
		currency: currency,
		logger:   logger,
	}
}

// FullScrape walks the catalog sequentially. A provider failure is
// logged and skipped; the batch keeps going. The returned error is
// non-nil only when every provider failed.
func (p *Pipeline) FullScrape(ctx context.Context) error {
	if len(p.catalog) == 0 {
		return nil
	}

	p.logger.Info("scrape batch started", "providers", len(p.catalog))
	started := time.Now()

	var failures int
	for _, entry := range p.catalog {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.scrapeProvider(ctx, entry); err != nil {
			failures++
			p.logger.Error("provider scrape failed", "provider", entry.ProviderID, "error", err)
		}
	}

	p.logger.Info("scrape batch finished",
		"providers", len(p.catalog),
		"failures", failures,
		"elapsed", time.Since(started))

	if failures == len(p.catalog) {
		return fmt.Errorf("all %d providers failed", failures)
	}
	return nil
}

func (p *Pipeline) scrapeProvider(ctx context.Context, entry domain.CatalogEntry) error {
	extractor, err := p.registry.Resolve(entry.ProviderID)
	if err != nil {
		return err
	}

	doc, err := p.fetcher.Fetch(ctx, entry.URL)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", entry.URL, err)
	}

	raw, err := extractor.Extract(doc)
	if err != nil {
		return fmt.Errorf("extract %s: %w", entry.ProviderID, err)
	}

	sub, err := p.store.EnsureSubscription(ctx, entry.Name, entry.Category, p.currency)
	if err != nil {
		return err
	}

	now := time.Now()
	for _, rp := range raw {
		monthly, yearly := p.norm.Reconcile(rp.PriceMonthly, rp.PriceYearly)
		plan := domain.Plan{
			SubscriptionID:  sub.ID,
			PlanName:        rp.PlanName,
			PriceMonthly:    monthly,
			PriceYearly:     yearly,
			Currency:        p.currency,
			VideoQuality:    rp.VideoQuality,
			MaxScreens:      rp.MaxScreens,
			DownloadDevices: rp.DownloadDevices,
			HasAds:          rp.HasAds,
			DeviceTypes:     rp.DeviceTypes,
			ExtraFeatures:   rp.ExtraFeatures,
			Features:        rp.Features,
			IsActive:        true,
			LastScrapedAt:   now,
		}
		if err := p.store.UpsertPlan(ctx, plan); err != nil {
			return err
		}
	}

	if err := p.updateHeadline(ctx, sub, entry, now); err != nil {
		return err
	}

	if err := p.store.TouchCatalogFetch(ctx, entry.ProviderID, now); err != nil {
		p.logger.Warn("catalog touch failed", "provider", entry.ProviderID, "error", err)
	}

	p.logger.Info("provider scraped", "provider", entry.ProviderID, "plans", len(raw))
	return nil
}

// updateHeadline recomputes the subscription's representative price as
// the cheapest paid active plan, records the outgoing price in history
// when it changes, and fans out drop alerts.
func (p *Pipeline) updateHeadline(ctx context.Context, sub *domain.Subscription, entry domain.CatalogEntry, now time.Time) error {
	plans, err := p.store.ActivePlans(ctx, sub.ID)
	if err != nil {
		return err
	}

	var cheapest *domain.Plan
	for i := range plans {
		if plans[i].PriceMonthly <= 0 {
			continue
		}
		if cheapest == nil || plans[i].PriceMonthly < cheapest.PriceMonthly {
			cheapest = &plans[i]
		}
	}
	if cheapest == nil {
		return fmt.Errorf("no priced plans for %s", entry.ProviderID)
	}

	changed := sub.PriceMonthly == nil || !priceEqual(*sub.PriceMonthly, cheapest.PriceMonthly)
	if changed && sub.PriceMonthly != nil {
		oldYearly := 0.0
		if sub.PriceYearly != nil {
			oldYearly = *sub.PriceYearly
		}
		history := domain.PriceHistory{
			SubscriptionID: sub.ID,
			PriceMonthly:   *sub.PriceMonthly,
			PriceYearly:    oldYearly,
			Currency:       sub.Currency,
			RecordedAt:     now,
		}
		if err := p.store.AppendPriceHistory(ctx, history); err != nil {
			return err
		}
	}

	if err := p.store.SetHeadline(ctx, sub.ID, cheapest.PriceMonthly, cheapest.PriceYearly, now); err != nil {
		return err
	}

	if changed && sub.PriceMonthly != nil && cheapest.PriceMonthly < *sub.PriceMonthly {
		p.fanOutPriceDrop(ctx, sub, *sub.PriceMonthly, cheapest.PriceMonthly)
	}

	return nil
}

// fanOutPriceDrop alerts watchers who opted into drop notifications and
// whose target price, when set, is met. Send failures are logged per
// watcher; one bad address must not silence the rest.
func (p *Pipeline) fanOutPriceDrop(ctx context.Context, sub *domain.Subscription, oldPrice, newPrice float64) {
	entries, err := p.watch.Watchlist(ctx, sub.ID)
	if err != nil {
		p.logger.Error("watchlist read failed", "subscription", sub.Name, "error", err)
		return
	}

	for _, e := range entries {
		if !e.NotifyOnDrop {
			continue
		}
		if e.TargetPrice != nil && newPrice > *e.TargetPrice {
			continue
		}

		req := domain.AlertRequest{
			Kind:             domain.AlertPriceDrop,
			UserEmail:        e.UserEmail,
			SubscriptionName: sub.Name,
			OldPrice:         oldPrice,
			NewPrice:         newPrice,
			Message: fmt.Sprintf("%s price dropped from %.2f to %.2f %s",
				sub.Name, oldPrice, newPrice, sub.Currency),
		}
		if err := p.alerts.Send(ctx, req); err != nil {
			p.logger.Error("price drop alert failed", "user", e.UserEmail, "error", err)
		}
	}
}

func priceEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.005
}
