package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"SubTracker/internal/config"
	"SubTracker/internal/domain"
	"SubTracker/internal/extract"
	"SubTracker/internal/infrastructure/alert"
	"SubTracker/internal/infrastructure/fetch"
	"SubTracker/internal/infrastructure/provider"
	"SubTracker/internal/infrastructure/scheduler"
	"SubTracker/internal/infrastructure/storage"
	"SubTracker/internal/logging"
	"SubTracker/internal/normalize"
	"SubTracker/internal/usecase"
)

// Application wires configuration to storage, the scrape pipeline, the
// renewal scan, and the scheduler that drives them.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	store     *storage.PostgresStore
	runner    *usecase.JobRunner
	scheduler *scheduler.Cron
	closePool func()
}

// New builds a runnable application instance.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	pool, err := storage.NewPool(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	store := storage.NewPostgresStore(pool)

	norm := normalize.New(cfg.Pricing.USDToLocal, normalize.UsageProfile{
		InputMTokens:  cfg.Pricing.InputMTokens,
		OutputMTokens: cfg.Pricing.OutputMTokens,
	})

	registry := extract.NewRegistry()
	registry.Register(provider.NewNetflix())
	registry.Register(provider.NewSpotify())
	registry.Register(provider.NewAmazonPrime())
	registry.Register(provider.NewHotstar())
	registry.Register(provider.NewDeepSeek(norm))
	registry.Register(provider.NewGemini())
	registry.Register(provider.NewPerplexity(norm))
	registry.Register(provider.NewWorkspace())
	registry.Register(provider.NewMicrosoft365())

	fetcher := fetch.New(nil,
		cfg.Fetcher.Timeout(),
		cfg.Fetcher.MaxAttempts,
		cfg.Fetcher.BackoffBase(),
		cfg.Fetcher.UserAgent,
		baseLogger.With("component", "fetcher"))

	sink := alert.NewWebhook(cfg.Alerts.WebhookURL)

	pipeline := usecase.NewPipeline(
		catalogEntries(cfg.Catalog),
		fetcher,
		registry,
		store,
		store,
		sink,
		norm,
		cfg.Pricing.Currency,
		baseLogger.With("component", "pipeline"))

	renewals := usecase.NewRenewalScanner(
		store,
		sink,
		cfg.Scheduler.LookaheadDays,
		cfg.Scheduler.Location(),
		baseLogger.With("component", "renewals"))

	runner := usecase.NewJobRunner(pipeline, renewals, cfg.Scheduler.Location(),
		baseLogger.With("component", "jobs"))

	cronScheduler := scheduler.New(runner,
		cfg.Scheduler.ScrapeAt,
		cfg.Scheduler.RenewalScanAt,
		cfg.Scheduler.ScrapeEveryHrs,
		cfg.Scheduler.Location(),
		baseLogger.With("component", "scheduler"))

	return &Application{
		cfg:       cfg,
		logger:    baseLogger,
		store:     store,
		runner:    runner,
		scheduler: cronScheduler,
		closePool: pool.Close,
	}, nil
}

// Run prepares storage, starts the scheduler, and blocks until ctx is
// cancelled.
func (a *Application) Run(ctx context.Context) error {
	if err := a.store.EnsureSchema(ctx); err != nil {
		return err
	}
	for _, entry := range a.cfg.Catalog {
		if err := a.store.SeedCatalogEntry(ctx, entry.ID, entry.Name, entry.Category, entry.URL); err != nil {
			return err
		}
	}

	if err := a.scheduler.Start(ctx); err != nil {
		return err
	}
	a.logger.Info("application started", "providers", len(a.cfg.Catalog))

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := a.scheduler.Stop(stopCtx); err != nil {
		a.logger.Warn("scheduler stop timed out", "error", err)
	}
	a.closePool()
	a.logger.Info("application stopped")
	return nil
}

// TriggerScrape starts a scrape batch outside the schedule, reporting
// whether it actually ran.
func (a *Application) TriggerScrape(ctx context.Context) bool {
	return a.runner.RunScrape(ctx)
}

// Status snapshots the recurring jobs.
func (a *Application) Status() usecase.JobStatus {
	return a.runner.Status()
}

func catalogEntries(providers []config.ProviderEntry) []domain.CatalogEntry {
	entries := make([]domain.CatalogEntry, 0, len(providers))
	for _, p := range providers {
		entries = append(entries, domain.CatalogEntry{
			ProviderID: p.ID,
			Name:       p.Name,
			Category:   p.Category,
			URL:        p.URL,
		})
	}
	return entries
}
