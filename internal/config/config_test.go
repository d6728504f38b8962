package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Scheduler.ScrapeAt != "06:00" || cfg.Scheduler.RenewalScanAt != "08:00" {
		t.Fatalf("unexpected schedule: %s / %s", cfg.Scheduler.ScrapeAt, cfg.Scheduler.RenewalScanAt)
	}
	if cfg.Scheduler.LookaheadDays != 7 {
		t.Fatalf("unexpected lookahead: %d", cfg.Scheduler.LookaheadDays)
	}
	if cfg.Scheduler.Location().String() != "Asia/Kolkata" {
		t.Fatalf("unexpected timezone: %s", cfg.Scheduler.Location())
	}

	if cfg.Fetcher.Timeout() != 15*time.Second {
		t.Fatalf("unexpected fetch timeout: %v", cfg.Fetcher.Timeout())
	}
	if cfg.Fetcher.MaxAttempts != 3 {
		t.Fatalf("unexpected attempts: %d", cfg.Fetcher.MaxAttempts)
	}
	if cfg.Fetcher.BackoffBase() != 2*time.Second {
		t.Fatalf("unexpected backoff base: %v", cfg.Fetcher.BackoffBase())
	}

	if cfg.Pricing.USDToLocal != 83.0 || cfg.Pricing.Currency != "INR" {
		t.Fatalf("unexpected pricing defaults: %+v", cfg.Pricing)
	}

	if len(cfg.Catalog) != 9 {
		t.Fatalf("expected 9 catalog providers, got %d", len(cfg.Catalog))
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_DSN", "postgres://env-host/db")
	t.Setenv("ALERT_WEBHOOK_URL", "https://alerts.example.com/hook")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()

	if cfg.Database.DSN != "postgres://env-host/db" {
		t.Fatalf("DSN override ignored: %s", cfg.Database.DSN)
	}
	if cfg.Alerts.WebhookURL != "https://alerts.example.com/hook" {
		t.Fatalf("webhook override ignored: %s", cfg.Alerts.WebhookURL)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("log level override ignored: %s", cfg.Logging.Level)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	raw := `
scheduler:
  scrapeAt: "05:30"
  scrapeEveryHrs: 6
  timezone: "UTC"
fetcher:
  timeoutMs: 20000
pricing:
  usdToLocal: 90.0
catalog:
  - id: netflix
    name: Netflix
    category: Streaming
    url: https://example.com/netflix
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("SUBTRACKER_CONFIG", path)

	cfg := Load()

	if cfg.Scheduler.ScrapeAt != "05:30" {
		t.Fatalf("scrapeAt override ignored: %s", cfg.Scheduler.ScrapeAt)
	}
	if cfg.Scheduler.ScrapeEveryHrs != 6 {
		t.Fatalf("scrapeEveryHrs override ignored: %d", cfg.Scheduler.ScrapeEveryHrs)
	}
	if cfg.Scheduler.Location().String() != "UTC" {
		t.Fatalf("timezone override ignored: %s", cfg.Scheduler.Location())
	}
	if cfg.Fetcher.Timeout() != 20*time.Second {
		t.Fatalf("timeout override ignored: %v", cfg.Fetcher.Timeout())
	}
	if cfg.Pricing.USDToLocal != 90.0 {
		t.Fatalf("fx override ignored: %v", cfg.Pricing.USDToLocal)
	}
	// The renewal scan time keeps its default when the file is silent.
	if cfg.Scheduler.RenewalScanAt != "08:00" {
		t.Fatalf("renewalScanAt default lost: %s", cfg.Scheduler.RenewalScanAt)
	}
	if len(cfg.Catalog) != 1 || cfg.Catalog[0].ID != "netflix" {
		t.Fatalf("catalog override ignored: %+v", cfg.Catalog)
	}
}
