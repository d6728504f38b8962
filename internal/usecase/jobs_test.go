package usecase

import (
	"context"
	"testing"
	"time"

	"SubTracker/internal/domain"
	"SubTracker/internal/extract"
)

func newBlockedRunner(block chan struct{}) *JobRunner {
	registry := extract.NewRegistry()
	registry.Register(&fakeExtractor{name: "netflix", plans: []domain.RawPlan{
		{PlanName: "Basic", PriceMonthly: domain.Float(199)},
	}})

	store := &fakeStore{sub: domain.Subscription{ID: 1, Name: "Netflix", Currency: "INR"}}
	catalog := []domain.CatalogEntry{{ProviderID: "netflix", Name: "Netflix", URL: "http://x"}}

	pipeline := newTestPipeline(catalog, &fakeFetcher{block: block}, registry, store, &fakeSink{})
	renewals := NewRenewalScanner(&fakeRenewalSource{}, &fakeSink{}, 7, time.UTC, discardLogger())
	return NewJobRunner(pipeline, renewals, time.UTC, discardLogger())
}

func TestRunScrapeSingleFlight(t *testing.T) {
	t.Parallel()

	block := make(chan struct{})
	runner := newBlockedRunner(block)

	first := make(chan bool)
	go func() {
		first <- runner.RunScrape(context.Background())
	}()

	// Wait until the first run holds the guard.
	deadline := time.After(2 * time.Second)
	for !runner.Status().ScrapeRunning {
		select {
		case <-deadline:
			t.Fatal("scrape never started")
		case <-time.After(time.Millisecond):
		}
	}

	if runner.RunScrape(context.Background()) {
		t.Fatal("second trigger must be rejected while a scrape runs")
	}

	close(block)
	if !<-first {
		t.Fatal("first trigger must report that it ran")
	}

	status := runner.Status()
	if status.ScrapeRunning {
		t.Fatal("scrape must be marked finished")
	}
	if !status.LastScrapeSucceeded {
		t.Fatal("successful scrape must be recorded")
	}
	if status.LastScrapeTime.IsZero() {
		t.Fatal("last scrape time must be recorded")
	}
}

func TestRunRenewalScanRecordsStatus(t *testing.T) {
	t.Parallel()

	runner := newBlockedRunner(nil)

	if !runner.RunRenewalScan(context.Background()) {
		t.Fatal("renewal scan must run when idle")
	}

	status := runner.Status()
	if !status.LastRenewalScanSucceeded {
		t.Fatal("successful renewal scan must be recorded")
	}
	if status.LastRenewalScanTime.IsZero() {
		t.Fatal("last renewal scan time must be recorded")
	}
	if status.TimeZone != "UTC" {
		t.Fatalf("unexpected timezone: %s", status.TimeZone)
	}
}
