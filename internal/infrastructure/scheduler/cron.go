package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"SubTracker/internal/ports"
	"SubTracker/internal/usecase"
)

// Cron drives the scrape and renewal-scan jobs on daily clock times in
// the configured timezone, plus an optional hourly scrape interval.
type Cron struct {
	runner        *usecase.JobRunner
	scrapeAt      string
	renewalScanAt string
	scrapeEveryH  int
	location      *time.Location
	logger        *slog.Logger

	cron *cron.Cron
}

var _ ports.Scheduler = (*Cron)(nil)

// New builds the scheduler. Clock times use "HH:MM" form.
func New(
	runner *usecase.JobRunner,
	scrapeAt, renewalScanAt string,
	scrapeEveryHrs int,
	location *time.Location,
	logger *slog.Logger,
) *Cron {
	return &Cron{
		runner:        runner,
		scrapeAt:      scrapeAt,
		renewalScanAt: renewalScanAt,
		scrapeEveryH:  scrapeEveryHrs,
		location:      location,
		logger:        logger,
	}
}

// Start registers the jobs and launches the cron loop.
func (c *Cron) Start(ctx context.Context) error {
	c.cron = cron.New(cron.WithLocation(c.location))

	scrapeSpec, err := specFromClock(c.scrapeAt)
	if err != nil {
		return fmt.Errorf("scrape time: %w", err)
	}
	if _, err := c.cron.AddFunc(scrapeSpec, func() { c.runner.RunScrape(ctx) }); err != nil {
		return fmt.Errorf("add scrape job: %w", err)
	}

	renewalSpec, err := specFromClock(c.renewalScanAt)
	if err != nil {
		return fmt.Errorf("renewal scan time: %w", err)
	}
	if _, err := c.cron.AddFunc(renewalSpec, func() { c.runner.RunRenewalScan(ctx) }); err != nil {
		return fmt.Errorf("add renewal job: %w", err)
	}

	if c.scrapeEveryH > 0 {
		spec := fmt.Sprintf("@every %dh", c.scrapeEveryH)
		if _, err := c.cron.AddFunc(spec, func() { c.runner.RunScrape(ctx) }); err != nil {
			return fmt.Errorf("add interval scrape: %w", err)
		}
	}

	c.cron.Start()
	c.logger.Info("scheduler started",
		"scrape_at", c.scrapeAt,
		"renewal_scan_at", c.renewalScanAt,
		"scrape_every_hrs", c.scrapeEveryH,
		"timezone", c.location.String())
	return nil
}

// Stop halts scheduling and waits for running jobs, bounded by ctx.
func (c *Cron) Stop(ctx context.Context) error {
	if c.cron == nil {
		return nil
	}

	done := c.cron.Stop().Done()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// specFromClock turns "06:00" into the cron spec "0 6 * * *".
func specFromClock(clock string) (string, error) {
	parts := strings.Split(clock, ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("want HH:MM, got %q", clock)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("bad hour in %q", clock)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("bad minute in %q", clock)
	}

	return fmt.Sprintf("%d %d * * *", minute, hour), nil
}
