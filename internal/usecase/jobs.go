package usecase

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// JobStatus is a snapshot of the recurring jobs for health reporting.
type JobStatus struct {
	ScrapeRunning            bool
	RenewalScanRunning       bool
	LastScrapeTime           time.Time
	LastRenewalScanTime      time.Time
	LastScrapeSucceeded      bool
	LastRenewalScanSucceeded bool
	TimeZone                 string
}

// JobRunner guards the scrape and renewal-scan jobs so each runs at
// most once at a time, whether triggered by the schedule or manually.
type JobRunner struct {
	pipeline *Pipeline
	renewals *RenewalScanner
	location *time.Location
	logger   *slog.Logger

	scrapeRunning  atomic.Bool
	renewalRunning atomic.Bool

	mu            sync.Mutex
	lastScrape    time.Time
	lastRenewal   time.Time
	lastScrapeOK  bool
	lastRenewalOK bool
}

// NewJobRunner wires the jobs.
func NewJobRunner(pipeline *Pipeline, renewals *RenewalScanner, location *time.Location, logger *slog.Logger) *JobRunner {
	return &JobRunner{
		pipeline: pipeline,
		renewals: renewals,
		location: location,
		logger:   logger,
	}
}

// RunScrape executes the scrape batch unless one is already in flight.
// It reports whether this call actually ran the job.
func (j *JobRunner) RunScrape(ctx context.Context) bool {
	if !j.scrapeRunning.CompareAndSwap(false, true) {
		j.logger.Warn("scrape already running, skipping trigger")
		return false
	}
	defer j.scrapeRunning.Store(false)

	err := j.pipeline.FullScrape(ctx)
	j.recordScrape(err == nil)
	if err != nil {
		j.logger.Error("scrape job failed", "error", err)
	}
	return true
}

// RunRenewalScan executes the renewal scan unless one is already in
// flight. It reports whether this call actually ran the job.
func (j *JobRunner) RunRenewalScan(ctx context.Context) bool {
	if !j.renewalRunning.CompareAndSwap(false, true) {
		j.logger.Warn("renewal scan already running, skipping trigger")
		return false
	}
	defer j.renewalRunning.Store(false)

	err := j.renewals.Scan(ctx)
	j.recordRenewal(err == nil)
	if err != nil {
		j.logger.Error("renewal scan job failed", "error", err)
	}
	return true
}

// Status snapshots both jobs.
func (j *JobRunner) Status() JobStatus {
	j.mu.Lock()
	defer j.mu.Unlock()

	return JobStatus{
		ScrapeRunning:            j.scrapeRunning.Load(),
		RenewalScanRunning:       j.renewalRunning.Load(),
		LastScrapeTime:           j.lastScrape,
		LastRenewalScanTime:      j.lastRenewal,
		LastScrapeSucceeded:      j.lastScrapeOK,
		LastRenewalScanSucceeded: j.lastRenewalOK,
		TimeZone:                 j.location.String(),
	}
}

func (j *JobRunner) recordScrape(ok bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.lastScrape = time.Now().In(j.location)
	j.lastScrapeOK = ok
}

func (j *JobRunner) recordRenewal(ok bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.lastRenewal = time.Now().In(j.location)
	j.lastRenewalOK = ok
}
