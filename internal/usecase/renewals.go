package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"SubTracker/internal/domain"
	"SubTracker/internal/ports"
)

// RenewalScanner checks upcoming renewals and requests reminders for
// those inside each user's reminder window.
type RenewalScanner struct {
	renewals      ports.RenewalSource
	alerts        ports.AlertSink
	lookaheadDays int
	location      *time.Location
	logger        *slog.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewRenewalScanner wires the renewal scan dependencies.
func NewRenewalScanner(
	renewals ports.RenewalSource,
	alerts ports.AlertSink,
	lookaheadDays int,
	location *time.Location,
	logger *slog.Logger,
) *RenewalScanner {
	return &RenewalScanner{
		renewals:      renewals,
		alerts:        alerts,
		lookaheadDays: lookaheadDays,
		location:      location,
		logger:        logger,
		now:           time.Now,
	}
}

// Scan reads renewals from today through the lookahead window and sends
// a reminder for each record whose days-until-renewal has reached its
// reminder threshold. Per-record failures are logged, not fatal.
func (r *RenewalScanner) Scan(ctx context.Context) error {
	today := r.today()
	until := today.AddDate(0, 0, r.lookaheadDays)

	records, err := r.renewals.UpcomingRenewals(ctx, today, until)
	if err != nil {
		return fmt.Errorf("load renewals: %w", err)
	}

	var sent int
	for _, rec := range records {
		daysLeft := daysBetween(today, rec.RenewalDate.In(r.location))
		if daysLeft > rec.ReminderDaysBefore {
			continue
		}

		req := domain.AlertRequest{
			Kind:             domain.AlertRenewalReminder,
			UserEmail:        rec.UserEmail,
			SubscriptionName: rec.SubscriptionName,
			RenewalDate:      rec.RenewalDate,
			DaysLeft:         daysLeft,
			Message: fmt.Sprintf("%s renews in %d day(s) on %s",
				rec.SubscriptionName, daysLeft, rec.RenewalDate.Format("2006-01-02")),
		}
		if err := r.alerts.Send(ctx, req); err != nil {
			r.logger.Error("renewal reminder failed", "user", rec.UserEmail, "error", err)
			continue
		}
		sent++
	}

	r.logger.Info("renewal scan finished", "candidates", len(records), "reminders", sent)
	return nil
}

func (r *RenewalScanner) today() time.Time {
	now := r.now().In(r.location)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, r.location)
}

// daysBetween counts whole calendar days from a (midnight) to b's date.
func daysBetween(a, b time.Time) int {
	b = time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, a.Location())
	return int(b.Sub(a).Hours() / 24)
}
