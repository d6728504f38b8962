package domain

import "time"

// WatchlistEntry is a user's registered interest in a subscription.
// Owned by the account subsystem; read-only for the scrape pipeline.
type WatchlistEntry struct {
	ID             int64
	SubscriptionID int64
	UserEmail      string
	TargetPrice    *float64
	NotifyOnDrop   bool
}

// RenewalRecord is an externally owned user-subscription row the renewal
// scan reads to decide whether a reminder is due.
type RenewalRecord struct {
	ID                 int64
	UserEmail          string
	SubscriptionName   string
	RenewalDate        time.Time
	ReminderDaysBefore int
	IsActive           bool
}

// AlertKind discriminates outbound alert requests.
type AlertKind string

const (
	AlertPriceDrop       AlertKind = "price_drop"
	AlertRenewalReminder AlertKind = "renewal_reminder"
)

// AlertRequest is handed to the alert sink; persistence and delivery
// (email, in-app) happen outside this service.
type AlertRequest struct {
	Kind             AlertKind `json:"kind"`
	UserEmail        string    `json:"user_email"`
	SubscriptionName string    `json:"subscription_name"`
	OldPrice         float64   `json:"old_price,omitempty"`
	NewPrice         float64   `json:"new_price,omitempty"`
	RenewalDate      time.Time `json:"renewal_date,omitzero"`
	DaysLeft         int       `json:"days_left,omitempty"`
	Message          string    `json:"message"`
}
