// Package notify delivers frequent-failure alerts. Delivery failures are the
// caller's to log; they must never abort a sweep.
package notify

import (
	"context"
	"log/slog"
)

// Notification is one alert to deliver.
type Notification struct {
	Recipient string
	Subject   string
	Body      string
}

// Notifier is an abstract delivery capability.
type Notifier interface {
	Send(ctx context.Context, n Notification) error
}

// LogNotifier writes notifications to the supervisor log. It is the default
// when no mail transport is configured, so threshold crossings are still
// visible.
type LogNotifier struct{}

func (LogNotifier) Send(_ context.Context, n Notification) error {
	slog.Warn("notification",
		"recipient", n.Recipient,
		"subject", n.Subject,
		"body", n.Body)
	return nil
}
