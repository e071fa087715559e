// Package notify is the delivery boundary: the core decides whether and
// with what text to notify, implementations decide how.
package notify

import (
	"context"

	"github.com/kochj23/NewsMobile/internal/logger"
)

// Notifier accepts (title, body) pairs for user-visible delivery.
type Notifier interface {
	Notify(ctx context.Context, title, body string) error
}

// LogNotifier writes notifications to the log. Default when no delivery
// channel is configured.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, title, body string) error {
	logger.Info("notification", "title", title, "body", body)
	return nil
}
