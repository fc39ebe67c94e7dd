package client

import (
	"context"
	"log/slog"

	"github.com/jillesblokker/level-up-dashboard-sub000/pkg/domain"
)

// DevMockNotifier is a simple mock implementation for local development.
// Unlike MockNotifier (testify/mock), this doesn't require explicit setup
// and always succeeds with logged output.
//
// For tests, use MockNotifier instead.
type DevMockNotifier struct {
	logger *slog.Logger
}

// NewDevMockNotifier creates a new development mock notifier.
func NewDevMockNotifier(logger *slog.Logger) *DevMockNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &DevMockNotifier{logger: logger}
}

// Notify logs the notification and returns success.
func (d *DevMockNotifier) Notify(ctx context.Context, toUserID string, n domain.Notification) error {
	d.logger.Info("dev mock notification",
		"to_user_id", toUserID,
		"kind", n.Kind,
		"quest_id", n.QuestID,
		"completed_by_id", n.CompletedByID,
	)
	return nil
}
