package notify

import (
	"context"
	"log/slog"

	"readyToHelp/internal/domain"
)

// LogChannel only logs. It backs NOTIFY_DISABLED=true.
type LogChannel struct {
	logger *slog.Logger
}

func NewLogChannel(logger *slog.Logger) *LogChannel {
	return &LogChannel{logger: logger}
}

func (c *LogChannel) Send(_ context.Context, n domain.NotificationRequest) error {
	c.logger.Info("notification (disabled transport)",
		slog.String("occurrence_id", n.OccurrenceID.String()),
		slog.String("category", string(n.Category)),
		slog.String("message", n.Message),
		slog.Time("timestamp", n.Timestamp),
	)
	return nil
}
