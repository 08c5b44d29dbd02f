package notify

import (
	"context"

	"go.uber.org/zap"
)

// Notifier delivers a one-shot alert to the user. Delivery failures are
// reported to the caller, which is expected to degrade gracefully.
type Notifier interface {
	Notify(ctx context.Context, title, body string) error
}

// Log writes notifications to the application log. Used when no delivery
// channel is configured.
type Log struct {
	log *zap.Logger
}

func NewLog(logger *zap.Logger) *Log {
	return &Log{log: logger}
}

func (n *Log) Notify(ctx context.Context, title, body string) error {
	_ = ctx
	n.log.Info("notification", zap.String("title", title), zap.String("body", body))
	return nil
}

var _ Notifier = (*Log)(nil)
