// Package notification dispatches domain events to the parties affected by
// modification and cancellation decisions. The structured-log dispatcher is
// the default sink; a push or email gateway implements the same port.
package notification

import (
	"context"
	"log/slog"

	"orderpolicy/internal/core/domain/model/kernel"
)

// SlogDispatcher emits notifications as structured log records. Delivery is
// best effort and never fails the operation that produced the event.
type SlogDispatcher struct {
	logger *slog.Logger
}

// NewSlogDispatcher creates a dispatcher writing to the given logger.
func NewSlogDispatcher(logger *slog.Logger) *SlogDispatcher {
	return &SlogDispatcher{
		logger: logger.With("component", "notification_dispatcher"),
	}
}

// Notify implements ports.NotificationDispatcher.
func (d *SlogDispatcher) Notify(
	ctx context.Context,
	recipientID kernel.UUID,
	eventType string,
	payload map[string]any,
) error {
	attrs := make([]any, 0, 2+2*len(payload))
	attrs = append(attrs, "recipient_id", recipientID.String())
	for k, v := range payload {
		attrs = append(attrs, k, v)
	}

	d.logger.InfoContext(ctx, eventType, attrs...)
	return nil
}
