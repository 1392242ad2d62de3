package commands

import (
	"context"
	"time"

	"orderpolicy/internal/core/ports"
)

const (
	// EscalationThreshold is how long a modification may sit pending
	// before the merchant is nudged about it.
	EscalationThreshold = 10 * time.Minute

	// EscalationSweepInterval is how often the sweep runs. Only
	// modifications that crossed the threshold since the previous sweep
	// are escalated, so each request is escalated once.
	EscalationSweepInterval = time.Minute
)

// EscalateStalledModificationsCommandHandler notifies merchants about
// pending modifications they have not reviewed. Purely a read-and-notify
// sweep; the modification keeps waiting until reviewed or the order moves
// past its modifiable window.
type EscalateStalledModificationsCommandHandler struct {
	uowFactory ModificationUoWFactory
	notifier   ports.NotificationDispatcher
}

// NewEscalateStalledModificationsCommandHandler creates a handler for the
// stalled modification sweep.
func NewEscalateStalledModificationsCommandHandler(
	uowFactory ModificationUoWFactory,
	notifier ports.NotificationDispatcher,
) EscalateStalledModificationsCommandHandler {
	return EscalateStalledModificationsCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle sweeps for newly stalled modifications and notifies each order's
// merchant.
func (h *EscalateStalledModificationsCommandHandler) Handle(
	ctx context.Context, cmd EscalateStalledModificationsCommand,
) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	now := time.Now().UTC()

	// No transaction: the sweep only reads and notifies.
	uow := h.uowFactory.Create()

	stale, err := uow.ModificationRepository().ListStalePending(ctx, now.Add(-EscalationThreshold))
	if err != nil {
		return err
	}

	previousSweepCutoff := now.Add(-EscalationThreshold - EscalationSweepInterval)
	for _, mod := range stale {
		if !mod.CreatedAt().After(previousSweepCutoff) {
			continue
		}

		o, orderErr := uow.OrderRepository().Get(ctx, mod.OrderID())
		if orderErr != nil {
			return orderErr
		}

		_ = h.notifier.Notify(ctx, o.MerchantID(), ports.EventModificationStalled, map[string]any{
			"order_id":        mod.OrderID().String(),
			"modification_id": mod.ID().String(),
			"pending_since":   mod.CreatedAt().Format(time.RFC3339),
		})
	}

	return nil
}
