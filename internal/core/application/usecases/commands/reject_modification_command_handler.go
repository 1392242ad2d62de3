package commands

import (
	"context"
	"time"

	"orderpolicy/internal/core/ports"
)

// RejectModificationCommandHandler marks a pending modification rejected.
// Rejection frees the order's pending-modification slot; the order itself
// is untouched.
type RejectModificationCommandHandler struct {
	uowFactory ModificationUoWFactory
	notifier   ports.NotificationDispatcher
}

// NewRejectModificationCommandHandler creates a handler for modification rejections.
func NewRejectModificationCommandHandler(
	uowFactory ModificationUoWFactory,
	notifier ports.NotificationDispatcher,
) RejectModificationCommandHandler {
	return RejectModificationCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle processes the rejection.
func (h *RejectModificationCommandHandler) Handle(ctx context.Context, cmd ReviewModificationCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	now := time.Now().UTC()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	mod, err := uow.ModificationRepository().Get(ctx, cmd.ModificationID())
	if err != nil {
		return err
	}
	if err = authorizeReviewer(ctx, uow, mod, cmd.ReviewedBy()); err != nil {
		return err
	}

	if err = mod.Reject(cmd.ReviewedBy().ID(), now); err != nil {
		return err
	}
	if err = uow.ModificationRepository().Update(ctx, mod); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	_ = h.notifier.Notify(ctx, mod.RequestedBy(), ports.EventModificationRejected, map[string]any{
		"order_id":        mod.OrderID().String(),
		"modification_id": mod.ID().String(),
	})
	return nil
}
