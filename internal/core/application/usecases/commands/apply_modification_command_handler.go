package commands

import (
	"context"
	"time"

	"orderpolicy/internal/core/domain/model/modification"
	"orderpolicy/internal/core/ports"
	"orderpolicy/internal/pkg/errs"
)

// ApplyModificationCommandHandler applies an approved modification to its
// order. Runs from the queue consumer under at-least-once delivery, so a
// redelivered job that finds the modification already applied is a no-op.
type ApplyModificationCommandHandler struct {
	uowFactory ModificationUoWFactory
	notifier   ports.NotificationDispatcher
}

// NewApplyModificationCommandHandler creates a handler for applying modifications.
func NewApplyModificationCommandHandler(
	uowFactory ModificationUoWFactory,
	notifier ports.NotificationDispatcher,
) ApplyModificationCommandHandler {
	return ApplyModificationCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle applies the modification's changes to the locked order.
func (h *ApplyModificationCommandHandler) Handle(ctx context.Context, cmd ApplyModificationCommand) error {
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

	// First read only resolves the order ID; the authoritative status
	// check happens after the row lock below.
	mod, err := uow.ModificationRepository().Get(ctx, cmd.ModificationID())
	if err != nil {
		return err
	}

	o, err := uow.OrderRepository().GetForUpdate(ctx, mod.OrderID())
	if err != nil {
		return err
	}

	// Re-read under the lock: a redelivered job sees the applied status
	// written by the first delivery.
	mod, err = uow.ModificationRepository().Get(ctx, cmd.ModificationID())
	if err != nil {
		return err
	}

	switch mod.Status() {
	case modification.StatusApplied:
		return nil
	case modification.StatusApproved:
	default:
		return errs.NewStateConflictError("order modification", mod.Status().String())
	}

	adjustments := stockAdjustments(o, mod.Changes())
	if err = applyChanges(o, mod.Changes()); err != nil {
		return err
	}
	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}

	if err = mod.MarkApplied(now); err != nil {
		return err
	}
	if err = uow.ModificationRepository().Update(ctx, mod); err != nil {
		return err
	}

	if err = enqueueStockAdjustments(ctx, uow.QueueRepository(), adjustments); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	_ = h.notifier.Notify(ctx, o.CustomerID(), ports.EventModificationApplied, map[string]any{
		"order_id":        o.ID().String(),
		"modification_id": mod.ID().String(),
		"new_total":       o.Total().String(),
	})
	return nil
}
