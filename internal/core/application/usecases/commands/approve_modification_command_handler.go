package commands

import (
	"context"
	"encoding/json"
	"time"

	"orderpolicy/internal/core/ports"
)

// ApproveModificationCommandHandler marks a pending modification approved
// and schedules its application through the durable queue. The approval and
// the queue job commit atomically, so an approved modification is never
// lost to a crash between deciding and applying.
type ApproveModificationCommandHandler struct {
	uowFactory ModificationUoWFactory
	notifier   ports.NotificationDispatcher
}

// NewApproveModificationCommandHandler creates a handler for modification approvals.
func NewApproveModificationCommandHandler(
	uowFactory ModificationUoWFactory,
	notifier ports.NotificationDispatcher,
) ApproveModificationCommandHandler {
	return ApproveModificationCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle processes the approval.
func (h *ApproveModificationCommandHandler) Handle(ctx context.Context, cmd ReviewModificationCommand) error {
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

	// Approve transitions only from pending; a second approval or an
	// approval after rejection surfaces as a state conflict.
	if err = mod.Approve(cmd.ReviewedBy().ID(), now); err != nil {
		return err
	}
	if err = uow.ModificationRepository().Update(ctx, mod); err != nil {
		return err
	}

	payload, err := json.Marshal(ApplyModificationPayload{ModificationID: mod.ID()})
	if err != nil {
		return err
	}
	if err = uow.QueueRepository().Enqueue(ctx, ports.JobTypeApplyModification, payload); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	_ = h.notifier.Notify(ctx, mod.RequestedBy(), ports.EventModificationApproved, map[string]any{
		"order_id":        mod.OrderID().String(),
		"modification_id": mod.ID().String(),
	})
	return nil
}
