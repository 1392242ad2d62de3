package commands

import (
	"context"
	"errors"
	"time"

	"orderpolicy/internal/core/domain/model/kernel"
	"orderpolicy/internal/core/domain/model/refund"
	"orderpolicy/internal/core/ports"
	"orderpolicy/internal/pkg/errs"
)

// ExecuteRefundCommandHandler pushes a created refund through the payment
// rail. Runs from the queue consumer under at-least-once delivery: the
// refund's idempotency key makes the rail call safe to repeat, and a
// refund already in a terminal status is a no-op.
//
// The processing claim commits in its own transaction before the rail is
// dialed, so an execution that crashes mid-call leaves a visible
// processing record for reconciliation instead of an untouched pending
// one. A redelivered job finds the refund already processing and goes
// straight back to the rail.
//
// Rail failures mark the refund failed and surface the error so the job is
// recorded as failed; re-running it is an explicit new enqueue.
type ExecuteRefundCommandHandler struct {
	uowFactory RefundUoWFactory
	rail       ports.PaymentRail
	notifier   ports.NotificationDispatcher
}

// NewExecuteRefundCommandHandler creates a handler for refund execution.
func NewExecuteRefundCommandHandler(
	uowFactory RefundUoWFactory,
	rail ports.PaymentRail,
	notifier ports.NotificationDispatcher,
) ExecuteRefundCommandHandler {
	return ExecuteRefundCommandHandler{
		uowFactory: uowFactory,
		rail:       rail,
		notifier:   notifier,
	}
}

// Handle executes the refund.
func (h *ExecuteRefundCommandHandler) Handle(ctx context.Context, cmd ExecuteRefundCommand) error {
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

	r, err := uow.RefundRepository().Get(ctx, cmd.RefundID())
	if err != nil {
		return err
	}
	if r.Status().IsTerminal() {
		return nil
	}

	o, err := uow.OrderRepository().Get(ctx, r.OrderID())
	if err != nil {
		return err
	}

	if r.Status() == refund.StatusPending {
		if err = r.StartProcessing(); err != nil {
			return err
		}
		if err = uow.RefundRepository().Update(ctx, r); err != nil {
			return err
		}
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	txnID, railErr := h.rail.Refund(ctx, o.PaymentMethod(), r.Amount(), r.IdempotencyKey())
	if railErr != nil {
		return h.recordFailure(ctx, uow, r, o.CustomerID(), railErr, now)
	}

	// Settle in a second transaction: completing the refund updates the
	// order's refunded total, so the order row is locked this time.
	if err = uow.Begin(ctx); err != nil {
		return err
	}
	o, err = uow.OrderRepository().GetForUpdate(ctx, r.OrderID())
	if err != nil {
		return err
	}

	if err = r.Complete(txnID, now); err != nil {
		return err
	}
	if err = uow.RefundRepository().Update(ctx, r); err != nil {
		return err
	}

	if err = o.RegisterRefund(r.Amount()); err != nil {
		return err
	}
	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	_ = h.notifier.Notify(ctx, o.CustomerID(), ports.EventRefundCompleted, map[string]any{
		"order_id":       o.ID().String(),
		"refund_id":      r.ID().String(),
		"amount":         r.Amount().String(),
		"transaction_id": txnID,
	})
	return nil
}

// recordFailure persists the failed status in its own transaction and
// reports the rail error.
func (h *ExecuteRefundCommandHandler) recordFailure(
	ctx context.Context,
	uow RefundUoW,
	r *refund.Refund,
	customerID kernel.UUID,
	railErr error,
	now time.Time,
) error {
	if err := r.Fail(railErr.Error(), now); err != nil {
		return errors.Join(railErr, err)
	}
	if err := uow.Begin(ctx); err != nil {
		return errors.Join(railErr, err)
	}
	if err := uow.RefundRepository().Update(ctx, r); err != nil {
		return errors.Join(railErr, err)
	}
	if err := uow.Commit(ctx); err != nil {
		return errors.Join(railErr, err)
	}

	_ = h.notifier.Notify(ctx, customerID, ports.EventRefundFailed, map[string]any{
		"order_id":  r.OrderID().String(),
		"refund_id": r.ID().String(),
		"amount":    r.Amount().String(),
	})

	if errors.Is(railErr, errs.ErrExternalService) {
		return railErr
	}
	return errs.NewExternalServiceError("payment rail", railErr)
}
