package commands

import (
	"context"
	"encoding/json"
	"time"

	"orderpolicy/internal/core/domain/model/kernel"
	"orderpolicy/internal/core/domain/model/order"
	"orderpolicy/internal/core/domain/model/refund"
	"orderpolicy/internal/core/ports"
	"orderpolicy/internal/pkg/errs"
)

// RequestRefundCommandHandler records a manual refund and schedules its
// execution. The amount is capped by what remains refundable on the order;
// the cap is checked under the order's row lock so concurrent refunds
// cannot jointly exceed it.
type RequestRefundCommandHandler struct {
	uowFactory RefundUoWFactory
}

// NewRequestRefundCommandHandler creates a handler for manual refund requests.
func NewRequestRefundCommandHandler(uowFactory RefundUoWFactory) RequestRefundCommandHandler {
	return RequestRefundCommandHandler{uowFactory: uowFactory}
}

// Handle processes the refund request.
func (h *RequestRefundCommandHandler) Handle(ctx context.Context, cmd RequestRefundCommand) error {
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

	o, err := uow.OrderRepository().GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	// Only settled charges can be refunded.
	if o.PaymentStatus() != order.PaymentCompleted {
		return errs.NewStateConflictError("order payment", o.PaymentStatus().String())
	}

	// Pending refunds also count against the cap, not just completed
	// ones, otherwise two racing requests both pass the check.
	reserved, err := h.pendingAmount(ctx, uow, cmd.OrderID())
	if err != nil {
		return err
	}
	available := o.RefundableAmount().Sub(reserved)
	if cmd.Amount().GreaterThan(available) {
		return errs.NewValueIsOutOfRangeError(
			"refund amount", cmd.Amount().String(), "0", available.String())
	}

	r, err := refund.NewRefund(
		cmd.RefundID(), cmd.OrderID(), cmd.Amount(), cmd.RefundType(),
		cmd.Reason(), cmd.ProcessedBy().ID(), now,
	)
	if err != nil {
		return err
	}
	if err = uow.RefundRepository().Add(ctx, r); err != nil {
		return err
	}

	payload, err := json.Marshal(ExecuteRefundPayload{RefundID: r.ID()})
	if err != nil {
		return err
	}
	if err = uow.QueueRepository().Enqueue(ctx, ports.JobTypeExecuteRefund, payload); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// pendingAmount sums refunds for the order that are created or in flight
// but not yet reflected in the order's refunded total.
func (h *RequestRefundCommandHandler) pendingAmount(
	ctx context.Context, uow RefundUoW, orderID kernel.UUID,
) (kernel.Money, error) {
	refunds, err := uow.RefundRepository().GetByOrder(ctx, orderID)
	if err != nil {
		return kernel.ZeroMoney(), err
	}

	total := kernel.ZeroMoney()
	for _, r := range refunds {
		if r.Status() == refund.StatusPending || r.Status() == refund.StatusProcessing {
			total = total.Add(r.Amount())
		}
	}
	return total, nil
}
