package commands

import (
	"context"
	"encoding/json"
	"time"

	"orderpolicy/internal/core/domain/model/cancellation"
	"orderpolicy/internal/core/domain/model/kernel"
	"orderpolicy/internal/core/domain/model/refund"
	"orderpolicy/internal/core/domain/services"
	"orderpolicy/internal/core/ports"
	"orderpolicy/internal/pkg/errs"
)

// CancelOrderCommandHandler cancels an order and records every financial
// consequence in one transaction: the cancellation record, the refund in
// pending status, its execution job and the driver's compensation. The
// refund itself is executed asynchronously by the queue consumer.
type CancelOrderCommandHandler struct {
	uowFactory   CancellationUoWFactory
	policy       services.CancellationPolicy
	compensation services.CompensationCalculator
	notifier     ports.NotificationDispatcher
}

// NewCancelOrderCommandHandler creates a handler for order cancellations.
func NewCancelOrderCommandHandler(
	uowFactory CancellationUoWFactory,
	notifier ports.NotificationDispatcher,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory:   uowFactory,
		policy:       services.NewCancellationPolicy(),
		compensation: services.NewCompensationCalculator(),
		notifier:     notifier,
	}
}

// Handle processes the cancellation request.
func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
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

	if err = h.policy.AuthorizeCancel(o, cmd.InitiatedBy(), now); err != nil {
		return err
	}

	policy, err := h.policy.PolicyForActor(o, cmd.InitiatedBy(), now)
	if err != nil {
		return err
	}
	if !policy.CanCancel {
		return errs.NewStateConflictError("order", policy.Reason)
	}
	refundAmount := h.policy.RefundAmount(o, policy)
	statusAtCancellation := o.Status()

	if err = o.Cancel(now); err != nil {
		return err
	}
	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}

	record, err := cancellation.NewCancellation(
		cmd.CancellationID(), o.ID(), cmd.InitiatedBy(), cmd.Reason(),
		statusAtCancellation, policy.RefundPercentage, policy.PenaltyAmount, now,
	)
	if err != nil {
		return err
	}
	if err = uow.CancellationRepository().Add(ctx, record); err != nil {
		return err
	}

	comp, err := h.compensation.BuildCompensation(o, record.ID(), now)
	if err != nil {
		return err
	}
	if comp != nil {
		if err = uow.CompensationRepository().Add(ctx, comp); err != nil {
			return err
		}
	}

	var refundID string
	if refundAmount.IsPositive() {
		refundType := refund.TypePartial
		if policy.RefundPercentage == 100 {
			refundType = refund.TypeFull
		}

		r, refundErr := refund.NewRefund(
			kernel.NewUUID(), o.ID(), refundAmount, refundType,
			cmd.Reason(), cmd.InitiatedBy().ID(), now,
		)
		if refundErr != nil {
			return refundErr
		}
		if err = uow.RefundRepository().Add(ctx, r); err != nil {
			return err
		}

		payload, marshalErr := json.Marshal(ExecuteRefundPayload{RefundID: r.ID()})
		if marshalErr != nil {
			return marshalErr
		}
		if err = uow.QueueRepository().Enqueue(ctx, ports.JobTypeExecuteRefund, payload); err != nil {
			return err
		}
		refundID = r.ID().String()
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	_ = h.notifier.Notify(ctx, o.CustomerID(), ports.EventOrderCancelled, map[string]any{
		"order_id":          o.ID().String(),
		"cancellation_id":   record.ID().String(),
		"refund_id":         refundID,
		"refund_amount":     refundAmount.String(),
		"refund_percentage": policy.RefundPercentage,
	})
	if comp != nil {
		_ = h.notifier.Notify(ctx, comp.DriverID(), ports.EventDriverCompensated, map[string]any{
			"order_id": o.ID().String(),
			"amount":   comp.Amount().String(),
		})
	}
	return nil
}
