package commands

import (
	"errors"

	"orderpolicy/internal/core/domain/model/kernel"
	"orderpolicy/internal/pkg/errs"
	"orderpolicy/internal/pkg/guard"
)

var (
	ErrCancelOrderCommandIsNotConstructed = errors.New(
		"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
	)
)

// CancelOrderCommand represents a request to cancel an order. The refund
// band and any penalties are resolved by the handler from the order's state
// at execution time, never supplied by the caller.
//
// Example:
//
//	cancellationID := kernel.NewUUID()
//	cmd, err := NewCancelOrderCommand(cancellationID, orderID, actor, "changed my mind")
//	if err != nil {
//	    return fmt.Errorf("invalid cancellation request: %w", err)
//	}
//
//	handler := NewCancelOrderCommandHandler(uowFactory, notifier)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("cancellation failed: %w", err)
//	}
type CancelOrderCommand struct { //nolint:recvcheck //using for validation
	cancellationID kernel.UUID
	orderID        kernel.UUID
	initiatedBy    kernel.Actor
	reason         string

	guard guard.ConstructorGuard
}

// NewCancelOrderCommand creates a command to cancel an order.
// A reason is required; it is kept on the cancellation record for audit.
func NewCancelOrderCommand(
	cancellationID kernel.UUID,
	orderID kernel.UUID,
	initiatedBy kernel.Actor,
	reason string,
) (CancelOrderCommand, error) {
	if err := errors.Join(
		cancellationID.Validate(),
		orderID.Validate(),
		initiatedBy.Validate(),
	); err != nil {
		return CancelOrderCommand{}, err
	}
	if reason == "" {
		return CancelOrderCommand{}, errs.NewValueIsRequiredError("cancellation reason")
	}

	return CancelOrderCommand{
		cancellationID: cancellationID,
		orderID:        orderID,
		initiatedBy:    initiatedBy,
		reason:         reason,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}

// CancellationID returns the identifier assigned to the cancellation record.
func (c CancelOrderCommand) CancellationID() kernel.UUID {
	return c.cancellationID
}

// OrderID returns the order being cancelled.
func (c CancelOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// InitiatedBy returns the acting party.
func (c CancelOrderCommand) InitiatedBy() kernel.Actor {
	return c.initiatedBy
}

// Reason returns the stated cancellation reason.
func (c CancelOrderCommand) Reason() string {
	return c.reason
}
