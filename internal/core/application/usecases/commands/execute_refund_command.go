package commands

import (
	"errors"

	"orderpolicy/internal/core/domain/model/kernel"
	"orderpolicy/internal/pkg/guard"
)

var (
	ErrExecuteRefundCommandIsNotConstructed = errors.New(
		"ExecuteRefundCommand must be created via NewExecuteRefundCommand constructor",
	)
)

// ExecuteRefundCommand represents executing a created refund against the
// payment rail. Issued by the queue consumer, never directly by an API caller.
type ExecuteRefundCommand struct { //nolint:recvcheck //using for validation
	refundID kernel.UUID

	guard guard.ConstructorGuard
}

// NewExecuteRefundCommand creates a command to execute a refund.
func NewExecuteRefundCommand(refundID kernel.UUID) (ExecuteRefundCommand, error) {
	if err := refundID.Validate(); err != nil {
		return ExecuteRefundCommand{}, err
	}

	return ExecuteRefundCommand{
		refundID: refundID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ExecuteRefundCommand) Validate() error {
	return c.guard.Validate(ErrExecuteRefundCommandIsNotConstructed)
}

// RefundID returns the refund to execute.
func (c ExecuteRefundCommand) RefundID() kernel.UUID {
	return c.refundID
}
