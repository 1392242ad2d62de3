package commands

import (
	"errors"

	"orderpolicy/internal/core/domain/model/kernel"
	"orderpolicy/internal/core/domain/model/refund"
	"orderpolicy/internal/pkg/errs"
	"orderpolicy/internal/pkg/guard"
)

var (
	ErrRequestRefundCommandIsNotConstructed = errors.New(
		"RequestRefundCommand must be created via NewRequestRefundCommand constructor",
	)
)

// RequestRefundCommand represents a staff-initiated refund outside the
// cancellation flow: goodwill credits, disputed items, delivery failures.
type RequestRefundCommand struct { //nolint:recvcheck //using for validation
	refundID    kernel.UUID
	orderID     kernel.UUID
	amount      kernel.Money
	refundType  refund.Type
	reason      string
	processedBy kernel.Actor

	guard guard.ConstructorGuard
}

// NewRequestRefundCommand creates a command to issue a manual refund.
// Only support and admin actors may issue refunds directly.
func NewRequestRefundCommand(
	refundID kernel.UUID,
	orderID kernel.UUID,
	amount kernel.Money,
	refundType refund.Type,
	reason string,
	processedBy kernel.Actor,
) (RequestRefundCommand, error) {
	if err := errors.Join(
		refundID.Validate(),
		orderID.Validate(),
		refundType.Validate(),
		processedBy.Validate(),
	); err != nil {
		return RequestRefundCommand{}, err
	}
	if !amount.IsPositive() {
		return RequestRefundCommand{}, errs.NewValueIsInvalidError("refund amount")
	}
	if reason == "" {
		return RequestRefundCommand{}, errs.NewValueIsRequiredError("refund reason")
	}
	if !processedBy.IsStaff() {
		return RequestRefundCommand{}, errs.NewAuthorizationError(
			processedBy.Role().String(), "issue refund")
	}

	return RequestRefundCommand{
		refundID:    refundID,
		orderID:     orderID,
		amount:      amount,
		refundType:  refundType,
		reason:      reason,
		processedBy: processedBy,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c RequestRefundCommand) Validate() error {
	return c.guard.Validate(ErrRequestRefundCommandIsNotConstructed)
}

// RefundID returns the identifier assigned to the new refund.
func (c RequestRefundCommand) RefundID() kernel.UUID {
	return c.refundID
}

// OrderID returns the order being refunded.
func (c RequestRefundCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Amount returns the refund amount.
func (c RequestRefundCommand) Amount() kernel.Money {
	return c.amount
}

// RefundType returns the kind of refund being issued.
func (c RequestRefundCommand) RefundType() refund.Type {
	return c.refundType
}

// Reason returns the stated refund reason.
func (c RequestRefundCommand) Reason() string {
	return c.reason
}

// ProcessedBy returns the staff member issuing the refund.
func (c RequestRefundCommand) ProcessedBy() kernel.Actor {
	return c.processedBy
}
