// Package cancellation contains the historical records produced when an
// order is unwound: the Cancellation itself, immutable once written, and
// the DriverCompensation owed when a delivery was already in progress.
package cancellation

import (
	"errors"
	"time"

	"orderpolicy/internal/core/domain/model/kernel"
	"orderpolicy/internal/core/domain/model/order"
	"orderpolicy/internal/pkg/errs"
)

// ErrCancellationIsNotConstructed is returned when a Cancellation was not
// created through NewCancellation or RestoreCancellation.
var ErrCancellationIsNotConstructed = errors.New(
	"Cancellation must be created via NewCancellation or RestoreCancellation")

// Cancellation is the record of an order being cancelled: who did it, why,
// what state the order was in, and the refund terms that applied. It is a
// historical fact, created once and never mutated.
type Cancellation struct {
	id            kernel.UUID
	orderID       kernel.UUID
	initiatedBy   kernel.UUID
	initiatorRole kernel.Role
	reason        string

	orderStatusAtCancellation order.Status
	refundPercentage          int
	penaltyAmount             kernel.Money

	createdAt time.Time

	isConstructed bool
}

// NewCancellation creates a cancellation record. The order status and
// refund terms are snapshotted from the policy decision at cancel time.
func NewCancellation(
	id kernel.UUID,
	orderID kernel.UUID,
	initiatedBy kernel.Actor,
	reason string,
	orderStatusAtCancellation order.Status,
	refundPercentage int,
	penaltyAmount kernel.Money,
	now time.Time,
) (*Cancellation, error) {
	if err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		initiatedBy.Validate(),
		orderStatusAtCancellation.Validate(),
	); err != nil {
		return nil, err
	}
	if refundPercentage < 0 || refundPercentage > 100 {
		return nil, errs.NewValueIsOutOfRangeError("refund percentage", refundPercentage, 0, 100)
	}
	if penaltyAmount.IsNegative() {
		return nil, errs.NewValueIsInvalidError("penalty amount")
	}

	return &Cancellation{
		id:                        id,
		orderID:                   orderID,
		initiatedBy:               initiatedBy.ID(),
		initiatorRole:             initiatedBy.Role(),
		reason:                    reason,
		orderStatusAtCancellation: orderStatusAtCancellation,
		refundPercentage:          refundPercentage,
		penaltyAmount:             penaltyAmount,
		createdAt:                 now,
		isConstructed:             true,
	}, nil
}

// RestoreCancellation reconstructs a Cancellation from persistence.
func RestoreCancellation(
	id kernel.UUID,
	orderID kernel.UUID,
	initiatedBy kernel.UUID,
	initiatorRole kernel.Role,
	reason string,
	orderStatusAtCancellation order.Status,
	refundPercentage int,
	penaltyAmount kernel.Money,
	createdAt time.Time,
) (*Cancellation, error) {
	if err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		initiatedBy.Validate(),
		initiatorRole.Validate(),
		orderStatusAtCancellation.Validate(),
	); err != nil {
		return nil, err
	}

	return &Cancellation{
		id:                        id,
		orderID:                   orderID,
		initiatedBy:               initiatedBy,
		initiatorRole:             initiatorRole,
		reason:                    reason,
		orderStatusAtCancellation: orderStatusAtCancellation,
		refundPercentage:          refundPercentage,
		penaltyAmount:             penaltyAmount,
		createdAt:                 createdAt,
		isConstructed:             true,
	}, nil
}

// Validate ensures the Cancellation was properly constructed.
func (c *Cancellation) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrCancellationIsNotConstructed
	}
	return nil
}

// ID returns the cancellation's unique identifier.
func (c *Cancellation) ID() kernel.UUID {
	return c.id
}

// OrderID returns the cancelled order's identifier.
func (c *Cancellation) OrderID() kernel.UUID {
	return c.orderID
}

// InitiatedBy returns the cancelling principal's identifier.
func (c *Cancellation) InitiatedBy() kernel.UUID {
	return c.initiatedBy
}

// InitiatorRole returns the cancelling principal's role.
func (c *Cancellation) InitiatorRole() kernel.Role {
	return c.initiatorRole
}

// Reason returns the stated cancellation reason.
func (c *Cancellation) Reason() string {
	return c.reason
}

// OrderStatusAtCancellation returns the order status snapshot taken when
// the cancellation was written.
func (c *Cancellation) OrderStatusAtCancellation() order.Status {
	return c.orderStatusAtCancellation
}

// RefundPercentage returns the refund band that applied.
func (c *Cancellation) RefundPercentage() int {
	return c.refundPercentage
}

// PenaltyAmount returns the penalty deducted from the refund.
func (c *Cancellation) PenaltyAmount() kernel.Money {
	return c.penaltyAmount
}

// CreatedAt returns when the cancellation was recorded.
func (c *Cancellation) CreatedAt() time.Time {
	return c.createdAt
}
