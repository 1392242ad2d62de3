package cancellation

import (
	"errors"
	"fmt"
	"time"

	"orderpolicy/internal/core/domain/model/kernel"
	"orderpolicy/internal/pkg/errs"
)

// ErrCompensationIsNotConstructed is returned when a DriverCompensation was
// not created through NewDriverCompensation or RestoreDriverCompensation.
var ErrCompensationIsNotConstructed = errors.New(
	"DriverCompensation must be created via NewDriverCompensation or RestoreDriverCompensation")

// CompensationStatus tracks whether the driver payout went out.
// Payout execution belongs to an external collaborator; this engine only
// creates pending records.
type CompensationStatus int

const (
	// CompensationPending means the payout has not been executed.
	CompensationPending CompensationStatus = iota

	// CompensationPaid means the payout was executed.
	CompensationPaid
)

// Validate checks that the value is one of the defined states.
func (s CompensationStatus) Validate() error {
	if s != CompensationPending && s != CompensationPaid {
		return errs.NewValueIsInvalidErrorWithCause("compensation status",
			fmt.Errorf("%d is not a valid compensation status", s))
	}
	return nil
}

// String returns the lowercase name of the status.
func (s CompensationStatus) String() string {
	if s == CompensationPaid {
		return "paid"
	}
	return "pending"
}

// DriverCompensation is the partial payout owed to a driver whose assigned
// delivery was cancelled after work had begun. Created in pending state
// during cancellation; the payout system owns the transition to paid.
type DriverCompensation struct {
	id             kernel.UUID
	driverID       kernel.UUID
	orderID        kernel.UUID
	cancellationID kernel.UUID
	amount         kernel.Money
	reason         string
	status         CompensationStatus
	createdAt      time.Time

	isConstructed bool
}

// NewDriverCompensation creates a pending compensation record.
// The amount must be positive; a zero entitlement creates no record.
func NewDriverCompensation(
	id kernel.UUID,
	driverID kernel.UUID,
	orderID kernel.UUID,
	cancellationID kernel.UUID,
	amount kernel.Money,
	reason string,
	now time.Time,
) (*DriverCompensation, error) {
	if err := errors.Join(
		id.Validate(),
		driverID.Validate(),
		orderID.Validate(),
		cancellationID.Validate(),
	); err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, errs.NewValueIsInvalidErrorWithCause("compensation amount",
			fmt.Errorf("%s is not greater than 0", amount))
	}

	return &DriverCompensation{
		id:             id,
		driverID:       driverID,
		orderID:        orderID,
		cancellationID: cancellationID,
		amount:         amount,
		reason:         reason,
		status:         CompensationPending,
		createdAt:      now,
		isConstructed:  true,
	}, nil
}

// RestoreDriverCompensation reconstructs a record from persistence.
func RestoreDriverCompensation(
	id kernel.UUID,
	driverID kernel.UUID,
	orderID kernel.UUID,
	cancellationID kernel.UUID,
	amount kernel.Money,
	reason string,
	status CompensationStatus,
	createdAt time.Time,
) (*DriverCompensation, error) {
	if err := errors.Join(
		id.Validate(),
		driverID.Validate(),
		orderID.Validate(),
		cancellationID.Validate(),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	return &DriverCompensation{
		id:             id,
		driverID:       driverID,
		orderID:        orderID,
		cancellationID: cancellationID,
		amount:         amount,
		reason:         reason,
		status:         status,
		createdAt:      createdAt,
		isConstructed:  true,
	}, nil
}

// Validate ensures the record was properly constructed.
func (d *DriverCompensation) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrCompensationIsNotConstructed
	}
	return nil
}

// ID returns the compensation's unique identifier.
func (d *DriverCompensation) ID() kernel.UUID {
	return d.id
}

// DriverID returns the compensated driver's identifier.
func (d *DriverCompensation) DriverID() kernel.UUID {
	return d.driverID
}

// OrderID returns the cancelled order's identifier.
func (d *DriverCompensation) OrderID() kernel.UUID {
	return d.orderID
}

// CancellationID returns the cancellation that produced this record.
func (d *DriverCompensation) CancellationID() kernel.UUID {
	return d.cancellationID
}

// Amount returns the payout amount.
func (d *DriverCompensation) Amount() kernel.Money {
	return d.amount
}

// Reason returns the payout reason.
func (d *DriverCompensation) Reason() string {
	return d.reason
}

// Status returns the payout status.
func (d *DriverCompensation) Status() CompensationStatus {
	return d.status
}

// CreatedAt returns when the record was created.
func (d *DriverCompensation) CreatedAt() time.Time {
	return d.createdAt
}

// MarkPaid records the payout execution.
func (d *DriverCompensation) MarkPaid() error {
	if d.status == CompensationPaid {
		return errs.NewStateConflictError("driver compensation", d.status.String())
	}
	d.status = CompensationPaid
	return nil
}
