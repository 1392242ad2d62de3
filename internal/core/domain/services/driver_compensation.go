package services

import (
	"fmt"
	"time"

	"orderpolicy/internal/core/domain/model/cancellation"
	"orderpolicy/internal/core/domain/model/kernel"
	"orderpolicy/internal/core/domain/model/order"
)

// CompensationCalculator is a domain service computing the partial payout
// owed to a driver whose delivery is cancelled after work has begun. The
// payout is a share of the delivery fee that grows with the driver's
// progress; payout execution itself is handled elsewhere.
type CompensationCalculator struct{}

// NewCompensationCalculator creates a new CompensationCalculator instance.
func NewCompensationCalculator() CompensationCalculator {
	return CompensationCalculator{}
}

// CompensationPercent returns the share of the delivery fee owed for the
// given delivery progress: 25% once assigned, 50% once the driver reached
// the merchant, 75% once the order was collected, otherwise nothing.
func (c CompensationCalculator) CompensationPercent(status order.DeliveryStatus) int {
	switch {
	case status == order.DeliveryAssigned:
		return 25
	case status == order.DeliveryArrivedAtPickup:
		return 50
	case status >= order.DeliveryPickedUp && status < order.DeliveryCompleted:
		return 75
	default:
		return 0
	}
}

// CompensationAmount returns the payout for the order's current delivery
// progress, rounded to cents.
func (c CompensationCalculator) CompensationAmount(o *order.Order) kernel.Money {
	pct := c.CompensationPercent(o.DeliveryStatus())
	if pct == 0 {
		return kernel.ZeroMoney()
	}
	return o.DeliveryFee().Percent(pct).Round2()
}

// BuildCompensation creates the pending payout record for the order's
// driver at cancellation time. It returns nil when no driver work was in
// progress or the computed payout is zero.
func (c CompensationCalculator) BuildCompensation(
	o *order.Order, cancellationID kernel.UUID, now time.Time,
) (*cancellation.DriverCompensation, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	driverID := o.DriverID()
	if driverID == nil {
		return nil, nil
	}

	amount := c.CompensationAmount(o)
	if !amount.IsPositive() {
		return nil, nil
	}

	reason := fmt.Sprintf("order cancelled while delivery was %s", o.DeliveryStatus())

	return cancellation.NewDriverCompensation(
		kernel.NewUUID(), *driverID, o.ID(), cancellationID, amount, reason, now)
}
