package services

import (
	"fmt"
	"time"

	"orderpolicy/internal/core/domain/model/kernel"
	"orderpolicy/internal/core/domain/model/order"
	"orderpolicy/internal/pkg/errs"
)

const (
	// confirmedFullRefundWindow is how long after placement a confirmed
	// order still refunds in full.
	confirmedFullRefundWindow = 5 * time.Minute

	// confirmedReducedRefundWindow is the upper bound of the 90% band.
	confirmedReducedRefundWindow = 10 * time.Minute

	// customerPreparingGrace is how far into preparation a customer may
	// still cancel their own order.
	customerPreparingGrace = 5 * time.Minute

	// lastMinuteDeliveryWindow is the time-to-delivery below which the
	// delivery fee is withheld from the refund.
	lastMinuteDeliveryWindow = 30 * time.Minute
)

// Policy is the resolved cancellation outcome for an order at a moment in
// time. When CanCancel is false, Reason explains the refusal and the
// monetary fields are zero. Rules lists the clauses that produced the
// outcome, in the order they were applied.
type Policy struct {
	CanCancel        bool
	Reason           string
	RefundPercentage int
	PenaltyAmount    kernel.Money
	Rules            []string
}

// CancellationPolicy is a domain service resolving whether an order may be
// cancelled and at what cost. The outcome depends on the order status, the
// order's age, the merchant's mid-preparation setting and how close the
// estimated delivery is. It reads only the order snapshot.
type CancellationPolicy struct{}

// NewCancellationPolicy creates a new CancellationPolicy instance.
func NewCancellationPolicy() CancellationPolicy {
	return CancellationPolicy{}
}

// PolicyFor resolves the cancellation policy for the order at the given
// moment.
func (p CancellationPolicy) PolicyFor(o *order.Order, now time.Time) (Policy, error) {
	if err := o.Validate(); err != nil {
		return Policy{}, err
	}

	policy := p.baseBand(o, now)
	if !policy.CanCancel {
		return policy, nil
	}

	if eta := o.EstimatedDeliveryAt(); eta != nil && eta.Sub(now) < lastMinuteDeliveryWindow {
		policy.PenaltyAmount = policy.PenaltyAmount.Add(o.DeliveryFee())
		policy.Rules = append(policy.Rules,
			fmt.Sprintf("delivery expected within %s: delivery fee withheld", lastMinuteDeliveryWindow))
	}

	return policy, nil
}

// PolicyForActor resolves the policy as PolicyFor does, then layers the
// staff override on top: support and admin staff may cancel an order the
// status bands refuse once the food is out of the kitchen. The customer
// forfeits the full amount; the driver is compensated separately.
func (p CancellationPolicy) PolicyForActor(o *order.Order, actor kernel.Actor, now time.Time) (Policy, error) {
	policy, err := p.PolicyFor(o, now)
	if err != nil {
		return Policy{}, err
	}
	if policy.CanCancel || !actor.IsStaff() {
		return policy, nil
	}

	switch o.Status() {
	case order.StatusReady, order.StatusAssigned, order.StatusPickedUp:
		return Policy{
			CanCancel:        true,
			RefundPercentage: 0,
			PenaltyAmount:    kernel.ZeroMoney(),
			Rules: []string{fmt.Sprintf(
				"staff cancellation in status %q: the full amount is forfeited", o.Status())},
		}, nil
	default:
		return policy, nil
	}
}

// RefundAmount computes the money returned to the customer under the given
// policy: the refund percentage of the order total, less the penalty,
// floored at zero and rounded to cents.
func (p CancellationPolicy) RefundAmount(o *order.Order, policy Policy) kernel.Money {
	if !policy.CanCancel {
		return kernel.ZeroMoney()
	}

	amount := o.Total().Percent(policy.RefundPercentage).Sub(policy.PenaltyAmount)
	if amount.IsNegative() {
		return kernel.ZeroMoney()
	}
	return amount.Round2()
}

// AuthorizeCancel checks that the actor is entitled to cancel this order.
// Customers may cancel only their own order before pickup and no deeper
// than a few minutes into preparation; merchants may cancel their own
// orders until the driver collects them; support and admin staff may
// always cancel; a driver may only request cancellation of the delivery
// assigned to them.
func (p CancellationPolicy) AuthorizeCancel(o *order.Order, actor kernel.Actor, now time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := actor.Validate(); err != nil {
		return err
	}

	switch actor.Role() {
	case kernel.RoleSupport, kernel.RoleAdmin:
		return nil

	case kernel.RoleCustomer:
		if !actor.ID().IsEqual(o.CustomerID()) {
			return errs.NewAuthorizationError(actor.ID().String(), "cancel another customer's order")
		}
		if o.DeliveryStatus() >= order.DeliveryPickedUp {
			return errs.NewAuthorizationError(actor.ID().String(), "cancel an order after pickup")
		}
		if o.Status() == order.StatusPreparing {
			enteredAt, ok := o.StatusEnteredAt(order.StatusPreparing)
			if ok && now.Sub(enteredAt) > customerPreparingGrace {
				return errs.NewAuthorizationError(actor.ID().String(),
					fmt.Sprintf("cancel an order more than %s into preparation", customerPreparingGrace))
			}
		}
		return nil

	case kernel.RoleMerchant:
		if !actor.ID().IsEqual(o.MerchantID()) {
			return errs.NewAuthorizationError(actor.ID().String(), "cancel another merchant's order")
		}
		if o.DeliveryStatus() >= order.DeliveryPickedUp {
			return errs.NewAuthorizationError(actor.ID().String(), "cancel an order after pickup")
		}
		return nil

	case kernel.RoleDriver:
		if o.DriverID() == nil || !o.DriverID().IsEqual(actor.ID()) {
			return errs.NewAuthorizationError(actor.ID().String(), "cancel a delivery not assigned to them")
		}
		return nil

	default:
		return errs.NewAuthorizationError(actor.ID().String(), "cancel the order")
	}
}

// baseBand resolves the status/age band before any delivery-time penalty
// is layered on.
func (p CancellationPolicy) baseBand(o *order.Order, now time.Time) Policy {
	switch o.Status() {
	case order.StatusPending:
		return Policy{
			CanCancel:        true,
			RefundPercentage: 100,
			PenaltyAmount:    kernel.ZeroMoney(),
			Rules:            []string{"order not yet confirmed: full refund"},
		}

	case order.StatusConfirmed:
		age := o.AgeAt(now)
		switch {
		case age < confirmedFullRefundWindow:
			return Policy{
				CanCancel:        true,
				RefundPercentage: 100,
				PenaltyAmount:    kernel.ZeroMoney(),
				Rules: []string{fmt.Sprintf("confirmed less than %s ago: full refund",
					confirmedFullRefundWindow)},
			}
		case age <= confirmedReducedRefundWindow:
			return Policy{
				CanCancel:        true,
				RefundPercentage: 90,
				PenaltyAmount:    kernel.ZeroMoney(),
				Rules: []string{fmt.Sprintf("confirmed between %s and %s ago: 90%% refund, 10%% of the total withheld",
					confirmedFullRefundWindow, confirmedReducedRefundWindow)},
			}
		default:
			return Policy{
				CanCancel:        true,
				RefundPercentage: 80,
				PenaltyAmount:    kernel.ZeroMoney(),
				Rules: []string{fmt.Sprintf("confirmed more than %s ago: 80%% refund, 20%% of the total withheld",
					confirmedReducedRefundWindow)},
			}
		}

	case order.StatusPreparing:
		if !o.MerchantPolicy().AllowMidPrepCancellation() {
			return Policy{
				Reason: "the merchant does not allow cancellation once preparation has started",
			}
		}
		return Policy{
			CanCancel:        true,
			RefundPercentage: 50,
			PenaltyAmount:    kernel.ZeroMoney(),
			Rules:            []string{"preparation in progress: 50% refund, half the total withheld"},
		}

	case order.StatusReady, order.StatusAssigned, order.StatusPickedUp:
		return Policy{
			Reason: fmt.Sprintf("orders in status %q cannot be cancelled, the full amount is forfeited", o.Status()),
		}

	case order.StatusDelivered:
		return Policy{Reason: "the order has already been delivered"}

	case order.StatusCancelled:
		return Policy{Reason: "the order is already cancelled"}

	default:
		return Policy{Reason: fmt.Sprintf("orders in status %q cannot be cancelled", o.Status())}
	}
}
