package services

import (
	"fmt"
	"time"

	"orderpolicy/internal/core/domain/model/kernel"
	"orderpolicy/internal/core/domain/model/modification"
	"orderpolicy/internal/core/domain/model/order"
	"orderpolicy/internal/pkg/errs"
)

const (
	// MinRescheduleLead is the shortest notice accepted for a delivery
	// time change.
	MinRescheduleLead = 30 * time.Minute

	// MaxRescheduleHorizon is the furthest into the future a delivery
	// may be rescheduled.
	MaxRescheduleHorizon = 7 * 24 * time.Hour

	// ApprovalThresholdPercent is the share of the order total above
	// which a price impact forces human review.
	ApprovalThresholdPercent = 20
)

// Decision is the outcome of an eligibility check. When Allowed is false,
// Reason explains the refusal in customer-facing terms.
type Decision struct {
	Allowed bool
	Reason  string
}

// StatusRule describes what may be changed while an order sits in a given
// status: which change kinds are accepted, how long after entering the
// status they stay accepted (zero means no limit), and whether changes in
// this status go through merchant review.
type StatusRule struct {
	AllowedTypes  []modification.ChangeType
	TimeLimit     time.Duration
	NeedsApproval bool
}

// Allows reports whether the rule accepts the given change kind.
func (r StatusRule) Allows(t modification.ChangeType) bool {
	for _, allowed := range r.AllowedTypes {
		if allowed == t {
			return true
		}
	}
	return false
}

// getStatusRules returns the modification rule for each order status.
// Statuses absent from the map accept no modifications at all.
func getStatusRules() map[order.Status]StatusRule {
	return map[order.Status]StatusRule{
		order.StatusPending: {
			AllowedTypes: []modification.ChangeType{
				modification.ChangeTypeAddItem,
				modification.ChangeTypeRemoveItem,
				modification.ChangeTypeUpdateQuantity,
				modification.ChangeTypeChangeAddress,
				modification.ChangeTypeUpdateInstructions,
				modification.ChangeTypeChangeTime,
			},
		},
		order.StatusConfirmed: {
			AllowedTypes: []modification.ChangeType{
				modification.ChangeTypeAddItem,
				modification.ChangeTypeRemoveItem,
				modification.ChangeTypeUpdateQuantity,
				modification.ChangeTypeUpdateInstructions,
				modification.ChangeTypeChangeTime,
			},
			TimeLimit:     10 * time.Minute,
			NeedsApproval: true,
		},
		order.StatusPreparing: {
			AllowedTypes: []modification.ChangeType{
				modification.ChangeTypeAddItem,
				modification.ChangeTypeUpdateInstructions,
			},
			TimeLimit:     5 * time.Minute,
			NeedsApproval: true,
		},
		order.StatusReady: {
			AllowedTypes: []modification.ChangeType{
				modification.ChangeTypeUpdateInstructions,
			},
			NeedsApproval: true,
		},
	}
}

// ModificationPolicy is a domain service deciding whether an order may be
// modified right now, and whether a concrete change passes the per-kind
// business rules. It reads only the order snapshot and performs no I/O;
// the single-pending-modification gate and stock availability are enforced
// at the persistence and inventory boundaries respectively.
type ModificationPolicy struct{}

// NewModificationPolicy creates a new ModificationPolicy instance.
func NewModificationPolicy() ModificationPolicy {
	return ModificationPolicy{}
}

// CanModify reports whether the order accepts any modification at the
// given moment. It checks the order status, the merchant's settings, the
// driver's progress and the time window for the current status.
func (p ModificationPolicy) CanModify(o *order.Order, now time.Time) (Decision, error) {
	if err := o.Validate(); err != nil {
		return Decision{}, err
	}

	rule, ok := getStatusRules()[o.Status()]
	if !ok {
		return Decision{
			Reason: fmt.Sprintf("orders in status %q can no longer be modified", o.Status()),
		}, nil
	}

	if !o.MerchantPolicy().ModificationsEnabled() {
		return Decision{Reason: "the merchant does not accept order modifications"}, nil
	}

	if o.DeliveryStatus().EnRouteOrLater() {
		return Decision{Reason: "the order is already on its way"}, nil
	}

	if _, expired := p.windowRemaining(o, rule, now); expired {
		return Decision{
			Reason: fmt.Sprintf("the %s modification window of %s has passed",
				o.Status(), rule.TimeLimit),
		}, nil
	}

	return Decision{Allowed: true}, nil
}

// Options describes what may be changed on an order right now: the
// accepted change kinds, how long the window stays open (nil when the
// status has no limit) and whether changes may go through merchant
// review. NeedsApproval is the status-level ceiling, not a promise:
// a true value means review is possible in this status, while the
// per-request decision is RequiresApproval's, which still auto-applies
// changes below every trigger.
type Options struct {
	Allowed         bool
	Reason          string
	AllowedTypes    []modification.ChangeType
	WindowRemaining *time.Duration
	NeedsApproval   bool
}

// OptionsFor resolves the modification options for the order at the given
// moment. When nothing may be changed, Reason carries the explanation and
// the remaining fields are zero.
func (p ModificationPolicy) OptionsFor(o *order.Order, now time.Time) (Options, error) {
	decision, err := p.CanModify(o, now)
	if err != nil {
		return Options{}, err
	}
	if !decision.Allowed {
		return Options{Reason: decision.Reason}, nil
	}

	rule := getStatusRules()[o.Status()]
	opts := Options{
		Allowed:       true,
		AllowedTypes:  rule.AllowedTypes,
		NeedsApproval: rule.NeedsApproval,
	}
	if rule.TimeLimit > 0 {
		remaining, _ := p.windowRemaining(o, rule, now)
		opts.WindowRemaining = &remaining
	}
	return opts, nil
}

// ValidateChange checks a single change against the order's current status
// rule and the change kind's own business rules. It returns advisory
// warnings alongside a nil error when the change is acceptable.
func (p ModificationPolicy) ValidateChange(
	o *order.Order, change modification.Change, now time.Time,
) ([]string, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if err := change.Validate(); err != nil {
		return nil, err
	}

	decision, err := p.CanModify(o, now)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, errs.NewValueIsInvalidErrorWithCause("modification",
			fmt.Errorf("%s", decision.Reason))
	}

	rule := getStatusRules()[o.Status()]
	if !rule.Allows(change.Type()) {
		return nil, errs.NewValueIsInvalidErrorWithCause("change type",
			fmt.Errorf("%s is not allowed while the order is %s", change.Type(), o.Status()))
	}

	var warnings []string
	if remaining, _ := p.windowRemaining(o, rule, now); remaining > 0 && remaining < time.Minute {
		warnings = append(warnings,
			fmt.Sprintf("modification window closes in %s", remaining.Round(time.Second)))
	}

	kindWarnings, err := p.validateKind(o, change, now)
	if err != nil {
		return nil, err
	}

	return append(warnings, kindWarnings...), nil
}

// RequiresApproval reports whether a set of changes with the given total
// price impact must be reviewed by the merchant before it is applied.
// This is the per-request decision; the status table's NeedsApproval flag
// surfaced through OptionsFor only says review can happen in the current
// status. A confirmed-order change below every trigger here applies
// immediately even though OptionsFor advertises NeedsApproval.
func (p ModificationPolicy) RequiresApproval(
	o *order.Order, changes []modification.Change, impact kernel.Money, now time.Time,
) bool {
	if o.Status() == order.StatusPreparing || o.Status() == order.StatusReady {
		return true
	}

	threshold := o.Total().Percent(ApprovalThresholdPercent)
	if impact.Abs().GreaterThan(threshold) {
		return true
	}

	for _, change := range changes {
		switch c := change.(type) {
		case modification.ChangeAddress:
			if o.Status() != order.StatusPending {
				return true
			}
		case modification.ChangeTime:
			if c.NewTime.Sub(now) < MinRescheduleLead {
				return true
			}
		}
	}

	return false
}

// windowRemaining returns how long the current status window stays open
// and whether it has already expired. A rule without a time limit never
// expires.
func (p ModificationPolicy) windowRemaining(
	o *order.Order, rule StatusRule, now time.Time,
) (time.Duration, bool) {
	if rule.TimeLimit == 0 {
		return 0, false
	}

	enteredAt, ok := o.StatusEnteredAt(o.Status())
	if !ok {
		return 0, false
	}

	remaining := rule.TimeLimit - now.Sub(enteredAt)
	return remaining, remaining <= 0
}

func (p ModificationPolicy) validateKind(
	o *order.Order, change modification.Change, now time.Time,
) ([]string, error) {
	switch c := change.(type) {
	case modification.AddItem:
		if o.Item(c.ItemID) != nil {
			return nil, errs.NewValueIsInvalidErrorWithCause("item",
				fmt.Errorf("item %s is already on the order, update its quantity instead", c.ItemID))
		}
		return nil, nil

	case modification.RemoveItem:
		if o.Item(c.ItemID) == nil {
			return nil, errs.NewObjectNotFoundError("order item", c.ItemID)
		}
		if o.LineCount() == 1 {
			return nil, order.ErrCannotRemoveLastItem
		}
		return nil, nil

	case modification.UpdateQuantity:
		if o.Item(c.ItemID) == nil {
			return nil, errs.NewObjectNotFoundError("order item", c.ItemID)
		}
		return nil, nil

	case modification.ChangeAddress:
		if !o.MerchantPolicy().ServesZone(c.Address.Zone()) {
			return nil, errs.NewValueIsInvalidErrorWithCause("delivery address",
				fmt.Errorf("the merchant does not deliver to zone %q", c.Address.Zone()))
		}
		var warnings []string
		if !c.NewDeliveryFee.IsEqual(o.DeliveryFee()) {
			warnings = append(warnings,
				fmt.Sprintf("delivery fee changes from %s to %s",
					o.DeliveryFee(), c.NewDeliveryFee))
		}
		return warnings, nil

	case modification.UpdateInstructions:
		if len(c.Instructions) > order.MaxInstructionsLength {
			return nil, errs.NewValueIsOutOfRangeError("instructions length",
				len(c.Instructions), 0, order.MaxInstructionsLength)
		}
		return nil, nil

	case modification.ChangeTime:
		lead := c.NewTime.Sub(now)
		if lead < MinRescheduleLead {
			return nil, errs.NewValueIsInvalidErrorWithCause("new delivery time",
				fmt.Errorf("at least %s notice is required", MinRescheduleLead))
		}
		if lead > MaxRescheduleHorizon {
			return nil, errs.NewValueIsInvalidErrorWithCause("new delivery time",
				fmt.Errorf("cannot schedule more than %s ahead", MaxRescheduleHorizon))
		}
		if !o.MerchantPolicy().IsOpenAt(c.NewTime) {
			return nil, errs.NewValueIsInvalidErrorWithCause("new delivery time",
				fmt.Errorf("the merchant is closed at the requested time"))
		}
		return nil, nil

	default:
		return nil, errs.NewValueIsInvalidError("change type")
	}
}
