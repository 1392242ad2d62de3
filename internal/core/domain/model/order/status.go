package order

import (
	"fmt"

	"orderpolicy/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
// It implements a state machine with defined transitions so orders always
// follow the business workflow:
//
//	Pending → Confirmed → Preparing → Ready → Assigned → PickedUp → Delivered
//
// Cancelled is reachable from every non-terminal state, subject to the
// cancellation policy gates. Delivered and Cancelled are terminal.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	StatusUnknown Status = iota

	// StatusPending is the initial status: placed but not yet confirmed
	// by the merchant.
	StatusPending

	// StatusConfirmed indicates the merchant accepted the order.
	StatusConfirmed

	// StatusPreparing indicates the kitchen started working on the order.
	StatusPreparing

	// StatusReady indicates the order is packed and awaiting a driver.
	StatusReady

	// StatusAssigned indicates a driver was assigned to the delivery.
	StatusAssigned

	// StatusPickedUp indicates the driver collected the order.
	StatusPickedUp

	// StatusDelivered indicates the order reached the customer. Terminal.
	StatusDelivered

	// StatusCancelled indicates the order was cancelled. Terminal.
	StatusCancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:   "unknown",
		StatusPending:   "pending",
		StatusConfirmed: "confirmed",
		StatusPreparing: "preparing",
		StatusReady:     "ready",
		StatusAssigned:  "assigned",
		StatusPickedUp:  "picked_up",
		StatusDelivered: "delivered",
		StatusCancelled: "cancelled",
	}
}

// getStatusTransitions returns the forward transition for each status.
// Cancellation is handled separately since it branches from every
// non-terminal state.
func getStatusTransitions() map[Status]Status {
	return map[Status]Status{
		StatusPending:   StatusConfirmed,
		StatusConfirmed: StatusPreparing,
		StatusPreparing: StatusReady,
		StatusReady:     StatusAssigned,
		StatusAssigned:  StatusPickedUp,
		StatusPickedUp:  StatusDelivered,
	}
}

// Validate checks that the Status value is one of the defined lifecycle
// states. StatusUnknown and out-of-range values are invalid.
func (s Status) Validate() error {
	if s == StatusUnknown {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", s))
	}
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the lowercase name of the status.
// Implements fmt.Stringer and is safe on any value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether the status allows no further transitions.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanAdvanceTo reports whether next is the legal forward transition
// from the current status.
func (s Status) CanAdvanceTo(next Status) bool {
	forward, ok := getStatusTransitions()[s]
	return ok && forward == next
}

// Advance transitions to the next status, validating the move.
//
// Returns:
//   - (next, nil) on a legal forward transition
//   - (0, error) if the transition is not allowed from the current status
func (s Status) Advance(next Status) (Status, error) {
	if !s.CanAdvanceTo(next) {
		return 0, errs.NewStateConflictErrorWithCause("order", s.String(),
			fmt.Errorf("cannot transition from %s to %s", s, next))
	}
	return next, nil
}

// Cancel transitions to Cancelled. Any non-terminal status may be
// cancelled at the state-machine level; whether a given order is
// eligible is the cancellation policy's decision, not the machine's.
func (s Status) Cancel() (Status, error) {
	if s.IsTerminal() {
		return 0, errs.NewStateConflictErrorWithCause("order", s.String(),
			fmt.Errorf("cannot cancel a %s order", s))
	}
	if err := s.Validate(); err != nil {
		return 0, err
	}
	return StatusCancelled, nil
}
