package commands

import (
	"errors"

	"orderpolicy/internal/core/domain/model/kernel"
	"orderpolicy/internal/core/domain/model/modification"
	"orderpolicy/internal/pkg/errs"
	"orderpolicy/internal/pkg/guard"
)

var (
	ErrRequestModificationCommandIsNotConstructed = errors.New(
		"RequestModificationCommand must be created via NewRequestModificationCommand constructor",
	)
)

// RequestModificationCommand represents a customer's request to change an
// active order. Carries the full set of changes so they are validated and
// applied as one unit.
//
// Example:
//
//	cmd, err := NewRequestModificationCommand(
//	    kernel.NewUUID(), orderID, actor,
//	    []modification.Change{modification.RemoveItem{ItemID: itemID}},
//	)
//	if err != nil {
//	    return fmt.Errorf("invalid modification request: %w", err)
//	}
//
//	handler := NewRequestModificationCommandHandler(uowFactory, notifier)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("modification request failed: %w", err)
//	}
type RequestModificationCommand struct { //nolint:recvcheck //using for validation
	modificationID kernel.UUID
	orderID        kernel.UUID
	requestedBy    kernel.Actor
	changes        []modification.Change

	guard guard.ConstructorGuard
}

// NewRequestModificationCommand creates a command to request an order change.
// Validates identifiers, the acting party and every individual change.
func NewRequestModificationCommand(
	modificationID kernel.UUID,
	orderID kernel.UUID,
	requestedBy kernel.Actor,
	changes []modification.Change,
) (RequestModificationCommand, error) {
	if err := errors.Join(
		modificationID.Validate(),
		orderID.Validate(),
		requestedBy.Validate(),
	); err != nil {
		return RequestModificationCommand{}, err
	}
	if len(changes) == 0 {
		return RequestModificationCommand{}, errs.NewValueIsRequiredError("changes")
	}
	for _, c := range changes {
		if err := c.Validate(); err != nil {
			return RequestModificationCommand{}, err
		}
	}

	return RequestModificationCommand{
		modificationID: modificationID,
		orderID:        orderID,
		requestedBy:    requestedBy,
		changes:        changes,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c RequestModificationCommand) Validate() error {
	return c.guard.Validate(ErrRequestModificationCommandIsNotConstructed)
}

// ModificationID returns the identifier assigned to the new modification.
func (c RequestModificationCommand) ModificationID() kernel.UUID {
	return c.modificationID
}

// OrderID returns the order being modified.
func (c RequestModificationCommand) OrderID() kernel.UUID {
	return c.orderID
}

// RequestedBy returns the acting party.
func (c RequestModificationCommand) RequestedBy() kernel.Actor {
	return c.requestedBy
}

// Changes returns the requested changes.
func (c RequestModificationCommand) Changes() []modification.Change {
	return c.changes
}
