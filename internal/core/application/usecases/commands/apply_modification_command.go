package commands

import (
	"errors"

	"orderpolicy/internal/core/domain/model/kernel"
	"orderpolicy/internal/pkg/guard"
)

var (
	ErrApplyModificationCommandIsNotConstructed = errors.New(
		"ApplyModificationCommand must be created via NewApplyModificationCommand constructor",
	)
)

// ApplyModificationCommand represents applying an approved modification to
// its order. Issued by the queue consumer, never directly by an API caller.
type ApplyModificationCommand struct { //nolint:recvcheck //using for validation
	modificationID kernel.UUID

	guard guard.ConstructorGuard
}

// NewApplyModificationCommand creates a command to apply an approved modification.
func NewApplyModificationCommand(modificationID kernel.UUID) (ApplyModificationCommand, error) {
	if err := modificationID.Validate(); err != nil {
		return ApplyModificationCommand{}, err
	}

	return ApplyModificationCommand{
		modificationID: modificationID,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ApplyModificationCommand) Validate() error {
	return c.guard.Validate(ErrApplyModificationCommandIsNotConstructed)
}

// ModificationID returns the modification to apply.
func (c ApplyModificationCommand) ModificationID() kernel.UUID {
	return c.modificationID
}
