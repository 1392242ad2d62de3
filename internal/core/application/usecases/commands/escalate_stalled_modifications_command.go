package commands

import (
	"errors"

	"orderpolicy/internal/pkg/guard"
)

var (
	ErrEscalateStalledModificationsCommandIsNotConstructed = errors.New(
		"EscalateStalledModificationsCommand must be created via NewEscalateStalledModificationsCommand constructor",
	)
)

// EscalateStalledModificationsCommand triggers a sweep for pending
// modifications no reviewer has acted on. Issued by the scheduler.
type EscalateStalledModificationsCommand struct { //nolint:recvcheck //using for validation
	guard guard.ConstructorGuard
}

// NewEscalateStalledModificationsCommand creates a command to sweep for
// stalled modification requests.
func NewEscalateStalledModificationsCommand() EscalateStalledModificationsCommand {
	return EscalateStalledModificationsCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c EscalateStalledModificationsCommand) Validate() error {
	return c.guard.Validate(ErrEscalateStalledModificationsCommandIsNotConstructed)
}
