package commands

import (
	"context"
	"errors"

	"orderpolicy/internal/core/domain/model/kernel"
	"orderpolicy/internal/core/domain/model/modification"
	"orderpolicy/internal/pkg/errs"
	"orderpolicy/internal/pkg/guard"
)

var (
	ErrReviewModificationCommandIsNotConstructed = errors.New(
		"ReviewModificationCommand must be created via NewReviewModificationCommand constructor",
	)
)

// ReviewModificationCommand represents a merchant's or staff member's
// decision on a pending modification. The same command shape serves both
// approval and rejection; the handlers differ.
type ReviewModificationCommand struct { //nolint:recvcheck //using for validation
	modificationID kernel.UUID
	reviewedBy     kernel.Actor

	guard guard.ConstructorGuard
}

// NewReviewModificationCommand creates a command to review a pending modification.
// Only merchants, support and admins may review.
func NewReviewModificationCommand(
	modificationID kernel.UUID,
	reviewedBy kernel.Actor,
) (ReviewModificationCommand, error) {
	if err := errors.Join(
		modificationID.Validate(),
		reviewedBy.Validate(),
	); err != nil {
		return ReviewModificationCommand{}, err
	}
	switch reviewedBy.Role() {
	case kernel.RoleMerchant, kernel.RoleSupport, kernel.RoleAdmin:
	default:
		return ReviewModificationCommand{}, errs.NewAuthorizationError(
			reviewedBy.Role().String(), "review modification")
	}

	return ReviewModificationCommand{
		modificationID: modificationID,
		reviewedBy:     reviewedBy,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ReviewModificationCommand) Validate() error {
	return c.guard.Validate(ErrReviewModificationCommandIsNotConstructed)
}

// ModificationID returns the modification under review.
func (c ReviewModificationCommand) ModificationID() kernel.UUID {
	return c.modificationID
}

// ReviewedBy returns the reviewing party.
func (c ReviewModificationCommand) ReviewedBy() kernel.Actor {
	return c.reviewedBy
}

// authorizeReviewer checks that the reviewer may decide this modification.
// Support and admin staff review any order; a merchant only modifications
// of orders placed with them.
func authorizeReviewer(
	ctx context.Context,
	uow ModificationUoW,
	mod *modification.Modification,
	reviewer kernel.Actor,
) error {
	if reviewer.IsStaff() {
		return nil
	}

	o, err := uow.OrderRepository().Get(ctx, mod.OrderID())
	if err != nil {
		return err
	}
	if !reviewer.ID().IsEqual(o.MerchantID()) {
		return errs.NewAuthorizationError(reviewer.ID().String(), "review another merchant's order")
	}
	return nil
}
