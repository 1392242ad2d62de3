package kernel

import (
	"fmt"

	"orderpolicy/internal/pkg/errs"
)

// Role represents the acting party's relationship to an order. Roles are
// resolved from the authenticated principal by the caller, never inferred
// from identifier text.
type Role int

const (
	// RoleUnknown represents an invalid or undefined role.
	RoleUnknown Role = iota

	// RoleCustomer is the customer who placed the order.
	RoleCustomer

	// RoleMerchant is the merchant preparing the order.
	RoleMerchant

	// RoleDriver is the driver assigned to the delivery.
	RoleDriver

	// RoleSupport is a support staff member.
	RoleSupport

	// RoleAdmin is a platform administrator.
	RoleAdmin
)

func getRoleStrings() map[Role]string {
	return map[Role]string{
		RoleUnknown:  "unknown",
		RoleCustomer: "customer",
		RoleMerchant: "merchant",
		RoleDriver:   "driver",
		RoleSupport:  "support",
		RoleAdmin:    "admin",
	}
}

// Validate checks that the role is one of the defined values.
func (r Role) Validate() error {
	if r == RoleUnknown {
		return errs.NewValueIsInvalidErrorWithCause("role",
			fmt.Errorf("%d is not a valid role", r))
	}
	if _, ok := getRoleStrings()[r]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("role",
			fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

// String returns the lowercase name of the role.
func (r Role) String() string {
	if s, ok := getRoleStrings()[r]; ok {
		return s
	}
	return "unknown"
}

// Actor identifies the authenticated principal performing an operation
// together with its explicit role. Actor is an immutable value object.
//
// Example:
//
//	actor, err := kernel.NewActor(customerID, kernel.RoleCustomer)
type Actor struct {
	id   UUID
	role Role
}

// NewActor creates a validated Actor from a principal id and role.
func NewActor(id UUID, role Role) (Actor, error) {
	if err := id.Validate(); err != nil {
		return Actor{}, err
	}
	if err := role.Validate(); err != nil {
		return Actor{}, err
	}
	return Actor{id: id, role: role}, nil
}

// ID returns the principal's unique identifier.
func (a Actor) ID() UUID {
	return a.id
}

// Role returns the principal's role.
func (a Actor) Role() Role {
	return a.role
}

// Is reports whether the actor holds the given role.
func (a Actor) Is(role Role) bool {
	return a.role == role
}

// IsStaff reports whether the actor is support or admin staff.
func (a Actor) IsStaff() bool {
	return a.role == RoleSupport || a.role == RoleAdmin
}

// Validate checks that the actor carries a valid id and role.
func (a Actor) Validate() error {
	if err := a.id.Validate(); err != nil {
		return err
	}
	return a.role.Validate()
}
