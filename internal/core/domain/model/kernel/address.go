package kernel

import (
	"errors"
	"fmt"

	"orderpolicy/internal/pkg/errs"
	"orderpolicy/internal/pkg/guard"
)

// ErrAddressIsNotConstructed is returned when attempting to use an improperly
// initialized Address. Addresses must be created via NewAddress.
var ErrAddressIsNotConstructed = errs.NewValueIsRequiredError(
	"address must be created via NewAddress constructor")

// Address represents a delivery destination. It is an immutable value object;
// the zone identifier is what the modification policy checks against a
// merchant's delivery zones when a customer asks to redirect an order.
//
// Example:
//
//	addr, err := kernel.NewAddress("221B Baker Street", "London", "central")
//	if err != nil {
//	    // Handle validation error
//	}
type Address struct { //nolint:recvcheck //using for validation
	street string
	city   string
	zone   string

	guard guard.ConstructorGuard
}

// NewAddress creates a validated Address. Street, city and zone are all
// required; zone is the delivery-zone identifier used in policy checks.
func NewAddress(street, city, zone string) (Address, error) {
	addr := Address{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		addr.setStreet(street),
		addr.setCity(city),
		addr.setZone(zone),
	); err != nil {
		return Address{}, err
	}

	return addr, nil
}

// Validate checks that the Address was constructed via NewAddress.
func (a Address) Validate() error {
	return a.guard.Validate(ErrAddressIsNotConstructed)
}

// Street returns the street line of the address.
func (a Address) Street() string {
	return a.street
}

// City returns the city of the address.
func (a Address) City() string {
	return a.city
}

// Zone returns the delivery-zone identifier.
func (a Address) Zone() string {
	return a.zone
}

// IsEqual compares two addresses field by field.
func (a Address) IsEqual(other Address) bool {
	return a.street == other.street && a.city == other.city && a.zone == other.zone
}

// String returns a human-readable representation of the address.
func (a Address) String() string {
	return fmt.Sprintf("%s, %s (%s)", a.street, a.city, a.zone)
}

func (a *Address) setStreet(street string) error {
	if street == "" {
		return errs.NewValueIsRequiredError("street")
	}
	a.street = street
	return nil
}

func (a *Address) setCity(city string) error {
	if city == "" {
		return errs.NewValueIsRequiredError("city")
	}
	a.city = city
	return nil
}

func (a *Address) setZone(zone string) error {
	if zone == "" {
		return errs.NewValueIsRequiredError("zone")
	}
	a.zone = zone
	return nil
}
