package modification

import (
	"fmt"
	"time"

	"orderpolicy/internal/core/domain/model/kernel"
	"orderpolicy/internal/pkg/errs"
)

// ChangeType identifies the kind of a requested order change.
type ChangeType int

const (
	// ChangeTypeUnknown represents an invalid or undefined change kind.
	ChangeTypeUnknown ChangeType = iota

	// ChangeTypeAddItem adds a new line item.
	ChangeTypeAddItem

	// ChangeTypeRemoveItem removes an existing line item.
	ChangeTypeRemoveItem

	// ChangeTypeUpdateQuantity changes a line item's quantity.
	ChangeTypeUpdateQuantity

	// ChangeTypeChangeAddress redirects the delivery.
	ChangeTypeChangeAddress

	// ChangeTypeUpdateInstructions replaces the delivery instructions.
	ChangeTypeUpdateInstructions

	// ChangeTypeChangeTime reschedules the delivery.
	ChangeTypeChangeTime
)

func getChangeTypeStrings() map[ChangeType]string {
	return map[ChangeType]string{
		ChangeTypeUnknown:            "unknown",
		ChangeTypeAddItem:            "add_item",
		ChangeTypeRemoveItem:         "remove_item",
		ChangeTypeUpdateQuantity:     "update_quantity",
		ChangeTypeChangeAddress:      "change_address",
		ChangeTypeUpdateInstructions: "update_instructions",
		ChangeTypeChangeTime:         "change_time",
	}
}

// Validate checks that the value is one of the defined change kinds.
func (t ChangeType) Validate() error {
	if t == ChangeTypeUnknown {
		return errs.NewValueIsInvalidErrorWithCause("change type",
			fmt.Errorf("%d is not a valid change type", t))
	}
	if _, ok := getChangeTypeStrings()[t]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("change type",
			fmt.Errorf("%d is not a valid change type", t))
	}
	return nil
}

// String returns the snake_case name of the change type.
func (t ChangeType) String() string {
	if s, ok := getChangeTypeStrings()[t]; ok {
		return s
	}
	return "unknown"
}

// ChangeTypeFromString parses a snake_case change type name.
func ChangeTypeFromString(s string) (ChangeType, error) {
	for t, name := range getChangeTypeStrings() {
		if name == s && t != ChangeTypeUnknown {
			return t, nil
		}
	}
	return ChangeTypeUnknown, errs.NewValueIsInvalidErrorWithCause("change type",
		fmt.Errorf("%q is not a valid change type", s))
}

// Change is the closed set of order change requests. Each kind carries its
// own fields and validates itself at construction; a heterogeneous payload
// never reaches the domain untyped.
//
// The set is sealed: only the variants in this package implement the
// interface.
type Change interface {
	// Type returns the kind tag of the change.
	Type() ChangeType

	// Validate checks the kind-specific fields.
	Validate() error

	sealed()
}

// AddItem requests adding a new line item at its quoted unit price.
type AddItem struct {
	ItemID    kernel.UUID
	Name      string
	UnitPrice kernel.Money
	Quantity  int
}

// Type implements Change.
func (c AddItem) Type() ChangeType { return ChangeTypeAddItem }

// Validate implements Change.
func (c AddItem) Validate() error {
	if err := c.ItemID.Validate(); err != nil {
		return err
	}
	if c.Name == "" {
		return errs.NewValueIsRequiredError("item name")
	}
	if c.UnitPrice.IsNegative() {
		return errs.NewValueIsInvalidError("unit price")
	}
	if c.Quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", c.Quantity))
	}
	return nil
}

func (c AddItem) sealed() {}

// RemoveItem requests removing an existing line item.
type RemoveItem struct {
	ItemID kernel.UUID
}

// Type implements Change.
func (c RemoveItem) Type() ChangeType { return ChangeTypeRemoveItem }

// Validate implements Change.
func (c RemoveItem) Validate() error {
	return c.ItemID.Validate()
}

func (c RemoveItem) sealed() {}

// UpdateQuantity requests changing an existing line item's quantity.
type UpdateQuantity struct {
	ItemID   kernel.UUID
	Quantity int
}

// Type implements Change.
func (c UpdateQuantity) Type() ChangeType { return ChangeTypeUpdateQuantity }

// Validate implements Change.
func (c UpdateQuantity) Validate() error {
	if err := c.ItemID.Validate(); err != nil {
		return err
	}
	if c.Quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", c.Quantity))
	}
	return nil
}

func (c UpdateQuantity) sealed() {}

// ChangeAddress requests redirecting the delivery to a new address.
// NewDeliveryFee is the recomputed fee for the new destination.
type ChangeAddress struct {
	Address        kernel.Address
	NewDeliveryFee kernel.Money
}

// Type implements Change.
func (c ChangeAddress) Type() ChangeType { return ChangeTypeChangeAddress }

// Validate implements Change.
func (c ChangeAddress) Validate() error {
	if err := c.Address.Validate(); err != nil {
		return err
	}
	if c.NewDeliveryFee.IsNegative() {
		return errs.NewValueIsInvalidError("delivery fee")
	}
	return nil
}

func (c ChangeAddress) sealed() {}

// UpdateInstructions requests replacing the delivery instructions.
type UpdateInstructions struct {
	Instructions string
}

// Type implements Change.
func (c UpdateInstructions) Type() ChangeType { return ChangeTypeUpdateInstructions }

// Validate implements Change.
func (c UpdateInstructions) Validate() error {
	// Length is capped by the order aggregate and re-checked by the
	// modification policy; nothing kind-specific to reject here.
	return nil
}

func (c UpdateInstructions) sealed() {}

// ChangeTime requests rescheduling the delivery to a new time.
type ChangeTime struct {
	NewTime time.Time
}

// Type implements Change.
func (c ChangeTime) Type() ChangeType { return ChangeTypeChangeTime }

// Validate implements Change.
func (c ChangeTime) Validate() error {
	if c.NewTime.IsZero() {
		return errs.NewValueIsRequiredError("new delivery time")
	}
	return nil
}

func (c ChangeTime) sealed() {}
