package order

import (
	"fmt"

	"orderpolicy/internal/core/domain/model/kernel"
	"orderpolicy/internal/pkg/errs"
)

// Item is a line item on an order: a catalog item at the unit price it was
// sold for, times a quantity. Unit price is frozen at order time; changing
// catalog prices never reprices an already-placed order.
type Item struct {
	itemID    kernel.UUID
	name      string
	unitPrice kernel.Money
	quantity  int
}

// NewItem creates a validated line item.
//
// Returns an error if the item id is invalid, the name is empty, the unit
// price is negative, or the quantity is not positive.
func NewItem(itemID kernel.UUID, name string, unitPrice kernel.Money, quantity int) (*Item, error) {
	if err := itemID.Validate(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errs.NewValueIsRequiredError("item name")
	}
	if unitPrice.IsNegative() {
		return nil, errs.NewValueIsInvalidErrorWithCause("unit price",
			fmt.Errorf("%s is negative", unitPrice))
	}
	if quantity <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}

	return &Item{
		itemID:    itemID,
		name:      name,
		unitPrice: unitPrice,
		quantity:  quantity,
	}, nil
}

// ItemID returns the catalog item identifier.
func (i *Item) ItemID() kernel.UUID {
	return i.itemID
}

// Name returns the item name.
func (i *Item) Name() string {
	return i.name
}

// UnitPrice returns the unit price frozen at order time.
func (i *Item) UnitPrice() kernel.Money {
	return i.unitPrice
}

// Quantity returns the ordered quantity.
func (i *Item) Quantity() int {
	return i.quantity
}

// Subtotal returns unit price times quantity.
func (i *Item) Subtotal() kernel.Money {
	return i.unitPrice.MulInt(i.quantity)
}

// setQuantity updates the quantity. Used only by the owning Order so the
// aggregate can re-derive its totals afterwards.
func (i *Item) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	i.quantity = quantity
	return nil
}
