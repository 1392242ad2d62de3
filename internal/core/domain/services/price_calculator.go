package services

import (
	"orderpolicy/internal/core/domain/model/kernel"
	"orderpolicy/internal/core/domain/model/modification"
	"orderpolicy/internal/core/domain/model/order"
	"orderpolicy/internal/pkg/errs"
)

// PriceCalculator is a domain service computing the signed monetary delta
// a change would apply to an order's subtotal. For changes touching an
// existing line item the unit price already on the order is authoritative;
// a brand-new item carries its quoted price on the change itself.
//
// The calculator is deterministic and performs no I/O.
type PriceCalculator struct{}

// NewPriceCalculator creates a new PriceCalculator instance.
func NewPriceCalculator() PriceCalculator {
	return PriceCalculator{}
}

// ChangeImpact returns the signed delta a single change would apply to the
// order subtotal. Address, instruction and time changes carry no item
// impact; a delivery fee difference is reflected on the order when the
// change is applied, not here.
func (p PriceCalculator) ChangeImpact(o *order.Order, change modification.Change) (kernel.Money, error) {
	if err := o.Validate(); err != nil {
		return kernel.Money{}, err
	}

	switch c := change.(type) {
	case modification.AddItem:
		return c.UnitPrice.MulInt(c.Quantity), nil

	case modification.RemoveItem:
		item := o.Item(c.ItemID)
		if item == nil {
			return kernel.Money{}, errs.NewObjectNotFoundError("order item", c.ItemID)
		}
		return item.Subtotal().Neg(), nil

	case modification.UpdateQuantity:
		item := o.Item(c.ItemID)
		if item == nil {
			return kernel.Money{}, errs.NewObjectNotFoundError("order item", c.ItemID)
		}
		return item.UnitPrice().MulInt(c.Quantity - item.Quantity()), nil

	default:
		return kernel.ZeroMoney(), nil
	}
}

// TotalImpact returns the sum of per-change deltas for a modification
// request containing one or more changes.
func (p PriceCalculator) TotalImpact(o *order.Order, changes []modification.Change) (kernel.Money, error) {
	total := kernel.ZeroMoney()
	for _, change := range changes {
		impact, err := p.ChangeImpact(o, change)
		if err != nil {
			return kernel.Money{}, err
		}
		total = total.Add(impact)
	}
	return total, nil
}
