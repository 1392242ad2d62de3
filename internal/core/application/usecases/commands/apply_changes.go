package commands

import (
	"context"
	"encoding/json"

	"orderpolicy/internal/core/domain/model/kernel"
	"orderpolicy/internal/core/domain/model/modification"
	"orderpolicy/internal/core/domain/model/order"
	"orderpolicy/internal/core/ports"
)

// Queue job payloads shared between the producing command handlers and the
// queue consumer.
type (
	// ApplyModificationPayload schedules applying an approved modification.
	ApplyModificationPayload struct {
		ModificationID kernel.UUID `json:"modification_id"`
	}

	// ExecuteRefundPayload schedules executing a created refund.
	ExecuteRefundPayload struct {
		RefundID kernel.UUID `json:"refund_id"`
	}

	// AdjustInventoryPayload schedules a merchant stock adjustment.
	// Positive delta releases stock, negative delta reserves it.
	AdjustInventoryPayload struct {
		ItemID kernel.UUID `json:"item_id"`
		Delta  int         `json:"delta"`
	}
)

// applyChanges mutates the order according to the modification's changes.
// The caller holds the order row lock; validation already happened when the
// modification was requested, so failures here are state conflicts from
// changes that landed in between.
func applyChanges(o *order.Order, changes []modification.Change) error {
	for _, c := range changes {
		var err error
		switch change := c.(type) {
		case modification.AddItem:
			var item *order.Item
			item, err = order.NewItem(change.ItemID, change.Name, change.UnitPrice, change.Quantity)
			if err == nil {
				err = o.AddItem(item)
			}
		case modification.RemoveItem:
			err = o.RemoveItem(change.ItemID)
		case modification.UpdateQuantity:
			err = o.UpdateItemQuantity(change.ItemID, change.Quantity)
		case modification.UpdateInstructions:
			err = o.UpdateInstructions(change.Instructions)
		case modification.ChangeAddress:
			err = o.ChangeAddress(change.Address, change.NewDeliveryFee)
		case modification.ChangeTime:
			o.Reschedule(change.NewTime)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// stockAdjustments derives the inventory deltas a set of changes implies.
// Must be computed against the order state before the changes are applied,
// since quantity updates need the old quantity.
func stockAdjustments(o *order.Order, changes []modification.Change) []AdjustInventoryPayload {
	var adjustments []AdjustInventoryPayload
	for _, c := range changes {
		switch change := c.(type) {
		case modification.AddItem:
			adjustments = append(adjustments, AdjustInventoryPayload{
				ItemID: change.ItemID,
				Delta:  -change.Quantity,
			})
		case modification.RemoveItem:
			if item := o.Item(change.ItemID); item != nil {
				adjustments = append(adjustments, AdjustInventoryPayload{
					ItemID: change.ItemID,
					Delta:  item.Quantity(),
				})
			}
		case modification.UpdateQuantity:
			if item := o.Item(change.ItemID); item != nil {
				adjustments = append(adjustments, AdjustInventoryPayload{
					ItemID: change.ItemID,
					Delta:  item.Quantity() - change.Quantity,
				})
			}
		}
	}
	return adjustments
}

// enqueueStockAdjustments schedules one inventory job per adjustment on the
// queue bound to the current transaction.
func enqueueStockAdjustments(
	ctx context.Context,
	queue ports.QueueRepository,
	adjustments []AdjustInventoryPayload,
) error {
	for _, adj := range adjustments {
		payload, err := json.Marshal(adj)
		if err != nil {
			return err
		}
		if err := queue.Enqueue(ctx, ports.JobTypeAdjustInventory, payload); err != nil {
			return err
		}
	}
	return nil
}
