package ports

import (
	"context"

	"orderpolicy/internal/core/domain/model/kernel"
	"orderpolicy/internal/core/domain/model/order"
)

// PaymentRail abstracts the payment provider executing refunds for the
// card, wallet and crypto payment methods. The idempotency key guarantees
// that a redelivered execution attempt cannot move money twice.
type PaymentRail interface {
	// Refund returns the provider transaction id on success. Provider
	// failures come back as external-service errors.
	Refund(ctx context.Context, method order.PaymentMethod, amount kernel.Money, idempotencyKey string) (string, error)
}

// InventoryService abstracts the stock ledger adjusted when applied
// modifications or cancellations change the items leaving the kitchen.
type InventoryService interface {
	// AdjustStock changes the available stock of an item by delta:
	// negative when an item is added to an order, positive when one is
	// returned to stock.
	AdjustStock(ctx context.Context, itemID kernel.UUID, delta int) error
}

// Notification event types raised by the policy engine.
const (
	EventModificationRequested = "modification_requested"
	EventModificationApproved  = "modification_approved"
	EventModificationRejected  = "modification_rejected"
	EventModificationApplied   = "modification_applied"
	EventModificationStalled   = "modification_stalled"
	EventOrderCancelled        = "order_cancelled"
	EventRefundCompleted       = "refund_completed"
	EventRefundFailed          = "refund_failed"
	EventDriverCompensated     = "driver_compensation_created"
)

// NotificationDispatcher is the fire-and-forget boundary informing
// customers, merchants, drivers and support about policy decisions.
// Implementations log failures; the engine never retries notifications.
type NotificationDispatcher interface {
	Notify(ctx context.Context, recipientID kernel.UUID, eventType string, payload map[string]any) error
}
