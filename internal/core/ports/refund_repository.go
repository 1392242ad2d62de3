package ports

import (
	"context"

	"orderpolicy/internal/core/domain/model/kernel"
	"orderpolicy/internal/core/domain/model/refund"
)

// RefundRepository defines the persistence contract for refund aggregates.
type RefundRepository interface {
	// Add persists a new refund aggregate to storage.
	Add(ctx context.Context, aggregate *refund.Refund) error

	// Update persists changes to an existing refund aggregate.
	Update(ctx context.Context, aggregate *refund.Refund) error

	// Get retrieves a refund aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*refund.Refund, error)

	// GetByOrder retrieves all refunds for an order, newest first.
	GetByOrder(ctx context.Context, orderID kernel.UUID) ([]*refund.Refund, error)

	// SumCompletedByOrder returns the total amount already refunded to
	// the customer for an order, counting completed refunds only. New
	// refund requests are capped at the order total minus this sum.
	SumCompletedByOrder(ctx context.Context, orderID kernel.UUID) (kernel.Money, error)
}
