package ports

import (
	"context"
	"time"

	"orderpolicy/internal/core/domain/model/kernel"
	"orderpolicy/internal/core/domain/model/modification"
)

// ModificationRepository defines the persistence contract for order
// modification aggregates.
//
// The storage layer enforces that at most one modification per order is in
// pending status at any time (a partial unique index on the order id).
// Add surfaces a violation as a state-conflict error, which is how two
// concurrent requests racing past validation are serialized.
type ModificationRepository interface {
	// Add persists a new modification aggregate to storage.
	Add(ctx context.Context, aggregate *modification.Modification) error

	// Update persists changes to an existing modification aggregate.
	Update(ctx context.Context, aggregate *modification.Modification) error

	// Get retrieves a modification aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*modification.Modification, error)

	// GetPendingByOrder retrieves the pending modification for an order,
	// if one exists. Returns a not-found error otherwise.
	GetPendingByOrder(ctx context.Context, orderID kernel.UUID) (*modification.Modification, error)

	// ListStalePending retrieves modifications still pending review that
	// were requested before the given cutoff. Used to escalate requests
	// a merchant has not acted on.
	ListStalePending(ctx context.Context, before time.Time) ([]*modification.Modification, error)
}
