package ports

import (
	"context"

	"orderpolicy/internal/core/domain/model/cancellation"
	"orderpolicy/internal/core/domain/model/kernel"
)

// CancellationRepository defines the persistence contract for cancellation
// records. Cancellations are immutable history: they are only ever added
// and read back, never updated.
type CancellationRepository interface {
	// Add persists a new cancellation record.
	Add(ctx context.Context, record *cancellation.Cancellation) error

	// Get retrieves a cancellation record by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*cancellation.Cancellation, error)

	// GetByOrder retrieves the cancellation record for an order, if the
	// order was cancelled. Returns a not-found error otherwise.
	GetByOrder(ctx context.Context, orderID kernel.UUID) (*cancellation.Cancellation, error)
}

// CompensationRepository defines the persistence contract for driver
// compensation records created alongside a cancellation.
type CompensationRepository interface {
	// Add persists a new compensation record.
	Add(ctx context.Context, record *cancellation.DriverCompensation) error

	// Update persists changes to an existing compensation record.
	Update(ctx context.Context, record *cancellation.DriverCompensation) error

	// Get retrieves a compensation record by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*cancellation.DriverCompensation, error)

	// GetByDriver retrieves all compensation records for a driver, newest
	// first.
	GetByDriver(ctx context.Context, driverID kernel.UUID) ([]*cancellation.DriverCompensation, error)
}
