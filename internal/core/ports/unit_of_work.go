package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
// This ensures proper isolation between concurrent operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary.
// It provides transaction control and tracks aggregate changes.
// Client code must explicitly manage transaction lifecycle.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	// OrderRepository returns an OrderRepository bound to the current
	// transaction, so GetForUpdate row locks hold until Commit/Rollback.
	OrderRepository() OrderRepository

	// ModificationRepository returns a ModificationRepository bound to
	// the current transaction.
	ModificationRepository() ModificationRepository

	// CancellationRepository returns a CancellationRepository bound to
	// the current transaction.
	CancellationRepository() CancellationRepository

	// CompensationRepository returns a CompensationRepository bound to
	// the current transaction.
	CompensationRepository() CompensationRepository

	// RefundRepository returns a RefundRepository bound to the current
	// transaction.
	RefundRepository() RefundRepository

	// QueueRepository returns a QueueRepository bound to the current
	// transaction, so enqueued jobs commit atomically with the state
	// change that produced them.
	QueueRepository() QueueRepository
}
