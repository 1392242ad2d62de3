// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"orderpolicy/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// ModificationRepoFactory provides access to the modification repository within a transaction.
	ModificationRepoFactory interface {
		ModificationRepository() ports.ModificationRepository
	}

	// CancellationRepoFactory provides access to the cancellation repository within a transaction.
	CancellationRepoFactory interface {
		CancellationRepository() ports.CancellationRepository
	}

	// CompensationRepoFactory provides access to the compensation repository within a transaction.
	CompensationRepoFactory interface {
		CompensationRepository() ports.CompensationRepository
	}

	// RefundRepoFactory provides access to the refund repository within a transaction.
	RefundRepoFactory interface {
		RefundRepository() ports.RefundRepository
	}

	// QueueRepoFactory provides access to the durable job queue within a transaction.
	// Jobs enqueued through it become visible exactly when the transaction commits.
	QueueRepoFactory interface {
		QueueRepository() ports.QueueRepository
	}

	// ModificationUoW manages transactions for modification operations. Every
	// such operation locks the order row, so the order repository is always
	// in scope.
	ModificationUoW interface {
		TxManager
		OrderRepoFactory
		ModificationRepoFactory
		QueueRepoFactory
	}

	// ModificationUoWFactory creates new modification unit of work instances.
	ModificationUoWFactory interface {
		Create() ModificationUoW
	}

	// CancellationUoW manages transactions for order cancellation. The write
	// set spans the order, the cancellation record, the driver compensation,
	// the refund and its queue job.
	CancellationUoW interface {
		TxManager
		OrderRepoFactory
		CancellationRepoFactory
		CompensationRepoFactory
		RefundRepoFactory
		QueueRepoFactory
	}

	// CancellationUoWFactory creates new cancellation unit of work instances.
	CancellationUoWFactory interface {
		Create() CancellationUoW
	}

	// RefundUoW manages transactions for refund creation and execution.
	RefundUoW interface {
		TxManager
		OrderRepoFactory
		RefundRepoFactory
		QueueRepoFactory
	}

	// RefundUoWFactory creates new refund unit of work instances.
	RefundUoWFactory interface {
		Create() RefundUoW
	}
)
