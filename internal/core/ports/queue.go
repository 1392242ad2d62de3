package ports

import (
	"context"
	"time"

	"orderpolicy/internal/core/domain/model/kernel"
)

// Job types understood by the queue consumer.
const (
	JobTypeExecuteRefund     = "execute_refund"
	JobTypeApplyModification = "apply_modification"
	JobTypeAdjustInventory   = "adjust_inventory"
)

// Job is a unit of deferred work claimed from the durable queue. Payload
// carries the job-type-specific body as JSON.
type Job struct {
	ID       kernel.UUID
	Type     string
	Payload  []byte
	RunAt    time.Time
	Attempts int
}

// QueueRepository defines the contract for the durable job queue backing
// asynchronous refund execution, modification application and inventory
// adjustment. Jobs carry a persisted due time, so deferred work survives
// process restarts; the consumer polls for due jobs rather than holding
// in-memory timers.
//
// Enqueue participates in the caller's transaction when the repository is
// obtained from a UnitOfWork, so a job becomes visible exactly when the
// state change that warranted it commits.
type QueueRepository interface {
	// Enqueue schedules a job for immediate execution.
	Enqueue(ctx context.Context, jobType string, payload []byte) error

	// EnqueueAt schedules a job to run no earlier than runAt.
	EnqueueAt(ctx context.Context, jobType string, payload []byte, runAt time.Time) error

	// ClaimDue atomically claims up to limit due jobs for this consumer.
	// Claimed jobs are invisible to concurrent consumers; each must be
	// resolved with MarkDone or MarkFailed.
	ClaimDue(ctx context.Context, limit int, now time.Time) ([]Job, error)

	// MarkDone resolves a claimed job as successfully processed.
	MarkDone(ctx context.Context, id kernel.UUID) error

	// MarkFailed resolves a claimed job as failed with a reason. Failed
	// jobs are not retried automatically; an operator re-enqueues a new
	// job explicitly.
	MarkFailed(ctx context.Context, id kernel.UUID, reason string) error
}
