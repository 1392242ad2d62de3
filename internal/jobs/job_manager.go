package jobs

import (
	"fmt"
	"log/slog"

	"orderpolicy/internal/core/application/usecases/commands"
	"orderpolicy/internal/core/ports"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	queueConsumerJob *QueueConsumerJob
	escalationJob    *EscalationJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes the queue and command handlers as dependencies to wire up job
// execution.
func NewJobManager(
	queue ports.QueueRepository,
	applyModificationHandler commands.ApplyModificationCommandHandler,
	executeRefundHandler commands.ExecuteRefundCommandHandler,
	escalationHandler commands.EscalateStalledModificationsCommandHandler,
	inventory ports.InventoryService,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		queueConsumerJob: NewQueueConsumerJob(queue, applyModificationHandler, executeRefundHandler, inventory, logger),
		escalationJob:    NewEscalationJob(escalationHandler, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.queueConsumerJob.Start(); err != nil {
		return fmt.Errorf("failed to start queue consumer job: %w", err)
	}

	if err := jm.escalationJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.queueConsumerJob.Stop()
		return fmt.Errorf("failed to start escalation job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.escalationJob.Stop()
	jm.queueConsumerJob.Stop()
}
