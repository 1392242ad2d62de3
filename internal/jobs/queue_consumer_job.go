package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"orderpolicy/internal/core/application/usecases/commands"
	"orderpolicy/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// claimBatchSize bounds how many due jobs one consumer tick takes on.
const claimBatchSize = 10

// QueueConsumerJob polls the durable job queue and executes due jobs:
// refund execution, approved modification application and inventory
// adjustment. Runs every second so committed work starts promptly.
//
// Delivery is at least once: a job whose handler crashed mid-flight stays
// claimed until an operator intervenes, and the handlers themselves treat
// redelivery as a no-op. A job whose handler returns an error is marked
// failed and never retried automatically; re-running it is an explicit
// new enqueue.
type QueueConsumerJob struct {
	queue             ports.QueueRepository
	applyModification commands.ApplyModificationCommandHandler
	executeRefund     commands.ExecuteRefundCommandHandler
	inventory         ports.InventoryService
	cron              *cron.Cron
	logger            *slog.Logger
}

// NewQueueConsumerJob creates the queue consumer.
func NewQueueConsumerJob(
	queue ports.QueueRepository,
	applyModification commands.ApplyModificationCommandHandler,
	executeRefund commands.ExecuteRefundCommandHandler,
	inventory ports.InventoryService,
	logger *slog.Logger,
) *QueueConsumerJob {
	return &QueueConsumerJob{
		queue:             queue,
		applyModification: applyModification,
		executeRefund:     executeRefund,
		inventory:         inventory,
		cron:              cron.New(cron.WithSeconds()),
		logger:            logger.With("component", "queue_consumer_job"),
	}
}

// Start begins polling the queue every second.
func (j *QueueConsumerJob) Start() error {
	_, err := j.cron.AddFunc("* * * * * *", func() {
		ctx := context.Background()
		if err := j.consume(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Queue consumer tick failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Queue consumer started (polling every second)")
	return nil
}

// Stop stops the queue consumer.
func (j *QueueConsumerJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Queue consumer stopped")
}

// consume claims one batch of due jobs and resolves each as done or
// failed.
func (j *QueueConsumerJob) consume(ctx context.Context) error {
	jobs, err := j.queue.ClaimDue(ctx, claimBatchSize, time.Now().UTC())
	if err != nil {
		return err
	}

	for _, job := range jobs {
		if execErr := j.execute(ctx, job); execErr != nil {
			j.logger.ErrorContext(ctx, "Job failed",
				"job_id", job.ID.String(), "job_type", job.Type, "error", execErr)
			if markErr := j.queue.MarkFailed(ctx, job.ID, execErr.Error()); markErr != nil {
				return markErr
			}
			continue
		}
		if markErr := j.queue.MarkDone(ctx, job.ID); markErr != nil {
			return markErr
		}
	}
	return nil
}

// execute dispatches one claimed job to its handler by type.
func (j *QueueConsumerJob) execute(ctx context.Context, job ports.Job) error {
	switch job.Type {
	case ports.JobTypeApplyModification:
		var payload commands.ApplyModificationPayload
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			return err
		}
		cmd, err := commands.NewApplyModificationCommand(payload.ModificationID)
		if err != nil {
			return err
		}
		return j.applyModification.Handle(ctx, cmd)

	case ports.JobTypeExecuteRefund:
		var payload commands.ExecuteRefundPayload
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			return err
		}
		cmd, err := commands.NewExecuteRefundCommand(payload.RefundID)
		if err != nil {
			return err
		}
		return j.executeRefund.Handle(ctx, cmd)

	case ports.JobTypeAdjustInventory:
		var payload commands.AdjustInventoryPayload
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			return err
		}
		return j.inventory.AdjustStock(ctx, payload.ItemID, payload.Delta)

	default:
		return fmt.Errorf("unknown job type %q", job.Type)
	}
}
