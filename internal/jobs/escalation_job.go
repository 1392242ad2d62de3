package jobs

import (
	"context"
	"log/slog"

	"orderpolicy/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// EscalationJob periodically sweeps for modification requests that have
// been awaiting merchant review for too long and notifies the merchant
// again. Runs once a minute; the sweep itself decides which requests are
// newly stalled.
type EscalationJob struct {
	handler commands.EscalateStalledModificationsCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewEscalationJob creates the stalled-modification escalation job.
func NewEscalationJob(
	handler commands.EscalateStalledModificationsCommandHandler,
	logger *slog.Logger,
) *EscalationJob {
	return &EscalationJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "escalation_job"),
	}
}

// Start begins the escalation sweep on a once-a-minute schedule.
func (j *EscalationJob) Start() error {
	_, err := j.cron.AddFunc("0 * * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewEscalateStalledModificationsCommand()
		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Escalation sweep failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Escalation job started (sweeping every minute)")
	return nil
}

// Stop stops the escalation job.
func (j *EscalationJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Escalation job stopped")
}
