// Package jobs provides scheduled background tasks for the order policy engine.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle the deferred work the policy engine enqueues during request
// handling.
//
// # Available Jobs
//
// 1. QueueConsumerJob - Runs every second to claim due jobs from the durable
// queue and execute them: refund execution against the payment rail,
// application of approved modifications, and merchant inventory adjustments
// 2. EscalationJob - Runs every minute to find modification requests that
// have been awaiting merchant review past the escalation threshold and
// re-notify the merchant
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(queue, applyHandler, refundHandler, escalationHandler, inventory, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The queue consumer uses the cron expression "* * * * * *" (every second)
// so committed deferred work starts promptly. The escalation job uses
// "0 * * * * *" (every minute); stalled requests are measured in minutes,
// so a tighter sweep buys nothing.
//
// # Error Handling
//
// - A job whose handler returns an error is marked failed with the error
// text and is not retried automatically; re-running it is an explicit new
// enqueue
// - The escalation sweep logs errors and retries on the next tick
// - Failed job starts will stop any already running jobs
package jobs
