// Package queuerepo implements the durable job queue on a postgres table.
// Jobs carry a persisted due time and are claimed with FOR UPDATE SKIP
// LOCKED, so deferred work survives restarts and concurrent consumers
// never double-claim.
package queuerepo

import (
	"time"

	"github.com/google/uuid"
)

// Job lifecycle states. Failed jobs stay in the table for inspection and
// are re-run only by an explicit new enqueue.
const (
	jobQueued = iota
	jobProcessing
	jobDone
	jobFailed
)

// JobDTO represents one row of the durable job queue.
type JobDTO struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	Type    string    `gorm:"type:varchar(64);index"`
	Payload []byte    `gorm:"type:jsonb"`

	Status   int       `gorm:"index:idx_jobs_due,priority:1"`
	RunAt    time.Time `gorm:"index:idx_jobs_due,priority:2"`
	Attempts int

	ClaimedAt     *time.Time
	FailureReason string

	CreatedAt time.Time
}

// TableName specifies the database table name for queue jobs.
func (JobDTO) TableName() string {
	return "jobs"
}
