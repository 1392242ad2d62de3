package queuerepo

import (
	"context"
	"time"

	"orderpolicy/internal/core/domain/model/kernel"
	"orderpolicy/internal/core/ports"
	"orderpolicy/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormQueueRepository implements QueueRepository using GORM. When built on
// a transaction handle, Enqueue participates in that transaction; the
// consumer side runs its own short claiming transactions.
type GormQueueRepository struct {
	db *gorm.DB
}

// NewGormQueueRepository creates a new GORM queue repository.
func NewGormQueueRepository(db *gorm.DB) *GormQueueRepository {
	return &GormQueueRepository{db: db}
}

// Enqueue schedules a job for immediate execution.
func (r *GormQueueRepository) Enqueue(ctx context.Context, jobType string, payload []byte) error {
	return r.EnqueueAt(ctx, jobType, payload, time.Now())
}

// EnqueueAt schedules a job to run no earlier than runAt.
func (r *GormQueueRepository) EnqueueAt(ctx context.Context, jobType string, payload []byte, runAt time.Time) error {
	if jobType == "" {
		return errs.NewValueIsRequiredError("job type")
	}

	dto := JobDTO{
		ID:        uuid.New(),
		Type:      jobType,
		Payload:   payload,
		Status:    jobQueued,
		RunAt:     runAt,
		CreatedAt: time.Now(),
	}
	return r.db.WithContext(ctx).Create(&dto).Error
}

// ClaimDue atomically claims up to limit due jobs. Rows are locked with
// SKIP LOCKED inside a short transaction and flipped to processing, so a
// concurrent consumer sees neither the lock wait nor the claimed rows.
func (r *GormQueueRepository) ClaimDue(ctx context.Context, limit int, now time.Time) ([]ports.Job, error) {
	var dtos []JobDTO
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("status = ? AND run_at <= ?", jobQueued, now).
			Order("run_at").
			Limit(limit).
			Find(&dtos).Error
		if err != nil {
			return err
		}
		if len(dtos) == 0 {
			return nil
		}

		ids := make([]uuid.UUID, 0, len(dtos))
		for _, dto := range dtos {
			ids = append(ids, dto.ID)
		}

		return tx.Model(&JobDTO{}).
			Where("id IN ?", ids).
			Updates(map[string]any{
				"status":     jobProcessing,
				"claimed_at": now,
				"attempts":   gorm.Expr("attempts + 1"),
			}).Error
	})
	if err != nil {
		return nil, err
	}

	jobs := make([]ports.Job, 0, len(dtos))
	for _, dto := range dtos {
		id, idErr := kernel.UUIDFromBytes(dto.ID[:])
		if idErr != nil {
			return nil, idErr
		}
		jobs = append(jobs, ports.Job{
			ID:       id,
			Type:     dto.Type,
			Payload:  dto.Payload,
			RunAt:    dto.RunAt,
			Attempts: dto.Attempts + 1,
		})
	}

	return jobs, nil
}

// MarkDone resolves a claimed job as successfully processed.
func (r *GormQueueRepository) MarkDone(ctx context.Context, id kernel.UUID) error {
	return r.resolve(ctx, id, jobDone, "")
}

// MarkFailed resolves a claimed job as failed with a reason. The row stays
// in the table; re-running the work is an explicit new enqueue.
func (r *GormQueueRepository) MarkFailed(ctx context.Context, id kernel.UUID, reason string) error {
	return r.resolve(ctx, id, jobFailed, reason)
}

func (r *GormQueueRepository) resolve(ctx context.Context, id kernel.UUID, status int, reason string) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&JobDTO{}).
		Where("id = ? AND status = ?", id.Bytes(), jobProcessing).
		Updates(map[string]any{
			"status":         status,
			"failure_reason": reason,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("claimed job", id.String())
	}
	return nil
}
