package modificationrepo

import (
	"context"
	"errors"
	"time"

	"orderpolicy/internal/core/domain/model/kernel"
	"orderpolicy/internal/core/domain/model/modification"
	"orderpolicy/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormModificationRepository implements ModificationRepository using GORM.
type GormModificationRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormModificationRepository creates a new GORM modification repository.
func NewGormModificationRepository(db *gorm.DB, tracker aggregateTracker) *GormModificationRepository {
	return &GormModificationRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new modification to the database. A second pending
// modification for the same order violates the partial unique index and is
// reported as a state conflict, which serializes concurrent requests that
// both passed validation.
func (r *GormModificationRepository) Add(ctx context.Context, aggregate *modification.Modification) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewStateConflictErrorWithCause("order modification",
				modification.StatusPending.String(), err)
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing modification to the database.
func (r *GormModificationRepository) Update(ctx context.Context, aggregate *modification.Modification) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&ModificationDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a modification by ID.
func (r *GormModificationRepository) Get(ctx context.Context, id kernel.UUID) (*modification.Modification, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ModificationDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order modification", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetPendingByOrder retrieves the pending modification for an order.
func (r *GormModificationRepository) GetPendingByOrder(ctx context.Context, orderID kernel.UUID) (*modification.Modification, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto ModificationDTO
	err := r.db.WithContext(ctx).
		First(&dto, "order_id = ? AND status = ?", orderID.Bytes(), modification.StatusPending).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("pending modification", orderID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// ListStalePending retrieves pending modifications requested before the
// cutoff, oldest first.
func (r *GormModificationRepository) ListStalePending(ctx context.Context, before time.Time) ([]*modification.Modification, error) {
	var dtos []ModificationDTO
	err := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", modification.StatusPending, before).
		Order("created_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	result := make([]*modification.Modification, 0, len(dtos))
	for _, dto := range dtos {
		m, mErr := toDomain(dto)
		if mErr != nil {
			return nil, mErr
		}
		result = append(result, m)
	}
	return result, nil
}
