package cancellationrepo

import (
	"context"
	"errors"

	"orderpolicy/internal/core/domain/model/cancellation"
	"orderpolicy/internal/core/domain/model/kernel"
	"orderpolicy/internal/pkg/errs"

	"gorm.io/gorm"
)

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// GormCancellationRepository implements CancellationRepository using GORM.
type GormCancellationRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// NewGormCancellationRepository creates a new GORM cancellation repository.
func NewGormCancellationRepository(db *gorm.DB, tracker aggregateTracker) *GormCancellationRepository {
	return &GormCancellationRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new cancellation record. A second cancellation for the same
// order violates the unique index and is reported as a state conflict.
func (r *GormCancellationRepository) Add(ctx context.Context, record *cancellation.Cancellation) error {
	if err := record.Validate(); err != nil {
		return err
	}

	dto := cancellationFromDomain(record)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewStateConflictErrorWithCause("order cancellation", "cancelled", err)
		}
		return err
	}

	r.tracker.TrackAggregate(record.ID(), record)
	return nil
}

// Get retrieves a cancellation record by ID.
func (r *GormCancellationRepository) Get(ctx context.Context, id kernel.UUID) (*cancellation.Cancellation, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto CancellationDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("cancellation", id.String())
		}
		return nil, err
	}

	return cancellationToDomain(dto)
}

// GetByOrder retrieves the cancellation record for an order.
func (r *GormCancellationRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) (*cancellation.Cancellation, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto CancellationDTO
	if err := r.db.WithContext(ctx).First(&dto, "order_id = ?", orderID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("cancellation for order", orderID.String())
		}
		return nil, err
	}

	return cancellationToDomain(dto)
}

// GormCompensationRepository implements CompensationRepository using GORM.
type GormCompensationRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// NewGormCompensationRepository creates a new GORM compensation repository.
func NewGormCompensationRepository(db *gorm.DB, tracker aggregateTracker) *GormCompensationRepository {
	return &GormCompensationRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new compensation record.
func (r *GormCompensationRepository) Add(ctx context.Context, record *cancellation.DriverCompensation) error {
	if err := record.Validate(); err != nil {
		return err
	}

	dto := compensationFromDomain(record)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(record.ID(), record)
	return nil
}

// Update saves an existing compensation record.
func (r *GormCompensationRepository) Update(ctx context.Context, record *cancellation.DriverCompensation) error {
	if err := record.Validate(); err != nil {
		return err
	}

	dto := compensationFromDomain(record)
	result := r.db.WithContext(ctx).
		Model(&CompensationDTO{}).
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

	r.tracker.TrackAggregate(record.ID(), record)
	return nil
}

// Get retrieves a compensation record by ID.
func (r *GormCompensationRepository) Get(ctx context.Context, id kernel.UUID) (*cancellation.DriverCompensation, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto CompensationDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("driver compensation", id.String())
		}
		return nil, err
	}

	return compensationToDomain(dto)
}

// GetByDriver retrieves all compensation records for a driver, newest first.
func (r *GormCompensationRepository) GetByDriver(ctx context.Context, driverID kernel.UUID) ([]*cancellation.DriverCompensation, error) {
	if err := driverID.Validate(); err != nil {
		return nil, err
	}

	var dtos []CompensationDTO
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&dtos, "driver_id = ?", driverID.Bytes()).Error
	if err != nil {
		return nil, err
	}

	records := make([]*cancellation.DriverCompensation, 0, len(dtos))
	for _, dto := range dtos {
		record, convErr := compensationToDomain(dto)
		if convErr != nil {
			return nil, convErr
		}
		records = append(records, record)
	}

	return records, nil
}
