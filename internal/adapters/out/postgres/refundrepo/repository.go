package refundrepo

import (
	"context"
	"errors"

	"orderpolicy/internal/core/domain/model/kernel"
	"orderpolicy/internal/core/domain/model/refund"
	"orderpolicy/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormRefundRepository implements RefundRepository using GORM.
type GormRefundRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormRefundRepository creates a new GORM refund repository.
func NewGormRefundRepository(db *gorm.DB, tracker aggregateTracker) *GormRefundRepository {
	return &GormRefundRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new refund to the database.
func (r *GormRefundRepository) Add(ctx context.Context, aggregate *refund.Refund) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing refund to the database.
func (r *GormRefundRepository) Update(ctx context.Context, aggregate *refund.Refund) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&RefundDTO{}).
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

// Get retrieves a refund by ID.
func (r *GormRefundRepository) Get(ctx context.Context, id kernel.UUID) (*refund.Refund, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto RefundDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("refund", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByOrder retrieves all refunds for an order, newest first.
func (r *GormRefundRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) ([]*refund.Refund, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []RefundDTO
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&dtos, "order_id = ?", orderID.Bytes()).Error
	if err != nil {
		return nil, err
	}

	refunds := make([]*refund.Refund, 0, len(dtos))
	for _, dto := range dtos {
		aggregate, convErr := toDomain(dto)
		if convErr != nil {
			return nil, convErr
		}
		refunds = append(refunds, aggregate)
	}

	return refunds, nil
}

// SumCompletedByOrder returns the total of completed refunds for an order.
func (r *GormRefundRepository) SumCompletedByOrder(ctx context.Context, orderID kernel.UUID) (kernel.Money, error) {
	if err := orderID.Validate(); err != nil {
		return kernel.Money{}, err
	}

	var sum decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&RefundDTO{}).
		Select("SUM(amount)").
		Where("order_id = ? AND status = ?", orderID.Bytes(), refund.StatusCompleted).
		Scan(&sum).Error
	if err != nil {
		return kernel.Money{}, err
	}

	if !sum.Valid {
		return kernel.ZeroMoney(), nil
	}
	return kernel.MoneyFromDecimal(sum.Decimal), nil
}
