// Package cancellationrepo provides data transfer objects and mapping
// functions for cancellation history and driver compensation persistence.
package cancellationrepo

import (
	"time"

	"orderpolicy/internal/core/domain/model/cancellation"
	"orderpolicy/internal/core/domain/model/kernel"
	"orderpolicy/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CancellationDTO represents the database structure for cancellation
// records. Rows are insert-only: a cancellation is history, not state.
type CancellationDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID       uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	InitiatedBy   uuid.UUID `gorm:"type:uuid"`
	InitiatorRole int

	Reason                    string
	OrderStatusAtCancellation int
	RefundPercentage          int
	PenaltyAmount             decimal.Decimal `gorm:"type:decimal(12,2)"`

	CreatedAt time.Time
}

// TableName specifies the database table name for cancellation records.
func (CancellationDTO) TableName() string {
	return "cancellations"
}

// CompensationDTO represents the database structure for driver
// compensation records.
type CompensationDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	DriverID       uuid.UUID `gorm:"type:uuid;index"`
	OrderID        uuid.UUID `gorm:"type:uuid;index"`
	CancellationID uuid.UUID `gorm:"type:uuid"`

	Amount decimal.Decimal `gorm:"type:decimal(12,2)"`
	Reason string
	Status int

	CreatedAt time.Time
}

// TableName specifies the database table name for compensation records.
func (CompensationDTO) TableName() string {
	return "driver_compensations"
}

func cancellationFromDomain(c *cancellation.Cancellation) CancellationDTO {
	return CancellationDTO{
		ID:            c.ID().Bytes(),
		OrderID:       c.OrderID().Bytes(),
		InitiatedBy:   c.InitiatedBy().Bytes(),
		InitiatorRole: int(c.InitiatorRole()),

		Reason:                    c.Reason(),
		OrderStatusAtCancellation: int(c.OrderStatusAtCancellation()),
		RefundPercentage:          c.RefundPercentage(),
		PenaltyAmount:             c.PenaltyAmount().Decimal(),

		CreatedAt: c.CreatedAt(),
	}
}

func cancellationToDomain(dto CancellationDTO) (*cancellation.Cancellation, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	initiatedBy, err := kernel.UUIDFromBytes(dto.InitiatedBy[:])
	if err != nil {
		return nil, err
	}

	return cancellation.RestoreCancellation(
		id,
		orderID,
		initiatedBy,
		kernel.Role(dto.InitiatorRole),
		dto.Reason,
		order.Status(dto.OrderStatusAtCancellation),
		dto.RefundPercentage,
		kernel.MoneyFromDecimal(dto.PenaltyAmount),
		dto.CreatedAt,
	)
}

func compensationFromDomain(d *cancellation.DriverCompensation) CompensationDTO {
	return CompensationDTO{
		ID:             d.ID().Bytes(),
		DriverID:       d.DriverID().Bytes(),
		OrderID:        d.OrderID().Bytes(),
		CancellationID: d.CancellationID().Bytes(),

		Amount: d.Amount().Decimal(),
		Reason: d.Reason(),
		Status: int(d.Status()),

		CreatedAt: d.CreatedAt(),
	}
}

func compensationToDomain(dto CompensationDTO) (*cancellation.DriverCompensation, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	driverID, err := kernel.UUIDFromBytes(dto.DriverID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	cancellationID, err := kernel.UUIDFromBytes(dto.CancellationID[:])
	if err != nil {
		return nil, err
	}

	return cancellation.RestoreDriverCompensation(
		id,
		driverID,
		orderID,
		cancellationID,
		kernel.MoneyFromDecimal(dto.Amount),
		dto.Reason,
		cancellation.CompensationStatus(dto.Status),
		dto.CreatedAt,
	)
}
