// Package refundrepo provides data transfer objects and mapping functions
// for refund persistence.
package refundrepo

import (
	"time"

	"orderpolicy/internal/core/domain/model/kernel"
	"orderpolicy/internal/core/domain/model/refund"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RefundDTO represents the database structure for persisting refund
// aggregates. Amount and idempotency key are fixed at creation; a
// correction is a new row, never an update of a terminal one.
type RefundDTO struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID uuid.UUID `gorm:"type:uuid;index"`

	Amount decimal.Decimal `gorm:"type:decimal(12,2)"`
	Type   int
	Status int `gorm:"index"`
	Reason string

	TransactionID  string `gorm:"type:varchar(128)"`
	FailureMessage string
	ProcessedBy    uuid.UUID `gorm:"type:uuid"`
	IdempotencyKey string    `gorm:"type:varchar(128);uniqueIndex"`

	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// TableName specifies the database table name for refund entities.
func (RefundDTO) TableName() string {
	return "refunds"
}

// fromDomain converts a refund domain aggregate to its database
// representation.
func fromDomain(r *refund.Refund) RefundDTO {
	return RefundDTO{
		ID:      r.ID().Bytes(),
		OrderID: r.OrderID().Bytes(),

		Amount: r.Amount().Decimal(),
		Type:   int(r.Type()),
		Status: int(r.Status()),
		Reason: r.Reason(),

		TransactionID:  r.TransactionID(),
		FailureMessage: r.FailureMessage(),
		ProcessedBy:    r.ProcessedBy().Bytes(),
		IdempotencyKey: r.IdempotencyKey(),

		CreatedAt:   r.CreatedAt(),
		ProcessedAt: r.ProcessedAt(),
	}
}

// toDomain converts a database DTO to a refund domain aggregate.
func toDomain(dto RefundDTO) (*refund.Refund, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	processedBy, err := kernel.UUIDFromBytes(dto.ProcessedBy[:])
	if err != nil {
		return nil, err
	}

	return refund.RestoreRefund(
		id,
		orderID,
		kernel.MoneyFromDecimal(dto.Amount),
		refund.Type(dto.Type),
		refund.Status(dto.Status),
		dto.Reason,
		dto.TransactionID,
		dto.FailureMessage,
		processedBy,
		dto.IdempotencyKey,
		dto.CreatedAt,
		dto.ProcessedAt,
	)
}
