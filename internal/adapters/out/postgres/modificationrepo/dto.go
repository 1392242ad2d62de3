// Package modificationrepo provides data transfer objects and mapping
// functions for order modification persistence. The heterogeneous change
// payload is stored as tagged JSON and decoded back into the closed set of
// change kinds.
package modificationrepo

import (
	"encoding/json"
	"fmt"
	"time"

	"orderpolicy/internal/core/domain/model/kernel"
	"orderpolicy/internal/core/domain/model/modification"
	"orderpolicy/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ModificationDTO represents the database structure for persisting order
// modification aggregates. The partial unique index on OrderID serializes
// concurrent requests: only one pending modification may exist per order,
// and a racing insert surfaces as a duplicated-key error.
type ModificationDTO struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID uuid.UUID `gorm:"type:uuid;index;uniqueIndex:ux_modifications_order_pending,where:status = 1"`
	Status  int

	Changes []byte `gorm:"type:jsonb"`

	RequestedBy uuid.UUID `gorm:"type:uuid"`
	ReviewedBy  *uuid.UUID `gorm:"type:uuid"`
	ReviewedAt  *time.Time

	PriceImpact      decimal.Decimal `gorm:"type:decimal(12,2)"`
	Reason           string
	RequiresApproval bool

	CreatedAt time.Time
	AppliedAt *time.Time
}

// TableName specifies the database table name for modification entities.
func (ModificationDTO) TableName() string {
	return "order_modifications"
}

// changeDTO is the tagged JSON form of one change. Only the fields for the
// tagged kind are populated.
type changeDTO struct {
	Type string `json:"type"`

	ItemID    string          `json:"item_id,omitempty"`
	Name      string          `json:"name,omitempty"`
	UnitPrice decimal.Decimal `json:"unit_price,omitempty"`
	Quantity  int             `json:"quantity,omitempty"`

	Street         string          `json:"street,omitempty"`
	City           string          `json:"city,omitempty"`
	Zone           string          `json:"zone,omitempty"`
	NewDeliveryFee decimal.Decimal `json:"new_delivery_fee,omitempty"`

	Instructions string `json:"instructions,omitempty"`

	NewTime *time.Time `json:"new_time,omitempty"`
}

func encodeChanges(changes []modification.Change) ([]byte, error) {
	dtos := make([]changeDTO, 0, len(changes))
	for _, change := range changes {
		dto := changeDTO{Type: change.Type().String()}
		switch c := change.(type) {
		case modification.AddItem:
			dto.ItemID = c.ItemID.String()
			dto.Name = c.Name
			dto.UnitPrice = c.UnitPrice.Decimal()
			dto.Quantity = c.Quantity
		case modification.RemoveItem:
			dto.ItemID = c.ItemID.String()
		case modification.UpdateQuantity:
			dto.ItemID = c.ItemID.String()
			dto.Quantity = c.Quantity
		case modification.ChangeAddress:
			dto.Street = c.Address.Street()
			dto.City = c.Address.City()
			dto.Zone = c.Address.Zone()
			dto.NewDeliveryFee = c.NewDeliveryFee.Decimal()
		case modification.UpdateInstructions:
			dto.Instructions = c.Instructions
		case modification.ChangeTime:
			t := c.NewTime
			dto.NewTime = &t
		default:
			return nil, errs.NewValueIsInvalidError("change type")
		}
		dtos = append(dtos, dto)
	}
	return json.Marshal(dtos)
}

func decodeChanges(raw []byte) ([]modification.Change, error) {
	var dtos []changeDTO
	if err := json.Unmarshal(raw, &dtos); err != nil {
		return nil, err
	}

	changes := make([]modification.Change, 0, len(dtos))
	for _, dto := range dtos {
		kind, err := modification.ChangeTypeFromString(dto.Type)
		if err != nil {
			return nil, err
		}

		switch kind {
		case modification.ChangeTypeAddItem:
			itemID, idErr := kernel.UUIDFromString(dto.ItemID)
			if idErr != nil {
				return nil, idErr
			}
			changes = append(changes, modification.AddItem{
				ItemID:    itemID,
				Name:      dto.Name,
				UnitPrice: kernel.MoneyFromDecimal(dto.UnitPrice),
				Quantity:  dto.Quantity,
			})
		case modification.ChangeTypeRemoveItem:
			itemID, idErr := kernel.UUIDFromString(dto.ItemID)
			if idErr != nil {
				return nil, idErr
			}
			changes = append(changes, modification.RemoveItem{ItemID: itemID})
		case modification.ChangeTypeUpdateQuantity:
			itemID, idErr := kernel.UUIDFromString(dto.ItemID)
			if idErr != nil {
				return nil, idErr
			}
			changes = append(changes, modification.UpdateQuantity{
				ItemID:   itemID,
				Quantity: dto.Quantity,
			})
		case modification.ChangeTypeChangeAddress:
			address, addrErr := kernel.NewAddress(dto.Street, dto.City, dto.Zone)
			if addrErr != nil {
				return nil, addrErr
			}
			changes = append(changes, modification.ChangeAddress{
				Address:        address,
				NewDeliveryFee: kernel.MoneyFromDecimal(dto.NewDeliveryFee),
			})
		case modification.ChangeTypeUpdateInstructions:
			changes = append(changes, modification.UpdateInstructions{
				Instructions: dto.Instructions,
			})
		case modification.ChangeTypeChangeTime:
			if dto.NewTime == nil {
				return nil, errs.NewValueIsRequiredError("new_time")
			}
			changes = append(changes, modification.ChangeTime{NewTime: *dto.NewTime})
		default:
			return nil, errs.NewValueIsInvalidErrorWithCause("change type",
				fmt.Errorf("unhandled kind %q", dto.Type))
		}
	}
	return changes, nil
}

// fromDomain converts a modification domain aggregate to its database
// representation.
func fromDomain(m *modification.Modification) (ModificationDTO, error) {
	changes, err := encodeChanges(m.Changes())
	if err != nil {
		return ModificationDTO{}, err
	}

	var reviewedBy *uuid.UUID
	if id := m.ReviewedBy(); id != nil {
		raw := id.Bytes()
		reviewedBy = &raw
	}

	return ModificationDTO{
		ID:      m.ID().Bytes(),
		OrderID: m.OrderID().Bytes(),
		Status:  int(m.Status()),

		Changes: changes,

		RequestedBy: m.RequestedBy().Bytes(),
		ReviewedBy:  reviewedBy,
		ReviewedAt:  m.ReviewedAt(),

		PriceImpact:      m.PriceImpact().Decimal(),
		Reason:           m.Reason(),
		RequiresApproval: m.RequiresApproval(),

		CreatedAt: m.CreatedAt(),
		AppliedAt: m.AppliedAt(),
	}, nil
}

// toDomain converts a database DTO to a modification domain aggregate.
func toDomain(dto ModificationDTO) (*modification.Modification, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	requestedBy, err := kernel.UUIDFromBytes(dto.RequestedBy[:])
	if err != nil {
		return nil, err
	}

	var reviewedBy *kernel.UUID
	if dto.ReviewedBy != nil {
		rID, reviewErr := kernel.UUIDFromBytes((*dto.ReviewedBy)[:])
		if reviewErr != nil {
			return nil, reviewErr
		}
		reviewedBy = &rID
	}

	changes, err := decodeChanges(dto.Changes)
	if err != nil {
		return nil, err
	}

	return modification.RestoreModification(
		id,
		orderID,
		changes,
		modification.Status(dto.Status),
		requestedBy,
		reviewedBy,
		dto.ReviewedAt,
		kernel.MoneyFromDecimal(dto.PriceImpact),
		dto.Reason,
		dto.RequiresApproval,
		dto.CreatedAt,
		dto.AppliedAt,
	)
}
