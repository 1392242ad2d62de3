// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"strings"
	"time"

	"orderpolicy/internal/core/domain/model/kernel"
	"orderpolicy/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Line items live in their own table and are loaded eagerly with the order;
// money columns use decimal(12,2) so policy arithmetic round-trips exactly.
type OrderDTO struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CustomerID uuid.UUID  `gorm:"type:uuid;index"`
	MerchantID uuid.UUID  `gorm:"type:uuid;index"`
	DriverID   *uuid.UUID `gorm:"type:uuid;index"`

	Status         int `gorm:"index"`
	DeliveryStatus int

	Items []OrderItemDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`

	DeliveryFee    decimal.Decimal `gorm:"type:decimal(12,2)"`
	ServiceFee     decimal.Decimal `gorm:"type:decimal(12,2)"`
	Tip            decimal.Decimal `gorm:"type:decimal(12,2)"`
	Discount       decimal.Decimal `gorm:"type:decimal(12,2)"`
	RefundedAmount decimal.Decimal `gorm:"type:decimal(12,2)"`

	PaymentMethod int
	PaymentStatus int

	Address      AddressDTO `gorm:"embedded;embeddedPrefix:address_"`
	Instructions string
	ScheduledAt  *time.Time
	EstimatedAt  *time.Time

	CreatedAt   time.Time
	ConfirmedAt *time.Time
	PreparingAt *time.Time
	ReadyAt     *time.Time
	AssignedAt  *time.Time
	PickedUpAt  *time.Time
	DeliveredAt *time.Time
	CancelledAt *time.Time

	MerchantPolicy MerchantPolicyDTO `gorm:"embedded;embeddedPrefix:merchant_"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// OrderItemDTO represents one order line item row.
type OrderItemDTO struct {
	OrderID   uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ItemID    uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name      string          `gorm:"type:varchar(255)"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2)"`
	Quantity  int
}

// TableName specifies the database table name for order line items.
func (OrderItemDTO) TableName() string {
	return "order_items"
}

// AddressDTO represents the embedded delivery address within the order table.
type AddressDTO struct {
	Street string `gorm:"type:varchar(255)"`
	City   string `gorm:"type:varchar(255)"`
	Zone   string `gorm:"type:varchar(64)"`
}

// MerchantPolicyDTO represents the embedded merchant settings snapshot
// captured at checkout. Zones are stored as a comma-joined list since zone
// identifiers are simple tokens.
type MerchantPolicyDTO struct {
	ModificationsEnabled     bool
	AllowMidPrepCancellation bool
	OpensAtMinute            int
	ClosesAtMinute           int
	DeliveryZones            string `gorm:"type:varchar(512)"`
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(o *order.Order) OrderDTO {
	var driverID *uuid.UUID
	if id := o.DriverID(); id != nil {
		raw := id.Bytes()
		driverID = &raw
	}

	items := make([]OrderItemDTO, 0, len(o.Items()))
	for _, item := range o.Items() {
		items = append(items, OrderItemDTO{
			OrderID:   o.ID().Bytes(),
			ItemID:    item.ItemID().Bytes(),
			Name:      item.Name(),
			UnitPrice: item.UnitPrice().Decimal(),
			Quantity:  item.Quantity(),
		})
	}

	policy := o.MerchantPolicy()

	return OrderDTO{
		ID:         o.ID().Bytes(),
		CustomerID: o.CustomerID().Bytes(),
		MerchantID: o.MerchantID().Bytes(),
		DriverID:   driverID,

		Status:         int(o.Status()),
		DeliveryStatus: int(o.DeliveryStatus()),

		Items: items,

		DeliveryFee:    o.DeliveryFee().Decimal(),
		ServiceFee:     o.ServiceFee().Decimal(),
		Tip:            o.Tip().Decimal(),
		Discount:       o.Discount().Decimal(),
		RefundedAmount: o.RefundedAmount().Decimal(),

		PaymentMethod: int(o.PaymentMethod()),
		PaymentStatus: int(o.PaymentStatus()),

		Address: AddressDTO{
			Street: o.Address().Street(),
			City:   o.Address().City(),
			Zone:   o.Address().Zone(),
		},
		Instructions: o.Instructions(),
		ScheduledAt:  o.ScheduledAt(),
		EstimatedAt:  o.EstimatedDeliveryAt(),

		CreatedAt:   o.CreatedAt(),
		ConfirmedAt: stageAt(o, order.StatusConfirmed),
		PreparingAt: stageAt(o, order.StatusPreparing),
		ReadyAt:     stageAt(o, order.StatusReady),
		AssignedAt:  stageAt(o, order.StatusAssigned),
		PickedUpAt:  stageAt(o, order.StatusPickedUp),
		DeliveredAt: stageAt(o, order.StatusDelivered),
		CancelledAt: stageAt(o, order.StatusCancelled),

		MerchantPolicy: MerchantPolicyDTO{
			ModificationsEnabled:     policy.ModificationsEnabled(),
			AllowMidPrepCancellation: policy.AllowMidPrepCancellation(),
			OpensAtMinute:            policy.OpensAtMinute(),
			ClosesAtMinute:           policy.ClosesAtMinute(),
			DeliveryZones:            strings.Join(policy.DeliveryZones(), ","),
		},
	}
}

func stageAt(o *order.Order, s order.Status) *time.Time {
	at, ok := o.StatusEnteredAt(s)
	if !ok {
		return nil
	}
	return &at
}

// toDomain converts a database DTO to an order domain aggregate using
// RestoreOrder, which re-derives totals from the restored lines.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}
	merchantID, err := kernel.UUIDFromBytes(dto.MerchantID[:])
	if err != nil {
		return nil, err
	}

	var driverID *kernel.UUID
	if dto.DriverID != nil {
		dID, driverErr := kernel.UUIDFromBytes((*dto.DriverID)[:])
		if driverErr != nil {
			return nil, driverErr
		}
		driverID = &dID
	}

	items := make([]*order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		itemID, itemErr := kernel.UUIDFromBytes(itemDTO.ItemID[:])
		if itemErr != nil {
			return nil, itemErr
		}
		item, itemErr := order.NewItem(itemID, itemDTO.Name,
			kernel.MoneyFromDecimal(itemDTO.UnitPrice), itemDTO.Quantity)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	address, err := kernel.NewAddress(dto.Address.Street, dto.Address.City, dto.Address.Zone)
	if err != nil {
		return nil, err
	}

	var zones []string
	if dto.MerchantPolicy.DeliveryZones != "" {
		zones = strings.Split(dto.MerchantPolicy.DeliveryZones, ",")
	}

	return order.RestoreOrder(order.Snapshot{
		ID:         id,
		CustomerID: customerID,
		MerchantID: merchantID,
		DriverID:   driverID,

		Status:         order.Status(dto.Status),
		DeliveryStatus: order.DeliveryStatus(dto.DeliveryStatus),

		Items: items,

		Charges: order.Charges{
			DeliveryFee: kernel.MoneyFromDecimal(dto.DeliveryFee),
			ServiceFee:  kernel.MoneyFromDecimal(dto.ServiceFee),
			Tip:         kernel.MoneyFromDecimal(dto.Tip),
			Discount:    kernel.MoneyFromDecimal(dto.Discount),
		},
		RefundedAmount: kernel.MoneyFromDecimal(dto.RefundedAmount),

		PaymentMethod: order.PaymentMethod(dto.PaymentMethod),
		PaymentStatus: order.PaymentStatus(dto.PaymentStatus),

		Address:      address,
		Instructions: dto.Instructions,
		ScheduledAt:  dto.ScheduledAt,
		EstimatedAt:  dto.EstimatedAt,

		CreatedAt:   dto.CreatedAt,
		ConfirmedAt: dto.ConfirmedAt,
		PreparingAt: dto.PreparingAt,
		ReadyAt:     dto.ReadyAt,
		AssignedAt:  dto.AssignedAt,
		PickedUpAt:  dto.PickedUpAt,
		DeliveredAt: dto.DeliveredAt,
		CancelledAt: dto.CancelledAt,

		MerchantPolicy: order.NewMerchantPolicy(
			dto.MerchantPolicy.ModificationsEnabled,
			dto.MerchantPolicy.AllowMidPrepCancellation,
			dto.MerchantPolicy.OpensAtMinute,
			dto.MerchantPolicy.ClosesAtMinute,
			zones,
		),
	})
}
