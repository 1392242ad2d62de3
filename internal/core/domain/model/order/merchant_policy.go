package order

import (
	"time"
)

// MerchantPolicy is the merchant's order-handling settings, snapshotted onto
// the order at checkout. Carrying the snapshot keeps the modification and
// cancellation policy services dependent on order data alone; a later change
// to the merchant's settings does not retroactively rewrite the terms an
// order was placed under.
type MerchantPolicy struct {
	modificationsEnabled     bool
	allowMidPrepCancellation bool
	opensAtMinute            int
	closesAtMinute           int
	deliveryZones            []string
}

// NewMerchantPolicy creates a merchant policy snapshot. opensAtMinute and
// closesAtMinute are minutes after midnight in the merchant's timezone;
// deliveryZones lists the zone identifiers the merchant delivers to.
func NewMerchantPolicy(
	modificationsEnabled bool,
	allowMidPrepCancellation bool,
	opensAtMinute int,
	closesAtMinute int,
	deliveryZones []string,
) MerchantPolicy {
	zones := make([]string, len(deliveryZones))
	copy(zones, deliveryZones)

	return MerchantPolicy{
		modificationsEnabled:     modificationsEnabled,
		allowMidPrepCancellation: allowMidPrepCancellation,
		opensAtMinute:            opensAtMinute,
		closesAtMinute:           closesAtMinute,
		deliveryZones:            zones,
	}
}

// ModificationsEnabled reports whether the merchant accepts order
// modifications at all.
func (p MerchantPolicy) ModificationsEnabled() bool {
	return p.modificationsEnabled
}

// AllowMidPrepCancellation reports whether the merchant accepts
// cancellations once preparation has started.
func (p MerchantPolicy) AllowMidPrepCancellation() bool {
	return p.allowMidPrepCancellation
}

// OpensAtMinute returns the opening time as minutes after midnight.
func (p MerchantPolicy) OpensAtMinute() int {
	return p.opensAtMinute
}

// ClosesAtMinute returns the closing time as minutes after midnight.
func (p MerchantPolicy) ClosesAtMinute() int {
	return p.closesAtMinute
}

// DeliveryZones returns a copy of the merchant's delivery zone identifiers.
func (p MerchantPolicy) DeliveryZones() []string {
	zones := make([]string, len(p.deliveryZones))
	copy(zones, p.deliveryZones)
	return zones
}

// ServesZone reports whether the merchant delivers to the given zone.
func (p MerchantPolicy) ServesZone(zone string) bool {
	for _, z := range p.deliveryZones {
		if z == zone {
			return true
		}
	}
	return false
}

// IsOpenAt reports whether the merchant is open at the given time.
// A window where closing precedes opening wraps past midnight.
func (p MerchantPolicy) IsOpenAt(t time.Time) bool {
	minute := t.Hour()*60 + t.Minute()
	if p.opensAtMinute == p.closesAtMinute {
		// Degenerate window means always open.
		return true
	}
	if p.opensAtMinute < p.closesAtMinute {
		return minute >= p.opensAtMinute && minute < p.closesAtMinute
	}
	return minute >= p.opensAtMinute || minute < p.closesAtMinute
}
