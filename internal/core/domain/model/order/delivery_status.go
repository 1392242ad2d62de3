package order

import (
	"fmt"

	"orderpolicy/internal/pkg/errs"
)

// DeliveryStatus tracks the driver's progress on an order independently of
// the order lifecycle. Modification rules and driver compensation both key
// off how far the delivery has progressed at decision time.
type DeliveryStatus int

const (
	// DeliveryNone means no driver work has started.
	DeliveryNone DeliveryStatus = iota

	// DeliveryAssigned means a driver accepted the delivery.
	DeliveryAssigned

	// DeliveryArrivedAtPickup means the driver is at the merchant.
	DeliveryArrivedAtPickup

	// DeliveryPickedUp means the driver has the order.
	DeliveryPickedUp

	// DeliveryEnRoute means the driver is heading to the customer.
	DeliveryEnRoute

	// DeliveryArrived means the driver is at the customer's address.
	DeliveryArrived

	// DeliveryCompleted means the order was handed over.
	DeliveryCompleted
)

func getDeliveryStatusStrings() map[DeliveryStatus]string {
	return map[DeliveryStatus]string{
		DeliveryNone:            "none",
		DeliveryAssigned:        "assigned",
		DeliveryArrivedAtPickup: "arrived_at_pickup",
		DeliveryPickedUp:        "picked_up",
		DeliveryEnRoute:         "en_route",
		DeliveryArrived:         "arrived",
		DeliveryCompleted:       "delivered",
	}
}

// Validate checks that the value is one of the defined delivery states.
func (d DeliveryStatus) Validate() error {
	if _, ok := getDeliveryStatusStrings()[d]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("delivery status",
			fmt.Errorf("%d is not a valid delivery status", d))
	}
	return nil
}

// String returns the lowercase name of the delivery status.
func (d DeliveryStatus) String() string {
	if s, ok := getDeliveryStatusStrings()[d]; ok {
		return s
	}
	return "none"
}

// InProgress reports whether driver work has started but not finished.
// Cancelling an order in this window owes the driver compensation.
func (d DeliveryStatus) InProgress() bool {
	return d >= DeliveryAssigned && d < DeliveryCompleted
}

// EnRouteOrLater reports whether the delivery has progressed past pickup
// handling. Orders this far along accept no modifications at all.
func (d DeliveryStatus) EnRouteOrLater() bool {
	return d >= DeliveryEnRoute
}
