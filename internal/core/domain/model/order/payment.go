package order

import (
	"fmt"

	"orderpolicy/internal/pkg/errs"
)

// PaymentMethod identifies the rail an order was paid on. Refund execution
// dispatches to the payment boundary keyed by this value.
type PaymentMethod int

const (
	// PaymentMethodUnknown represents an invalid or undefined method.
	PaymentMethodUnknown PaymentMethod = iota

	// PaymentMethodCard is a card payment.
	PaymentMethodCard

	// PaymentMethodWallet is a platform wallet payment.
	PaymentMethodWallet

	// PaymentMethodCrypto is a cryptocurrency payment.
	PaymentMethodCrypto
)

func getPaymentMethodStrings() map[PaymentMethod]string {
	return map[PaymentMethod]string{
		PaymentMethodUnknown: "unknown",
		PaymentMethodCard:    "card",
		PaymentMethodWallet:  "wallet",
		PaymentMethodCrypto:  "crypto",
	}
}

// Validate checks that the value is one of the supported payment methods.
func (p PaymentMethod) Validate() error {
	if p == PaymentMethodUnknown {
		return errs.NewValueIsInvalidErrorWithCause("payment method",
			fmt.Errorf("%d is not a valid payment method", p))
	}
	if _, ok := getPaymentMethodStrings()[p]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("payment method",
			fmt.Errorf("%d is not a valid payment method", p))
	}
	return nil
}

// String returns the lowercase name of the payment method.
func (p PaymentMethod) String() string {
	if s, ok := getPaymentMethodStrings()[p]; ok {
		return s
	}
	return "unknown"
}

// PaymentStatus tracks whether the order's charge has settled.
// Refunds are only issued against completed payments.
type PaymentStatus int

const (
	// PaymentPending means the charge has not settled yet.
	PaymentPending PaymentStatus = iota

	// PaymentCompleted means the charge settled.
	PaymentCompleted

	// PaymentFailed means the charge failed.
	PaymentFailed
)

func getPaymentStatusStrings() map[PaymentStatus]string {
	return map[PaymentStatus]string{
		PaymentPending:   "pending",
		PaymentCompleted: "completed",
		PaymentFailed:    "failed",
	}
}

// Validate checks that the value is one of the defined payment states.
func (p PaymentStatus) Validate() error {
	if _, ok := getPaymentStatusStrings()[p]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("payment status",
			fmt.Errorf("%d is not a valid payment status", p))
	}
	return nil
}

// String returns the lowercase name of the payment status.
func (p PaymentStatus) String() string {
	if s, ok := getPaymentStatusStrings()[p]; ok {
		return s
	}
	return "pending"
}
