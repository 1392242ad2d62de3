package queries

import (
	"errors"
	"time"

	"orderpolicy/internal/core/domain/model/kernel"
	"orderpolicy/internal/pkg/guard"
)

var (
	ErrGetOrderRefundsQueryIsNotConstructed = errors.New(
		"GetOrderRefundsQuery must be created via NewGetOrderRefundsQuery constructor",
	)
)

// GetOrderRefundsQuery retrieves the refund history of an order, newest
// first, for support tooling and customer-facing order detail.
type GetOrderRefundsQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderRefundsQuery creates a query for an order's refund history.
func NewGetOrderRefundsQuery(orderID kernel.UUID) (GetOrderRefundsQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderRefundsQuery{}, err
	}

	return GetOrderRefundsQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderRefundsQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderRefundsQueryIsNotConstructed)
}

// OrderID returns the order whose refunds are listed.
func (q GetOrderRefundsQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetOrderRefundsQueryResponse is one refund in the order's history.
// TransactionID is empty until the payment rail confirms; FailureMessage
// is set only on failed refunds.
type GetOrderRefundsQueryResponse struct {
	ID             kernel.UUID
	Amount         kernel.Money
	Type           string
	Status         string
	Reason         string
	TransactionID  string
	FailureMessage string
	CreatedAt      time.Time
	ProcessedAt    *time.Time
}
