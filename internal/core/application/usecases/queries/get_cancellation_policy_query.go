// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return optimized read models for specific use cases.
package queries

import (
	"errors"

	"orderpolicy/internal/core/domain/model/kernel"
	"orderpolicy/internal/pkg/guard"
)

var (
	ErrGetCancellationPolicyQueryIsNotConstructed = errors.New(
		"GetCancellationPolicyQuery must be created via NewGetCancellationPolicyQuery constructor",
	)
)

// GetCancellationPolicyQuery resolves what cancelling an order right now
// would cost: whether it is allowed at all, the refund percentage, the
// penalty and the resulting refund amount. Read-only preview; nothing is
// cancelled.
//
// Example:
//
//	query, err := NewGetCancellationPolicyQuery(orderID)
//	if err != nil {
//	    return fmt.Errorf("invalid policy query: %w", err)
//	}
//
//	policy, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to resolve cancellation policy: %w", err)
//	}
type GetCancellationPolicyQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetCancellationPolicyQuery creates a query for an order's current
// cancellation terms.
func NewGetCancellationPolicyQuery(orderID kernel.UUID) (GetCancellationPolicyQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetCancellationPolicyQuery{}, err
	}

	return GetCancellationPolicyQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetCancellationPolicyQuery) Validate() error {
	return q.guard.Validate(ErrGetCancellationPolicyQueryIsNotConstructed)
}

// OrderID returns the order being previewed.
func (q GetCancellationPolicyQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetCancellationPolicyQueryResponse is the resolved cancellation preview.
// When CanCancel is false, Reason explains the refusal and the monetary
// fields are zero.
type GetCancellationPolicyQueryResponse struct {
	CanCancel        bool
	Reason           string
	RefundPercentage int
	PenaltyAmount    kernel.Money
	RefundAmount     kernel.Money
	Rules            []string
}
