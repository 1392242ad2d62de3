package queries

import (
	"errors"
	"time"

	"orderpolicy/internal/core/domain/model/kernel"
	"orderpolicy/internal/core/domain/model/modification"
	"orderpolicy/internal/pkg/guard"
)

var (
	ErrGetModificationOptionsQueryIsNotConstructed = errors.New(
		"GetModificationOptionsQuery must be created via NewGetModificationOptionsQuery constructor",
	)
)

// GetModificationOptionsQuery resolves what a caller may change on an
// order right now: the accepted change kinds, how long the window stays
// open and whether changes go through merchant review.
type GetModificationOptionsQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetModificationOptionsQuery creates a query for an order's current
// modification options.
func NewGetModificationOptionsQuery(orderID kernel.UUID) (GetModificationOptionsQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetModificationOptionsQuery{}, err
	}

	return GetModificationOptionsQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetModificationOptionsQuery) Validate() error {
	return q.guard.Validate(ErrGetModificationOptionsQueryIsNotConstructed)
}

// OrderID returns the order being previewed.
func (q GetModificationOptionsQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetModificationOptionsQueryResponse is the resolved modification
// preview. WindowRemaining is nil when the current status has no time
// limit; HasPendingModification tells the caller a previous request is
// still waiting for review and blocks a new one.
type GetModificationOptionsQueryResponse struct {
	CanModify              bool
	Reason                 string
	AllowedTypes           []modification.ChangeType
	WindowRemaining        *time.Duration
	RequiresApproval       bool
	HasPendingModification bool
}
