package queries

import (
	"context"
	"errors"
	"time"

	"orderpolicy/internal/core/domain/services"
	"orderpolicy/internal/core/ports"
	"orderpolicy/internal/pkg/errs"
)

// GetModificationOptionsQueryHandler resolves the modification options
// for an order. Like the cancellation preview, this reads without
// locking; RequestModification re-checks everything under the row lock.
type GetModificationOptionsQueryHandler struct {
	orders        ports.OrderRepository
	modifications ports.ModificationRepository
	policy        services.ModificationPolicy
}

// NewGetModificationOptionsQueryHandler creates a handler for modification
// option previews.
func NewGetModificationOptionsQueryHandler(
	orders ports.OrderRepository,
	modifications ports.ModificationRepository,
) GetModificationOptionsQueryHandler {
	return GetModificationOptionsQueryHandler{
		orders:        orders,
		modifications: modifications,
		policy:        services.NewModificationPolicy(),
	}
}

// Handle resolves the options for the order at the current moment.
func (h GetModificationOptionsQueryHandler) Handle(
	ctx context.Context,
	query GetModificationOptionsQuery,
) (GetModificationOptionsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetModificationOptionsQueryResponse{}, err
	}

	o, err := h.orders.Get(ctx, query.OrderID())
	if err != nil {
		return GetModificationOptionsQueryResponse{}, err
	}

	opts, err := h.policy.OptionsFor(o, time.Now().UTC())
	if err != nil {
		return GetModificationOptionsQueryResponse{}, err
	}

	hasPending := true
	if _, err = h.modifications.GetPendingByOrder(ctx, query.OrderID()); err != nil {
		if !errors.Is(err, errs.ErrObjectNotFound) {
			return GetModificationOptionsQueryResponse{}, err
		}
		hasPending = false
	}

	return GetModificationOptionsQueryResponse{
		CanModify:              opts.Allowed,
		Reason:                 opts.Reason,
		AllowedTypes:           opts.AllowedTypes,
		WindowRemaining:        opts.WindowRemaining,
		RequiresApproval:       opts.NeedsApproval,
		HasPendingModification: hasPending,
	}, nil
}
