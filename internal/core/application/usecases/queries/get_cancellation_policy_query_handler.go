package queries

import (
	"context"
	"time"

	"orderpolicy/internal/core/domain/services"
	"orderpolicy/internal/core/ports"
)

// GetCancellationPolicyQueryHandler resolves the cancellation terms for an
// order. Loads the aggregate without locking it; the preview may be stale
// the moment it is returned, which is why CancelOrder re-resolves the
// policy under the row lock.
type GetCancellationPolicyQueryHandler struct {
	orders ports.OrderRepository
	policy services.CancellationPolicy
}

// NewGetCancellationPolicyQueryHandler creates a handler for cancellation
// policy previews.
func NewGetCancellationPolicyQueryHandler(orders ports.OrderRepository) GetCancellationPolicyQueryHandler {
	return GetCancellationPolicyQueryHandler{
		orders: orders,
		policy: services.NewCancellationPolicy(),
	}
}

// Handle resolves the policy for the order at the current moment.
func (h GetCancellationPolicyQueryHandler) Handle(
	ctx context.Context,
	query GetCancellationPolicyQuery,
) (GetCancellationPolicyQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetCancellationPolicyQueryResponse{}, err
	}

	o, err := h.orders.Get(ctx, query.OrderID())
	if err != nil {
		return GetCancellationPolicyQueryResponse{}, err
	}

	policy, err := h.policy.PolicyFor(o, time.Now().UTC())
	if err != nil {
		return GetCancellationPolicyQueryResponse{}, err
	}

	return GetCancellationPolicyQueryResponse{
		CanCancel:        policy.CanCancel,
		Reason:           policy.Reason,
		RefundPercentage: policy.RefundPercentage,
		PenaltyAmount:    policy.PenaltyAmount,
		RefundAmount:     h.policy.RefundAmount(o, policy),
		Rules:            policy.Rules,
	}, nil
}
