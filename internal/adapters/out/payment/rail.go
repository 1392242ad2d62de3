// Package payment adapts the refund execution port to a payment gateway.
// The in-process rail stands in for the real gateway integration; it honors
// the same idempotency contract, so swapping in an HTTP client changes no
// caller.
package payment

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"orderpolicy/internal/core/domain/model/kernel"
	"orderpolicy/internal/core/domain/model/order"
	"orderpolicy/internal/pkg/errs"

	"github.com/google/uuid"
)

// InProcessRail executes refunds against an in-memory ledger keyed by
// idempotency key. Replaying a key returns the original transaction ID
// instead of crediting twice.
type InProcessRail struct {
	logger *slog.Logger

	mu           sync.Mutex
	transactions map[string]string
}

// NewInProcessRail creates a rail with an empty transaction ledger.
func NewInProcessRail(logger *slog.Logger) *InProcessRail {
	return &InProcessRail{
		logger:       logger.With("component", "payment_rail"),
		transactions: make(map[string]string),
	}
}

// Refund implements ports.PaymentRail.
func (r *InProcessRail) Refund(
	ctx context.Context,
	method order.PaymentMethod,
	amount kernel.Money,
	idempotencyKey string,
) (string, error) {
	if idempotencyKey == "" {
		return "", errs.NewExternalServiceError("payment rail",
			fmt.Errorf("idempotency key is required"))
	}
	if !amount.IsPositive() {
		return "", errs.NewExternalServiceError("payment rail",
			fmt.Errorf("refund amount %s is not positive", amount))
	}
	if err := method.Validate(); err != nil {
		return "", errs.NewExternalServiceError("payment rail", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if txnID, ok := r.transactions[idempotencyKey]; ok {
		r.logger.InfoContext(ctx, "refund replayed",
			"idempotency_key", idempotencyKey, "transaction_id", txnID)
		return txnID, nil
	}

	txnID := fmt.Sprintf("txn-%s", uuid.NewString())
	r.transactions[idempotencyKey] = txnID

	r.logger.InfoContext(ctx, "refund executed",
		"method", method.String(),
		"amount", amount.String(),
		"idempotency_key", idempotencyKey,
		"transaction_id", txnID)

	return txnID, nil
}
