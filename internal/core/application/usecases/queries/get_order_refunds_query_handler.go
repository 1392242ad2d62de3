package queries

import (
	"context"

	"orderpolicy/internal/core/domain/model/kernel"
	"orderpolicy/internal/core/domain/model/refund"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetOrderRefundsQueryHandler retrieves an order's refund history from the
// database. Uses direct SQL for optimal read performance in the CQRS
// pattern; the domain aggregate is never materialized.
type GetOrderRefundsQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderRefundsQueryHandler creates a handler for refund history
// queries. Requires a GORM database connection for query execution.
func NewGetOrderRefundsQueryHandler(db *gorm.DB) GetOrderRefundsQueryHandler {
	return GetOrderRefundsQueryHandler{db: db}
}

// Handle executes the query to retrieve the order's refunds, newest first.
func (h GetOrderRefundsQueryHandler) Handle(
	ctx context.Context,
	query GetOrderRefundsQuery,
) ([]GetOrderRefundsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	refunds := make([]GetOrderRefundsQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			amount,
			type,
			status,
			reason,
			transaction_id,
			failure_message,
			created_at,
			processed_at
		FROM refunds
		WHERE order_id = ?
		ORDER BY created_at DESC
	`, query.OrderID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetOrderRefundsQueryResponse
		var id uuid.UUID
		var amount decimal.Decimal
		var refundType, status int

		err = rows.Scan(
			&id,
			&amount,
			&refundType,
			&status,
			&resp.Reason,
			&resp.TransactionID,
			&resp.FailureMessage,
			&resp.CreatedAt,
			&resp.ProcessedAt,
		)
		if err != nil {
			return nil, err
		}

		refundID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = refundID
		resp.Amount = kernel.MoneyFromDecimal(amount)
		resp.Type = refund.Type(refundType).String()
		resp.Status = refund.Status(status).String()

		refunds = append(refunds, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return refunds, nil
}
