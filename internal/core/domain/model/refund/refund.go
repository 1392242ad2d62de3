// Package refund contains the Refund aggregate: a single attempt to return
// money to a customer, moving pending -> processing -> completed | failed.
// Terminal records are never mutated; a correction or retry after failure
// is a new record, which keeps every money movement auditable.
package refund

import (
	"errors"
	"fmt"
	"time"

	"orderpolicy/internal/core/domain/model/kernel"
	"orderpolicy/internal/pkg/errs"
)

// ErrRefundIsNotConstructed is returned when a Refund was not created
// through NewRefund or RestoreRefund.
var ErrRefundIsNotConstructed = errors.New(
	"Refund must be created via NewRefund or RestoreRefund")

// Status represents the refund execution lifecycle:
//
//	Pending ──> Processing ──┬──> Completed
//	                         └──> Failed
//
// Completed and Failed are terminal.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	StatusUnknown Status = iota

	// StatusPending means the refund is created and awaiting execution.
	StatusPending

	// StatusProcessing means an executor claimed the refund and the
	// payment rail call is in flight. Once here, the operation runs to a
	// terminal outcome; it is reconciled, not aborted.
	StatusProcessing

	// StatusCompleted means the money moved. Terminal.
	StatusCompleted

	// StatusFailed means the payment rail declined or errored. Terminal;
	// retry is an explicit new record, never a mutation of this one.
	StatusFailed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:    "unknown",
		StatusPending:    "pending",
		StatusProcessing: "processing",
		StatusCompleted:  "completed",
		StatusFailed:     "failed",
	}
}

// Validate checks that the Status value is one of the defined states.
func (s Status) Validate() error {
	if s == StatusUnknown {
		return errs.NewValueIsInvalidErrorWithCause("refund status",
			fmt.Errorf("%d is not a valid refund status", s))
	}
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("refund status",
			fmt.Errorf("%d is not a valid refund status", s))
	}
	return nil
}

// String returns the lowercase name of the status.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether the status allows no further transitions.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Type classifies how much of the order a refund covers.
type Type int

const (
	// TypeUnknown represents an invalid or undefined type.
	TypeUnknown Type = iota

	// TypeFull refunds the whole order total.
	TypeFull

	// TypePartial refunds a fraction of the order total.
	TypePartial

	// TypeItem refunds specific line items.
	TypeItem
)

func getTypeStrings() map[Type]string {
	return map[Type]string{
		TypeUnknown: "unknown",
		TypeFull:    "full",
		TypePartial: "partial",
		TypeItem:    "item",
	}
}

// Validate checks that the value is one of the defined refund types.
func (t Type) Validate() error {
	if t == TypeUnknown {
		return errs.NewValueIsInvalidErrorWithCause("refund type",
			fmt.Errorf("%d is not a valid refund type", t))
	}
	if _, ok := getTypeStrings()[t]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("refund type",
			fmt.Errorf("%d is not a valid refund type", t))
	}
	return nil
}

// String returns the lowercase name of the refund type.
func (t Type) String() string {
	if s, ok := getTypeStrings()[t]; ok {
		return s
	}
	return "unknown"
}

// Refund is one attempt to return money for an order. The amount is
// computed once at creation and never recomputed; a correction requires a
// new record.
type Refund struct {
	id      kernel.UUID
	orderID kernel.UUID
	amount  kernel.Money
	typ     Type
	status  Status
	reason  string

	transactionID  string
	failureMessage string
	processedBy    kernel.UUID
	idempotencyKey string

	createdAt   time.Time
	processedAt *time.Time

	isConstructed bool
}

// NewRefund creates a pending refund. The idempotency key is handed to the
// payment rail so at-least-once execution cannot double-credit.
func NewRefund(
	id kernel.UUID,
	orderID kernel.UUID,
	amount kernel.Money,
	typ Type,
	reason string,
	processedBy kernel.UUID,
	now time.Time,
) (*Refund, error) {
	if err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		typ.Validate(),
		processedBy.Validate(),
	); err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, errs.NewValueIsInvalidErrorWithCause("refund amount",
			fmt.Errorf("%s is not greater than 0", amount))
	}

	return &Refund{
		id:             id,
		orderID:        orderID,
		amount:         amount.Round2(),
		typ:            typ,
		status:         StatusPending,
		reason:         reason,
		processedBy:    processedBy,
		idempotencyKey: fmt.Sprintf("refund-%s", id),
		createdAt:      now,
		isConstructed:  true,
	}, nil
}

// RestoreRefund reconstructs a Refund from persistence.
func RestoreRefund(
	id kernel.UUID,
	orderID kernel.UUID,
	amount kernel.Money,
	typ Type,
	status Status,
	reason string,
	transactionID string,
	failureMessage string,
	processedBy kernel.UUID,
	idempotencyKey string,
	createdAt time.Time,
	processedAt *time.Time,
) (*Refund, error) {
	if err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		typ.Validate(),
		status.Validate(),
		processedBy.Validate(),
	); err != nil {
		return nil, err
	}

	return &Refund{
		id:             id,
		orderID:        orderID,
		amount:         amount,
		typ:            typ,
		status:         status,
		reason:         reason,
		transactionID:  transactionID,
		failureMessage: failureMessage,
		processedBy:    processedBy,
		idempotencyKey: idempotencyKey,
		createdAt:      createdAt,
		processedAt:    processedAt,
		isConstructed:  true,
	}, nil
}

// Validate ensures the Refund was properly constructed.
func (r *Refund) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrRefundIsNotConstructed
	}
	return nil
}

// ID returns the refund's unique identifier.
func (r *Refund) ID() kernel.UUID {
	return r.id
}

// OrderID returns the refunded order's identifier.
func (r *Refund) OrderID() kernel.UUID {
	return r.orderID
}

// Amount returns the refund amount, fixed at creation.
func (r *Refund) Amount() kernel.Money {
	return r.amount
}

// Type returns the refund type.
func (r *Refund) Type() Type {
	return r.typ
}

// Status returns the execution lifecycle state.
func (r *Refund) Status() Status {
	return r.status
}

// Reason returns the stated refund reason.
func (r *Refund) Reason() string {
	return r.reason
}

// TransactionID returns the payment rail transaction id, set on success.
func (r *Refund) TransactionID() string {
	return r.transactionID
}

// FailureMessage returns the payment rail error text, set on failure.
func (r *Refund) FailureMessage() string {
	return r.failureMessage
}

// ProcessedBy returns the principal who requested the refund.
func (r *Refund) ProcessedBy() kernel.UUID {
	return r.processedBy
}

// IdempotencyKey returns the key handed to the payment rail.
func (r *Refund) IdempotencyKey() string {
	return r.idempotencyKey
}

// CreatedAt returns when the refund was created.
func (r *Refund) CreatedAt() time.Time {
	return r.createdAt
}

// ProcessedAt returns when the refund reached a terminal state, or nil.
func (r *Refund) ProcessedAt() *time.Time {
	return r.processedAt
}

// StartProcessing claims the refund for execution, moving pending to
// processing. A non-pending refund is a state conflict; the executor
// treats a terminal one as an at-least-once redelivery and skips it.
func (r *Refund) StartProcessing() error {
	if r.status != StatusPending {
		return errs.NewStateConflictError("refund", r.status.String())
	}
	r.status = StatusProcessing
	return nil
}

// Complete records the successful payment rail transaction.
func (r *Refund) Complete(transactionID string, now time.Time) error {
	if r.status != StatusProcessing {
		return errs.NewStateConflictError("refund", r.status.String())
	}
	if transactionID == "" {
		return errs.NewValueIsRequiredError("transaction id")
	}
	r.status = StatusCompleted
	r.transactionID = transactionID
	r.processedAt = &now
	return nil
}

// Fail records the payment rail failure. The record is terminal; any retry
// is a new refund.
func (r *Refund) Fail(message string, now time.Time) error {
	if r.status != StatusProcessing {
		return errs.NewStateConflictError("refund", r.status.String())
	}
	r.status = StatusFailed
	r.failureMessage = message
	r.processedAt = &now
	return nil
}
