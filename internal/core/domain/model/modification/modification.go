// Package modification contains the Modification aggregate: a customer's
// request to change a placed order, the closed set of change kinds it can
// carry, and the pending/approved/rejected/applied approval lifecycle.
//
// At most one modification per order may be pending at any time. The
// aggregate itself cannot see its siblings, so that invariant is enforced
// at the persistence boundary with a partial unique index; the aggregate
// enforces everything local to a single modification.
package modification

import (
	"errors"
	"time"

	"orderpolicy/internal/core/domain/model/kernel"
	"orderpolicy/internal/pkg/errs"
)

// ErrModificationIsNotConstructed is returned when a Modification was not
// created through NewModification or RestoreModification.
var ErrModificationIsNotConstructed = errors.New(
	"Modification must be created via NewModification or RestoreModification")

// Modification is a request to change a placed order. It carries one or
// more typed changes, the combined signed price impact computed at request
// time, and the approval lifecycle including reviewer identity.
type Modification struct {
	id          kernel.UUID
	orderID     kernel.UUID
	changes     []Change
	status      Status
	requestedBy kernel.UUID
	reviewedBy  *kernel.UUID
	reviewedAt  *time.Time
	priceImpact kernel.Money
	reason      string

	requiresApproval bool

	createdAt time.Time
	appliedAt *time.Time

	isConstructed bool
}

// NewModification creates a modification request. When requiresApproval is
// false the caller applies it in the same operation and the record starts
// in Applied; otherwise it starts Pending.
func NewModification(
	id kernel.UUID,
	orderID kernel.UUID,
	changes []Change,
	requestedBy kernel.UUID,
	priceImpact kernel.Money,
	reason string,
	requiresApproval bool,
	now time.Time,
) (*Modification, error) {
	if err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		requestedBy.Validate(),
	); err != nil {
		return nil, err
	}
	if len(changes) == 0 {
		return nil, errs.NewValueIsRequiredError("changes")
	}
	for _, c := range changes {
		if err := c.Validate(); err != nil {
			return nil, err
		}
	}

	status := StatusPending
	var appliedAt *time.Time
	if !requiresApproval {
		status = StatusApplied
		appliedAt = &now
	}

	return &Modification{
		id:               id,
		orderID:          orderID,
		changes:          changes,
		status:           status,
		requestedBy:      requestedBy,
		priceImpact:      priceImpact,
		reason:           reason,
		requiresApproval: requiresApproval,
		createdAt:        now,
		appliedAt:        appliedAt,
		isConstructed:    true,
	}, nil
}

// RestoreModification reconstructs a Modification from persistence.
func RestoreModification(
	id kernel.UUID,
	orderID kernel.UUID,
	changes []Change,
	status Status,
	requestedBy kernel.UUID,
	reviewedBy *kernel.UUID,
	reviewedAt *time.Time,
	priceImpact kernel.Money,
	reason string,
	requiresApproval bool,
	createdAt time.Time,
	appliedAt *time.Time,
) (*Modification, error) {
	if err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		status.Validate(),
		requestedBy.Validate(),
	); err != nil {
		return nil, err
	}
	if len(changes) == 0 {
		return nil, errs.NewValueIsRequiredError("changes")
	}

	return &Modification{
		id:               id,
		orderID:          orderID,
		changes:          changes,
		status:           status,
		requestedBy:      requestedBy,
		reviewedBy:       reviewedBy,
		reviewedAt:       reviewedAt,
		priceImpact:      priceImpact,
		reason:           reason,
		requiresApproval: requiresApproval,
		createdAt:        createdAt,
		appliedAt:        appliedAt,
		isConstructed:    true,
	}, nil
}

// Validate ensures the Modification was properly constructed.
func (m *Modification) Validate() error {
	if m == nil || !m.isConstructed {
		return ErrModificationIsNotConstructed
	}
	return nil
}

// ID returns the modification's unique identifier.
func (m *Modification) ID() kernel.UUID {
	return m.id
}

// OrderID returns the identifier of the order being modified.
func (m *Modification) OrderID() kernel.UUID {
	return m.orderID
}

// Changes returns the requested changes. The returned slice is a copy.
func (m *Modification) Changes() []Change {
	changes := make([]Change, len(m.changes))
	copy(changes, m.changes)
	return changes
}

// Status returns the approval lifecycle state.
func (m *Modification) Status() Status {
	return m.status
}

// RequestedBy returns the requesting principal's identifier.
func (m *Modification) RequestedBy() kernel.UUID {
	return m.requestedBy
}

// ReviewedBy returns the reviewer's identifier, or nil if unreviewed.
func (m *Modification) ReviewedBy() *kernel.UUID {
	return m.reviewedBy
}

// ReviewedAt returns when the review decision was recorded, or nil.
func (m *Modification) ReviewedAt() *time.Time {
	return m.reviewedAt
}

// PriceImpact returns the combined signed money delta of the changes,
// computed once at request time.
func (m *Modification) PriceImpact() kernel.Money {
	return m.priceImpact
}

// Reason returns the requester's stated reason.
func (m *Modification) Reason() string {
	return m.reason
}

// RequiresApproval reports whether the request needed human review.
func (m *Modification) RequiresApproval() bool {
	return m.requiresApproval
}

// CreatedAt returns when the modification was requested.
func (m *Modification) CreatedAt() time.Time {
	return m.createdAt
}

// AppliedAt returns when the changes reached the order, or nil.
func (m *Modification) AppliedAt() *time.Time {
	return m.appliedAt
}

// Approve records the reviewer's acceptance. Fails with a state conflict
// unless the modification is pending.
func (m *Modification) Approve(reviewedBy kernel.UUID, now time.Time) error {
	if err := reviewedBy.Validate(); err != nil {
		return err
	}
	next, err := m.status.Approve()
	if err != nil {
		return err
	}
	m.status = next
	m.reviewedBy = &reviewedBy
	m.reviewedAt = &now
	return nil
}

// Reject records the reviewer's refusal. Fails with a state conflict
// unless the modification is pending.
func (m *Modification) Reject(reviewedBy kernel.UUID, now time.Time) error {
	if err := reviewedBy.Validate(); err != nil {
		return err
	}
	next, err := m.status.Reject()
	if err != nil {
		return err
	}
	m.status = next
	m.reviewedBy = &reviewedBy
	m.reviewedAt = &now
	return nil
}

// MarkApplied records the changes reaching the order. Fails with a state
// conflict unless the modification is approved.
func (m *Modification) MarkApplied(now time.Time) error {
	next, err := m.status.Apply()
	if err != nil {
		return err
	}
	m.status = next
	m.appliedAt = &now
	return nil
}
