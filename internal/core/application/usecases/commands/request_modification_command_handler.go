package commands

import (
	"context"
	"errors"
	"strings"
	"time"

	"orderpolicy/internal/core/domain/model/kernel"
	"orderpolicy/internal/core/domain/model/modification"
	"orderpolicy/internal/core/domain/model/order"
	"orderpolicy/internal/core/domain/services"
	"orderpolicy/internal/core/ports"
	"orderpolicy/internal/pkg/errs"
)

// RequestModificationCommandHandler validates and records order modification
// requests. Changes that need no approval are applied immediately; the rest
// wait in pending status for merchant review.
//
// The order row is locked for the whole operation, so the eligibility
// decision and the writes it justifies observe one consistent snapshot.
// A concurrent request on the same order either waits on the lock or is
// rejected by the single-pending-modification constraint.
type RequestModificationCommandHandler struct {
	uowFactory ModificationUoWFactory
	policy     services.ModificationPolicy
	calculator services.PriceCalculator
	notifier   ports.NotificationDispatcher
}

// NewRequestModificationCommandHandler creates a handler for modification requests.
func NewRequestModificationCommandHandler(
	uowFactory ModificationUoWFactory,
	notifier ports.NotificationDispatcher,
) RequestModificationCommandHandler {
	return RequestModificationCommandHandler{
		uowFactory: uowFactory,
		policy:     services.NewModificationPolicy(),
		calculator: services.NewPriceCalculator(),
		notifier:   notifier,
	}
}

// Handle processes the modification request.
func (h *RequestModificationCommandHandler) Handle(ctx context.Context, cmd RequestModificationCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	now := time.Now().UTC()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = h.authorize(o, cmd.RequestedBy()); err != nil {
		return err
	}

	decision, err := h.policy.CanModify(o, now)
	if err != nil {
		return err
	}
	if !decision.Allowed {
		return errs.NewStateConflictError("order", decision.Reason)
	}

	var warnings []string
	for _, change := range cmd.Changes() {
		changeWarnings, validateErr := h.policy.ValidateChange(o, change, now)
		if validateErr != nil {
			return validateErr
		}
		warnings = append(warnings, changeWarnings...)
	}

	impact, err := h.calculator.TotalImpact(o, cmd.Changes())
	if err != nil {
		return err
	}

	requiresApproval := h.policy.RequiresApproval(o, cmd.Changes(), impact, now)

	mod, err := modification.NewModification(
		cmd.ModificationID(), cmd.OrderID(), cmd.Changes(),
		cmd.RequestedBy().ID(), impact, strings.Join(warnings, "; "),
		requiresApproval, now,
	)
	if err != nil {
		return err
	}

	if requiresApproval {
		if err = uow.ModificationRepository().Add(ctx, mod); err != nil {
			return err
		}
		if err = uow.Commit(ctx); err != nil {
			return err
		}

		_ = h.notifier.Notify(ctx, o.MerchantID(), ports.EventModificationRequested, map[string]any{
			"order_id":        o.ID().String(),
			"modification_id": mod.ID().String(),
			"price_impact":    impact.String(),
		})
		return nil
	}

	// Auto-approved: apply to the locked order in the same transaction. A
	// request awaiting review still blocks it: its price impact was
	// computed against the order as it stands, and applying another change
	// underneath would invalidate the reviewed snapshot. The partial
	// unique index only backstops pending inserts, so the applied path
	// checks explicitly.
	if _, pendingErr := uow.ModificationRepository().GetPendingByOrder(ctx, o.ID()); pendingErr == nil {
		return errs.NewStateConflictError("order", "a modification is already awaiting review")
	} else if !errors.Is(pendingErr, errs.ErrObjectNotFound) {
		return pendingErr
	}

	adjustments := stockAdjustments(o, cmd.Changes())
	if err = applyChanges(o, cmd.Changes()); err != nil {
		return err
	}
	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}
	if err = uow.ModificationRepository().Add(ctx, mod); err != nil {
		return err
	}
	if err = enqueueStockAdjustments(ctx, uow.QueueRepository(), adjustments); err != nil {
		return err
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	_ = h.notifier.Notify(ctx, o.CustomerID(), ports.EventModificationApplied, map[string]any{
		"order_id":        o.ID().String(),
		"modification_id": mod.ID().String(),
		"new_total":       o.Total().String(),
	})
	return nil
}

// authorize checks the acting party may modify this order. Customers may
// only touch their own orders; support and admins act on any order.
func (h *RequestModificationCommandHandler) authorize(o *order.Order, actor kernel.Actor) error {
	switch actor.Role() {
	case kernel.RoleSupport, kernel.RoleAdmin:
		return nil
	case kernel.RoleCustomer:
		if !actor.ID().IsEqual(o.CustomerID()) {
			return errs.NewAuthorizationError(actor.Role().String(), "modify another customer's order")
		}
		return nil
	default:
		return errs.NewAuthorizationError(actor.Role().String(), "modify order")
	}
}
