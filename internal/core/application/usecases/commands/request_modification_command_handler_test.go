package commands_test

import (
	"testing"

	"orderpolicy/internal/core/application/usecases/commands"
	"orderpolicy/internal/core/domain/model/kernel"
	"orderpolicy/internal/core/domain/model/modification"
	"orderpolicy/internal/core/ports"
	"orderpolicy/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRequestModificationCommandHandler_PendingOrder_AppliesImmediately(t *testing.T) {
	ctx := t.Context()
	o := newTestOrder(t)
	cmd, err := commands.NewRequestModificationCommand(
		kernel.NewUUID(), o.ID(), customerOf(t, o),
		[]modification.Change{modification.UpdateInstructions{Instructions: "no onions"}},
	)
	require.NoError(t, err)

	orderRepo := &MockOrderRepository{}
	modRepo := &MockModificationRepository{}
	queueRepo := &MockQueueRepository{}
	notifier := &MockNotificationDispatcher{}
	uow := &MockUoW{}
	factory := &MockModificationUoWFactory{}

	var saved *modification.Modification
	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once(),
		uow.On("ModificationRepository").Return(modRepo).Once(),
		modRepo.On("GetPendingByOrder", ctx, o.ID()).
			Return(nil, errs.NewObjectNotFoundError("orderID", o.ID())).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Update", ctx, o).Return(nil).Once(),
		uow.On("ModificationRepository").Return(modRepo).Once(),
		modRepo.On("Add", ctx, mock.AnythingOfType("*modification.Modification")).
			Run(func(args mock.Arguments) {
				saved = args.Get(1).(*modification.Modification)
			}).Return(nil).Once(),
		uow.On("QueueRepository").Return(queueRepo).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		notifier.On("Notify", ctx, o.CustomerID(), ports.EventModificationApplied, mock.Anything).
			Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	handler := commands.NewRequestModificationCommandHandler(factory, notifier)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	require.Equal(t, "no onions", o.Instructions())
	require.Equal(t, modification.StatusApplied, saved.Status())
	factory.AssertExpectations(t)
	uow.AssertExpectations(t)
	orderRepo.AssertExpectations(t)
	modRepo.AssertExpectations(t)
	queueRepo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestRequestModificationCommandHandler_PendingReview_BlocksImmediateApply(t *testing.T) {
	ctx := t.Context()
	o := newTestOrder(t)
	waiting := newPendingModification(t, o, []modification.Change{
		modification.UpdateInstructions{Instructions: "ring the bell"},
	})
	cmd, err := commands.NewRequestModificationCommand(
		kernel.NewUUID(), o.ID(), customerOf(t, o),
		[]modification.Change{modification.UpdateInstructions{Instructions: "no onions"}},
	)
	require.NoError(t, err)

	orderRepo := &MockOrderRepository{}
	modRepo := &MockModificationRepository{}
	uow := &MockUoW{}
	factory := &MockModificationUoWFactory{}

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once(),
		uow.On("ModificationRepository").Return(modRepo).Once(),
		modRepo.On("GetPendingByOrder", ctx, o.ID()).Return(waiting, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	handler := commands.NewRequestModificationCommandHandler(factory, &MockNotificationDispatcher{})
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrStateConflict)
	require.Empty(t, o.Instructions(), "order must stay untouched while a review is open")
	modRepo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	uow.AssertExpectations(t)
	orderRepo.AssertExpectations(t)
	modRepo.AssertExpectations(t)
}

func TestRequestModificationCommandHandler_LargeImpact_WaitsForApproval(t *testing.T) {
	ctx := t.Context()
	o := newConfirmedOrder(t)
	// 24.00 against a 30.00 total is well past the auto-approval threshold.
	cmd, err := commands.NewRequestModificationCommand(
		kernel.NewUUID(), o.ID(), customerOf(t, o),
		[]modification.Change{modification.AddItem{
			ItemID:    kernel.NewUUID(),
			Name:      "Quattro Stagioni",
			UnitPrice: kernel.MoneyFromFloat(12),
			Quantity:  2,
		}},
	)
	require.NoError(t, err)

	orderRepo := &MockOrderRepository{}
	modRepo := &MockModificationRepository{}
	notifier := &MockNotificationDispatcher{}
	uow := &MockUoW{}
	factory := &MockModificationUoWFactory{}

	var saved *modification.Modification
	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once(),
		uow.On("ModificationRepository").Return(modRepo).Once(),
		modRepo.On("Add", ctx, mock.AnythingOfType("*modification.Modification")).
			Run(func(args mock.Arguments) {
				saved = args.Get(1).(*modification.Modification)
			}).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		notifier.On("Notify", ctx, o.MerchantID(), ports.EventModificationRequested, mock.Anything).
			Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	handler := commands.NewRequestModificationCommandHandler(factory, notifier)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	require.Equal(t, modification.StatusPending, saved.Status())
	require.True(t, saved.PriceImpact().IsEqual(kernel.MoneyFromFloat(24)))
	require.Len(t, o.Items(), 1, "order must stay untouched until the merchant approves")
	uow.AssertExpectations(t)
	orderRepo.AssertExpectations(t)
	modRepo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestRequestModificationCommandHandler_DeliveredOrder_StateConflict(t *testing.T) {
	ctx := t.Context()
	o := newDeliveredOrder(t)
	cmd, err := commands.NewRequestModificationCommand(
		kernel.NewUUID(), o.ID(), customerOf(t, o),
		[]modification.Change{modification.UpdateInstructions{Instructions: "no onions"}},
	)
	require.NoError(t, err)

	orderRepo := &MockOrderRepository{}
	uow := &MockUoW{}
	factory := &MockModificationUoWFactory{}

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	handler := commands.NewRequestModificationCommandHandler(factory, &MockNotificationDispatcher{})
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrStateConflict)
	uow.AssertExpectations(t)
	orderRepo.AssertExpectations(t)
}

func TestRequestModificationCommandHandler_ForeignCustomer_AuthorizationError(t *testing.T) {
	ctx := t.Context()
	o := newTestOrder(t)
	stranger := testActor(t, kernel.NewUUID(), kernel.RoleCustomer)
	cmd, err := commands.NewRequestModificationCommand(
		kernel.NewUUID(), o.ID(), stranger,
		[]modification.Change{modification.UpdateInstructions{Instructions: "no onions"}},
	)
	require.NoError(t, err)

	orderRepo := &MockOrderRepository{}
	uow := &MockUoW{}
	factory := &MockModificationUoWFactory{}

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	handler := commands.NewRequestModificationCommandHandler(factory, &MockNotificationDispatcher{})
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrAuthorization)
	uow.AssertExpectations(t)
}

func TestRequestModificationCommandHandler_NotConstructedCommand_ReturnsError(t *testing.T) {
	handler := commands.NewRequestModificationCommandHandler(
		&MockModificationUoWFactory{}, &MockNotificationDispatcher{})

	err := handler.Handle(t.Context(), commands.RequestModificationCommand{})

	require.Error(t, err)
	require.ErrorIs(t, err, commands.ErrRequestModificationCommandIsNotConstructed)
}
