package commands_test

import (
	"context"
	"time"

	"orderpolicy/internal/core/application/usecases/commands"
	"orderpolicy/internal/core/domain/model/cancellation"
	"orderpolicy/internal/core/domain/model/kernel"
	"orderpolicy/internal/core/domain/model/modification"
	"orderpolicy/internal/core/domain/model/order"
	"orderpolicy/internal/core/domain/model/refund"
	"orderpolicy/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}
func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}
func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}
func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockModificationRepository struct{ mock.Mock }

func (m *MockModificationRepository) Add(ctx context.Context, mod *modification.Modification) error {
	args := m.Called(ctx, mod)
	return args.Error(0)
}
func (m *MockModificationRepository) Update(ctx context.Context, mod *modification.Modification) error {
	args := m.Called(ctx, mod)
	return args.Error(0)
}
func (m *MockModificationRepository) Get(ctx context.Context, id kernel.UUID) (*modification.Modification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*modification.Modification), args.Error(1)
}
func (m *MockModificationRepository) GetPendingByOrder(ctx context.Context, orderID kernel.UUID) (*modification.Modification, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*modification.Modification), args.Error(1)
}
func (m *MockModificationRepository) ListStalePending(ctx context.Context, before time.Time) ([]*modification.Modification, error) {
	args := m.Called(ctx, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*modification.Modification), args.Error(1)
}

type MockCancellationRepository struct{ mock.Mock }

func (m *MockCancellationRepository) Add(ctx context.Context, record *cancellation.Cancellation) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}
func (m *MockCancellationRepository) Get(ctx context.Context, id kernel.UUID) (*cancellation.Cancellation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cancellation.Cancellation), args.Error(1)
}
func (m *MockCancellationRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) (*cancellation.Cancellation, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cancellation.Cancellation), args.Error(1)
}

type MockCompensationRepository struct{ mock.Mock }

func (m *MockCompensationRepository) Add(ctx context.Context, record *cancellation.DriverCompensation) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}
func (m *MockCompensationRepository) Update(ctx context.Context, record *cancellation.DriverCompensation) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}
func (m *MockCompensationRepository) Get(ctx context.Context, id kernel.UUID) (*cancellation.DriverCompensation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cancellation.DriverCompensation), args.Error(1)
}
func (m *MockCompensationRepository) GetByDriver(ctx context.Context, driverID kernel.UUID) ([]*cancellation.DriverCompensation, error) {
	args := m.Called(ctx, driverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*cancellation.DriverCompensation), args.Error(1)
}

type MockRefundRepository struct{ mock.Mock }

func (m *MockRefundRepository) Add(ctx context.Context, r *refund.Refund) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}
func (m *MockRefundRepository) Update(ctx context.Context, r *refund.Refund) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}
func (m *MockRefundRepository) Get(ctx context.Context, id kernel.UUID) (*refund.Refund, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*refund.Refund), args.Error(1)
}
func (m *MockRefundRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) ([]*refund.Refund, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*refund.Refund), args.Error(1)
}
func (m *MockRefundRepository) SumCompletedByOrder(ctx context.Context, orderID kernel.UUID) (kernel.Money, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(kernel.Money), args.Error(1)
}

type MockQueueRepository struct{ mock.Mock }

func (m *MockQueueRepository) Enqueue(ctx context.Context, jobType string, payload []byte) error {
	args := m.Called(ctx, jobType, payload)
	return args.Error(0)
}
func (m *MockQueueRepository) EnqueueAt(ctx context.Context, jobType string, payload []byte, runAt time.Time) error {
	args := m.Called(ctx, jobType, payload, runAt)
	return args.Error(0)
}
func (m *MockQueueRepository) ClaimDue(ctx context.Context, limit int, now time.Time) ([]ports.Job, error) {
	args := m.Called(ctx, limit, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.Job), args.Error(1)
}
func (m *MockQueueRepository) MarkDone(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockQueueRepository) MarkFailed(ctx context.Context, id kernel.UUID, reason string) error {
	args := m.Called(ctx, id, reason)
	return args.Error(0)
}

type MockNotificationDispatcher struct{ mock.Mock }

func (m *MockNotificationDispatcher) Notify(ctx context.Context, recipientID kernel.UUID, eventType string, payload map[string]any) error {
	args := m.Called(ctx, recipientID, eventType, payload)
	return args.Error(0)
}

type MockPaymentRail struct{ mock.Mock }

func (m *MockPaymentRail) Refund(ctx context.Context, method order.PaymentMethod, amount kernel.Money, idempotencyKey string) (string, error) {
	args := m.Called(ctx, method, amount, idempotencyKey)
	return args.String(0), args.Error(1)
}

// MockUoW implements every narrow unit of work interface the handlers use.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}
func (m *MockUoW) ModificationRepository() ports.ModificationRepository {
	args := m.Called()
	return args.Get(0).(ports.ModificationRepository)
}
func (m *MockUoW) CancellationRepository() ports.CancellationRepository {
	args := m.Called()
	return args.Get(0).(ports.CancellationRepository)
}
func (m *MockUoW) CompensationRepository() ports.CompensationRepository {
	args := m.Called()
	return args.Get(0).(ports.CompensationRepository)
}
func (m *MockUoW) RefundRepository() ports.RefundRepository {
	args := m.Called()
	return args.Get(0).(ports.RefundRepository)
}
func (m *MockUoW) QueueRepository() ports.QueueRepository {
	args := m.Called()
	return args.Get(0).(ports.QueueRepository)
}

type MockModificationUoWFactory struct{ mock.Mock }

func (m *MockModificationUoWFactory) Create() commands.ModificationUoW {
	args := m.Called()
	return args.Get(0).(commands.ModificationUoW)
}

type MockCancellationUoWFactory struct{ mock.Mock }

func (m *MockCancellationUoWFactory) Create() commands.CancellationUoW {
	args := m.Called()
	return args.Get(0).(commands.CancellationUoW)
}

type MockRefundUoWFactory struct{ mock.Mock }

func (m *MockRefundUoWFactory) Create() commands.RefundUoW {
	args := m.Called()
	return args.Get(0).(commands.RefundUoW)
}
