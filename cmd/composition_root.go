package cmd

import (
	"log/slog"

	httpin "orderpolicy/internal/adapters/in/http"
	"orderpolicy/internal/adapters/out/inventory"
	"orderpolicy/internal/adapters/out/notification"
	"orderpolicy/internal/adapters/out/payment"
	"orderpolicy/internal/adapters/out/postgres"
	"orderpolicy/internal/core/application/usecases/commands"
	"orderpolicy/internal/core/application/usecases/queries"
	"orderpolicy/internal/core/ports"
	"orderpolicy/internal/jobs"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	notifier   ports.NotificationDispatcher
	rail       ports.PaymentRail
	inventory  ports.InventoryService
	logger     *slog.Logger
}

func NewCompositionRoot(_ Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		notifier:   notification.NewSlogDispatcher(logger),
		rail:       payment.NewInProcessRail(logger),
		inventory:  inventory.NewInMemoryService(logger),
		logger:     logger,
	}
}

func (c *CompositionRoot) CreateRequestModificationCommandHandler() commands.RequestModificationCommandHandler {
	var f commands.ModificationUoWFactory = FuncModificationUoWFactory(func() commands.ModificationUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRequestModificationCommandHandler(f, c.notifier)
}

func (c *CompositionRoot) CreateApproveModificationCommandHandler() commands.ApproveModificationCommandHandler {
	var f commands.ModificationUoWFactory = FuncModificationUoWFactory(func() commands.ModificationUoW {
		return c.uowFactory.Create()
	})
	return commands.NewApproveModificationCommandHandler(f, c.notifier)
}

func (c *CompositionRoot) CreateRejectModificationCommandHandler() commands.RejectModificationCommandHandler {
	var f commands.ModificationUoWFactory = FuncModificationUoWFactory(func() commands.ModificationUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRejectModificationCommandHandler(f, c.notifier)
}

func (c *CompositionRoot) CreateApplyModificationCommandHandler() commands.ApplyModificationCommandHandler {
	var f commands.ModificationUoWFactory = FuncModificationUoWFactory(func() commands.ModificationUoW {
		return c.uowFactory.Create()
	})
	return commands.NewApplyModificationCommandHandler(f, c.notifier)
}

func (c *CompositionRoot) CreateEscalateStalledModificationsCommandHandler() commands.EscalateStalledModificationsCommandHandler {
	var f commands.ModificationUoWFactory = FuncModificationUoWFactory(func() commands.ModificationUoW {
		return c.uowFactory.Create()
	})
	return commands.NewEscalateStalledModificationsCommandHandler(f, c.notifier)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	var f commands.CancellationUoWFactory = FuncCancellationUoWFactory(func() commands.CancellationUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCancelOrderCommandHandler(f, c.notifier)
}

func (c *CompositionRoot) CreateRequestRefundCommandHandler() commands.RequestRefundCommandHandler {
	var f commands.RefundUoWFactory = FuncRefundUoWFactory(func() commands.RefundUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRequestRefundCommandHandler(f)
}

func (c *CompositionRoot) CreateExecuteRefundCommandHandler() commands.ExecuteRefundCommandHandler {
	var f commands.RefundUoWFactory = FuncRefundUoWFactory(func() commands.RefundUoW {
		return c.uowFactory.Create()
	})
	return commands.NewExecuteRefundCommandHandler(f, c.rail, c.notifier)
}

func (c *CompositionRoot) CreateGetModificationOptionsQueryHandler() queries.GetModificationOptionsQueryHandler {
	uow := c.uowFactory.Create()
	return queries.NewGetModificationOptionsQueryHandler(
		uow.OrderRepository(), uow.ModificationRepository())
}

func (c *CompositionRoot) CreateGetCancellationPolicyQueryHandler() queries.GetCancellationPolicyQueryHandler {
	return queries.NewGetCancellationPolicyQueryHandler(c.uowFactory.Create().OrderRepository())
}

func (c *CompositionRoot) CreateGetOrderRefundsQueryHandler() queries.GetOrderRefundsQueryHandler {
	return queries.NewGetOrderRefundsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	queue := c.uowFactory.Create().QueueRepository()
	return jobs.NewJobManager(
		queue,
		c.CreateApplyModificationCommandHandler(),
		c.CreateExecuteRefundCommandHandler(),
		c.CreateEscalateStalledModificationsCommandHandler(),
		c.inventory,
		c.logger,
	)
}

func (c *CompositionRoot) CreateServer() *httpin.Server {
	return httpin.NewServer(
		c.CreateRequestModificationCommandHandler(),
		c.CreateApproveModificationCommandHandler(),
		c.CreateRejectModificationCommandHandler(),
		c.CreateCancelOrderCommandHandler(),
		c.CreateRequestRefundCommandHandler(),
		c.CreateGetModificationOptionsQueryHandler(),
		c.CreateGetCancellationPolicyQueryHandler(),
		c.CreateGetOrderRefundsQueryHandler(),
	)
}

type FuncModificationUoWFactory func() commands.ModificationUoW

func (f FuncModificationUoWFactory) Create() commands.ModificationUoW {
	return f()
}

type FuncCancellationUoWFactory func() commands.CancellationUoW

func (f FuncCancellationUoWFactory) Create() commands.CancellationUoW {
	return f()
}

type FuncRefundUoWFactory func() commands.RefundUoW

func (f FuncRefundUoWFactory) Create() commands.RefundUoW {
	return f()
}
