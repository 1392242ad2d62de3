package cancellationrepo_test

import (
	"context"
	"testing"
	"time"

	"orderpolicy/internal/adapters/out/postgres/cancellationrepo"
	"orderpolicy/internal/core/domain/model/cancellation"
	"orderpolicy/internal/core/domain/model/kernel"
	"orderpolicy/internal/core/domain/model/order"
	"orderpolicy/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate interface{}) {
	m.Called(id, aggregate)
}

// CancellationRepositoryIntegrationTestSuite provides integration tests for
// the cancellation and driver compensation repositories using PostgreSQL
// containers.
type CancellationRepositoryIntegrationTestSuite struct {
	suite.Suite
	container     *postgres.PostgresContainer
	db            *gorm.DB
	cancellations *cancellationrepo.GormCancellationRepository
	compensations *cancellationrepo.GormCompensationRepository
	tracker       *MockAggregateTracker
}

func (suite *CancellationRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	// TranslateError is required so the one-cancellation-per-order index
	// violation surfaces as gorm.ErrDuplicatedKey, matching production.
	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(
		&cancellationrepo.CancellationDTO{},
		&cancellationrepo.CompensationDTO{},
	))
}

func (suite *CancellationRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE cancellations, driver_compensations").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.cancellations = cancellationrepo.NewGormCancellationRepository(suite.db, suite.tracker)
	suite.compensations = cancellationrepo.NewGormCompensationRepository(suite.db, suite.tracker)
}

func (suite *CancellationRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *CancellationRepositoryIntegrationTestSuite) TestAdd_ThenGet_RoundTrip() {
	ctx := context.Background()

	record := suite.createTestCancellation(kernel.NewUUID())
	suite.tracker.On("TrackAggregate", record.ID(), record).Once()

	suite.Require().NoError(suite.cancellations.Add(ctx, record))

	restored, err := suite.cancellations.Get(ctx, record.ID())
	suite.Require().NoError(err)

	suite.Equal(record.ID(), restored.ID())
	suite.Equal(record.OrderID(), restored.OrderID())
	suite.Equal(record.InitiatedBy(), restored.InitiatedBy())
	suite.Equal(kernel.RoleCustomer, restored.InitiatorRole())
	suite.Equal(order.StatusConfirmed, restored.OrderStatusAtCancellation())
	suite.Equal(80, restored.RefundPercentage())
	suite.True(kernel.MoneyFromFloat(5).IsEqual(restored.PenaltyAmount()))
}

func (suite *CancellationRepositoryIntegrationTestSuite) TestAdd_SecondForSameOrder_StateConflict() {
	ctx := context.Background()
	orderID := kernel.NewUUID()

	first := suite.createTestCancellation(orderID)
	suite.tracker.On("TrackAggregate", first.ID(), first).Once()
	suite.Require().NoError(suite.cancellations.Add(ctx, first))

	second := suite.createTestCancellation(orderID)

	err := suite.cancellations.Add(ctx, second)
	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrStateConflict)
}

func (suite *CancellationRepositoryIntegrationTestSuite) TestGetByOrder_ReturnsRecord() {
	ctx := context.Background()
	orderID := kernel.NewUUID()

	record := suite.createTestCancellation(orderID)
	suite.tracker.On("TrackAggregate", record.ID(), record).Once()
	suite.Require().NoError(suite.cancellations.Add(ctx, record))

	restored, err := suite.cancellations.GetByOrder(ctx, orderID)
	suite.Require().NoError(err)
	suite.Equal(record.ID(), restored.ID())
}

func (suite *CancellationRepositoryIntegrationTestSuite) TestGetByOrder_None_ReturnsNotFound() {
	ctx := context.Background()

	_, err := suite.cancellations.GetByOrder(ctx, kernel.NewUUID())
	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *CancellationRepositoryIntegrationTestSuite) TestCompensation_AddThenMarkPaid_RoundTrip() {
	ctx := context.Background()

	comp := suite.createTestCompensation(kernel.NewUUID())
	suite.tracker.On("TrackAggregate", comp.ID(), comp)

	suite.Require().NoError(suite.compensations.Add(ctx, comp))

	suite.Require().NoError(comp.MarkPaid())
	suite.Require().NoError(suite.compensations.Update(ctx, comp))

	restored, err := suite.compensations.Get(ctx, comp.ID())
	suite.Require().NoError(err)

	suite.Equal(cancellation.CompensationPaid, restored.Status())
	suite.True(kernel.MoneyFromFloat(3.75).IsEqual(restored.Amount()))
	suite.Equal(comp.Reason(), restored.Reason())
}

func (suite *CancellationRepositoryIntegrationTestSuite) TestCompensation_GetByDriver_FiltersByDriver() {
	ctx := context.Background()
	driverID := kernel.NewUUID()

	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)
	suite.Require().NoError(suite.compensations.Add(ctx, suite.createTestCompensation(driverID)))
	suite.Require().NoError(suite.compensations.Add(ctx, suite.createTestCompensation(driverID)))
	suite.Require().NoError(suite.compensations.Add(ctx, suite.createTestCompensation(kernel.NewUUID())))

	records, err := suite.compensations.GetByDriver(ctx, driverID)
	suite.Require().NoError(err)
	suite.Len(records, 2)
	for _, r := range records {
		suite.Equal(driverID, r.DriverID())
	}
}

// createTestCancellation creates a customer-initiated cancellation in the
// reduced-refund band with a delivery fee penalty.
func (suite *CancellationRepositoryIntegrationTestSuite) createTestCancellation(
	orderID kernel.UUID,
) *cancellation.Cancellation {
	actor, err := kernel.NewActor(kernel.NewUUID(), kernel.RoleCustomer)
	suite.Require().NoError(err)

	record, err := cancellation.NewCancellation(
		kernel.NewUUID(), orderID, actor, "changed my mind",
		order.StatusConfirmed, 80, kernel.MoneyFromFloat(5),
		time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
	)
	suite.Require().NoError(err)
	return record
}

// createTestCompensation creates a pending driver compensation record.
func (suite *CancellationRepositoryIntegrationTestSuite) createTestCompensation(
	driverID kernel.UUID,
) *cancellation.DriverCompensation {
	comp, err := cancellation.NewDriverCompensation(
		kernel.NewUUID(), driverID, kernel.NewUUID(), kernel.NewUUID(),
		kernel.MoneyFromFloat(3.75), "order cancelled while delivery was assigned",
		time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
	)
	suite.Require().NoError(err)
	return comp
}

func TestCancellationRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(CancellationRepositoryIntegrationTestSuite))
}
