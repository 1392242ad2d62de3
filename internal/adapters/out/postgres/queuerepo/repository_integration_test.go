package queuerepo_test

import (
	"context"
	"testing"
	"time"

	"orderpolicy/internal/adapters/out/postgres/queuerepo"
	"orderpolicy/internal/core/domain/model/kernel"
	"orderpolicy/internal/core/ports"
	"orderpolicy/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// QueueRepositoryIntegrationTestSuite provides integration tests for the
// durable job queue using PostgreSQL containers.
type QueueRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *queuerepo.GormQueueRepository
}

func (suite *QueueRepositoryIntegrationTestSuite) SetupSuite() {
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

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&queuerepo.JobDTO{}))
}

func (suite *QueueRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE jobs").Error)

	suite.repository = queuerepo.NewGormQueueRepository(suite.db)
}

func (suite *QueueRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *QueueRepositoryIntegrationTestSuite) TestEnqueue_ThenClaimDue_ReturnsJob() {
	ctx := context.Background()

	err := suite.repository.Enqueue(ctx, ports.JobTypeExecuteRefund, []byte(`{"refund_id":"r1"}`))
	suite.Require().NoError(err)

	jobs, err := suite.repository.ClaimDue(ctx, 10, time.Now())
	suite.Require().NoError(err)
	suite.Require().Len(jobs, 1)

	suite.Equal(ports.JobTypeExecuteRefund, jobs[0].Type)
	suite.JSONEq(`{"refund_id":"r1"}`, string(jobs[0].Payload))
	suite.Equal(1, jobs[0].Attempts)
}

func (suite *QueueRepositoryIntegrationTestSuite) TestEnqueue_EmptyType_ReturnsError() {
	ctx := context.Background()

	err := suite.repository.Enqueue(ctx, "", nil)
	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrValueIsRequired)
}

func (suite *QueueRepositoryIntegrationTestSuite) TestClaimDue_FutureJob_NotClaimed() {
	ctx := context.Background()
	now := time.Now()

	err := suite.repository.EnqueueAt(ctx, ports.JobTypeApplyModification, nil, now.Add(time.Hour))
	suite.Require().NoError(err)

	jobs, err := suite.repository.ClaimDue(ctx, 10, now)
	suite.Require().NoError(err)
	suite.Empty(jobs)

	// Claimable once the due time has passed.
	jobs, err = suite.repository.ClaimDue(ctx, 10, now.Add(2*time.Hour))
	suite.Require().NoError(err)
	suite.Len(jobs, 1)
}

func (suite *QueueRepositoryIntegrationTestSuite) TestClaimDue_ClaimedJob_NotReturnedAgain() {
	ctx := context.Background()

	suite.Require().NoError(suite.repository.Enqueue(ctx, ports.JobTypeExecuteRefund, nil))

	jobs, err := suite.repository.ClaimDue(ctx, 10, time.Now())
	suite.Require().NoError(err)
	suite.Require().Len(jobs, 1)

	again, err := suite.repository.ClaimDue(ctx, 10, time.Now())
	suite.Require().NoError(err)
	suite.Empty(again)
}

func (suite *QueueRepositoryIntegrationTestSuite) TestClaimDue_RespectsLimitAndDueOrder() {
	ctx := context.Background()
	now := time.Now()

	suite.Require().NoError(suite.repository.EnqueueAt(ctx, ports.JobTypeExecuteRefund, []byte(`"third"`), now.Add(-1*time.Minute)))
	suite.Require().NoError(suite.repository.EnqueueAt(ctx, ports.JobTypeExecuteRefund, []byte(`"first"`), now.Add(-3*time.Minute)))
	suite.Require().NoError(suite.repository.EnqueueAt(ctx, ports.JobTypeExecuteRefund, []byte(`"second"`), now.Add(-2*time.Minute)))

	jobs, err := suite.repository.ClaimDue(ctx, 2, now)
	suite.Require().NoError(err)
	suite.Require().Len(jobs, 2)
	suite.Equal(`"first"`, string(jobs[0].Payload))
	suite.Equal(`"second"`, string(jobs[1].Payload))

	rest, err := suite.repository.ClaimDue(ctx, 2, now)
	suite.Require().NoError(err)
	suite.Require().Len(rest, 1)
	suite.Equal(`"third"`, string(rest[0].Payload))
}

func (suite *QueueRepositoryIntegrationTestSuite) TestMarkDone_ResolvesClaimedJob() {
	ctx := context.Background()

	suite.Require().NoError(suite.repository.Enqueue(ctx, ports.JobTypeAdjustInventory, nil))
	jobs, err := suite.repository.ClaimDue(ctx, 1, time.Now())
	suite.Require().NoError(err)
	suite.Require().Len(jobs, 1)

	suite.Require().NoError(suite.repository.MarkDone(ctx, jobs[0].ID))

	// Done jobs are never claimed again.
	again, err := suite.repository.ClaimDue(ctx, 10, time.Now().Add(time.Hour))
	suite.Require().NoError(err)
	suite.Empty(again)
}

func (suite *QueueRepositoryIntegrationTestSuite) TestMarkDone_UnclaimedJob_ReturnsNotFound() {
	ctx := context.Background()

	err := suite.repository.MarkDone(ctx, kernel.NewUUID())
	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *QueueRepositoryIntegrationTestSuite) TestMarkFailed_StoresReason() {
	ctx := context.Background()

	suite.Require().NoError(suite.repository.Enqueue(ctx, ports.JobTypeExecuteRefund, nil))
	jobs, err := suite.repository.ClaimDue(ctx, 1, time.Now())
	suite.Require().NoError(err)
	suite.Require().Len(jobs, 1)

	suite.Require().NoError(suite.repository.MarkFailed(ctx, jobs[0].ID, "payment rail unavailable"))

	var dto queuerepo.JobDTO
	suite.Require().NoError(suite.db.First(&dto, "id = ?", jobs[0].ID.Bytes()).Error)
	suite.Equal("payment rail unavailable", dto.FailureReason)

	// Failed jobs stay failed; they are not re-claimed.
	again, err := suite.repository.ClaimDue(ctx, 10, time.Now().Add(time.Hour))
	suite.Require().NoError(err)
	suite.Empty(again)
}

func (suite *QueueRepositoryIntegrationTestSuite) TestMarkDone_Twice_ReturnsNotFound() {
	ctx := context.Background()

	suite.Require().NoError(suite.repository.Enqueue(ctx, ports.JobTypeExecuteRefund, nil))
	jobs, err := suite.repository.ClaimDue(ctx, 1, time.Now())
	suite.Require().NoError(err)
	suite.Require().Len(jobs, 1)

	suite.Require().NoError(suite.repository.MarkDone(ctx, jobs[0].ID))

	err = suite.repository.MarkDone(ctx, jobs[0].ID)
	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func TestQueueRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(QueueRepositoryIntegrationTestSuite))
}
