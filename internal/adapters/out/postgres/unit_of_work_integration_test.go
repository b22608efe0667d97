package postgres_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "stateflow/internal/adapters/out/postgres"
	"stateflow/internal/adapters/out/postgres/catalogrepo"
	"stateflow/internal/adapters/out/postgres/entitystaterepo"
	"stateflow/internal/adapters/out/postgres/historyrepo"
	"stateflow/internal/core/domain/model/entitystate"
	"stateflow/internal/core/domain/model/history"
	"stateflow/internal/core/domain/model/kernel"
	"stateflow/internal/core/domain/model/workflow"
	"stateflow/internal/core/ports"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite provides comprehensive integration testing
// for the GORM-based Unit of Work implementation with real PostgreSQL database.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

// SetupSuite initializes PostgreSQL container and database connection for all tests.
// Runs database migrations to prepare schema for unit of work operations.
func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	// Start PostgreSQL container
	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	suite.Require().NoError(err)
	suite.container = container

	// Connect to database
	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	// Run migrations
	err = db.AutoMigrate(
		&entitystaterepo.EntityStateDTO{},
		&historyrepo.HistoryRecordDTO{},
		&catalogrepo.StateDTO{},
		&catalogrepo.TransitionDTO{},
		&catalogrepo.StateMappingDTO{},
	)
	suite.Require().NoError(err)

	// Create factory
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

// SetupTest ensures clean database state before each test.
// Truncates all tables to prevent test interference.
func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec(
		"TRUNCATE TABLE entity_states, state_history, workflow_states, workflow_transitions, workflow_state_mappings RESTART IDENTITY",
	).Error
	suite.Require().NoError(err)
}

// TearDownSuite cleans up PostgreSQL container after all tests complete.
func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

// TestUnitOfWorkFactory_Create verifies factory creates unit of work instances
// with proper initialization and isolation between instances.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWorkFactory_Create() {
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	suite.NotSame(uow1, uow2, "Factory should create separate instances")

	suite.NotNil(uow1.EntityStateRepository(), "First instance should provide entity state repository")
	suite.NotNil(uow1.HistoryRepository(), "First instance should provide history repository")
	suite.NotNil(uow1.CatalogRepository(), "First instance should provide catalog repository")
	suite.NotNil(uow2.EntityStateRepository(), "Second instance should provide entity state repository")
}

// TestUnitOfWork_TransactionLifecycle verifies proper transaction management
// including begin, commit, and rollback operations.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	err := uow.Begin(ctx)
	suite.Require().NoError(err, "Should begin transaction successfully")

	err = uow.Begin(ctx)
	suite.Require().NoError(err, "Multiple begin calls should be safe")

	err = uow.Commit(ctx)
	suite.Require().NoError(err, "Should commit transaction successfully")

	err = uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.Rollback(ctx)
	suite.Require().NoError(err, "Should rollback transaction successfully")
}

// TestUnitOfWork_TransactionErrors verifies error handling for invalid transaction operations.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionErrors() {
	ctx := context.Background()
	uow := suite.factory.Create()

	err := uow.Commit(ctx)
	suite.Require().Error(err, "Should error when committing without active transaction")

	err = uow.Rollback(ctx)
	suite.Require().Error(err, "Should error when rolling back without active transaction")
}

// TestUnitOfWork_TransitionAtomicity verifies that a state change and its
// corresponding ledger row commit together within one transaction.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransitionAtomicity() {
	ctx := context.Background()
	uow := suite.factory.Create()

	state := createTestEntityState(suite.T())

	err := uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.EntityStateRepository().Add(ctx, state)
	suite.Require().NoError(err)

	record := createInitRecord(suite.T(), state)
	stored, err := uow.HistoryRepository().Append(ctx, record)
	suite.Require().NoError(err)
	suite.Positive(stored.Sequence(), "Append should assign a sequence")

	err = uow.Commit(ctx)
	suite.Require().NoError(err)

	// Verify both rows persisted using a new unit of work
	newUow := suite.factory.Create()
	retrieved, err := newUow.EntityStateRepository().Get(ctx, state.Ref(), state.Category())
	suite.Require().NoError(err)
	suite.Equal(state.State(), retrieved.State())
	suite.EqualValues(1, retrieved.Version())

	rows := suite.ledgerRows(state)
	suite.Require().Len(rows, 1)
	suite.Nil(rows[0].PreviousState, "Initialization row carries no previous state")
}

// TestUnitOfWork_TransactionRollback verifies rollback discards all changes
// made within the transaction across multiple repositories.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionRollback() {
	ctx := context.Background()
	uow := suite.factory.Create()

	state := createTestEntityState(suite.T())

	err := uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.EntityStateRepository().Add(ctx, state)
	suite.Require().NoError(err)

	_, err = uow.HistoryRepository().Append(ctx, createInitRecord(suite.T(), state))
	suite.Require().NoError(err)

	// Verify rows exist within transaction
	_, err = uow.EntityStateRepository().Get(ctx, state.Ref(), state.Category())
	suite.Require().NoError(err)

	err = uow.Rollback(ctx)
	suite.Require().NoError(err)

	// Verify nothing persisted using a new unit of work
	newUow := suite.factory.Create()
	_, err = newUow.EntityStateRepository().Get(ctx, state.Ref(), state.Category())
	suite.Require().Error(err, "Entity state should not exist after rollback")

	suite.Empty(suite.ledgerRows(state), "Ledger should be empty after rollback")
}

// TestUnitOfWork_OptimisticConcurrency verifies the version check on updates:
// a write based on a stale read must fail with ErrConcurrentModification.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_OptimisticConcurrency() {
	ctx := context.Background()
	uow := suite.factory.Create()

	state := createTestEntityState(suite.T())
	err := uow.EntityStateRepository().Add(ctx, state)
	suite.Require().NoError(err)

	// First write from the version-1 read succeeds and bumps the version
	err = state.ChangeState(workflow.StateCode("confirmed"), time.Now().UTC())
	suite.Require().NoError(err)
	err = uow.EntityStateRepository().Update(ctx, state)
	suite.Require().NoError(err)

	// Second write from the same stale aggregate must lose
	err = state.ChangeState(workflow.StateCode("shipped"), time.Now().UTC())
	suite.Require().NoError(err)
	err = uow.EntityStateRepository().Update(ctx, state)
	suite.Require().ErrorIs(err, workflow.ErrConcurrentModification)

	// Stored row reflects only the first write
	retrieved, err := uow.EntityStateRepository().Get(ctx, state.Ref(), state.Category())
	suite.Require().NoError(err)
	suite.Equal(workflow.StateCode("confirmed"), retrieved.State())
	suite.EqualValues(2, retrieved.Version())
}

// TestUnitOfWork_ListActiveByOwner verifies composite lookups only return
// active sub-entity rows linked to the owner.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_ListActiveByOwner() {
	ctx := context.Background()
	uow := suite.factory.Create()

	ownerRef, err := entitystate.NewRef("sale", kernel.NewUUID())
	suite.Require().NoError(err)
	owner, err := entitystate.NewOwner(ownerRef, workflow.Category("sales"))
	suite.Require().NoError(err)

	linked := createTestSubEntityState(suite.T(), &owner)
	retired := createTestSubEntityState(suite.T(), &owner)
	retired.Deactivate()
	unlinked := createTestSubEntityState(suite.T(), nil)

	suite.Require().NoError(uow.EntityStateRepository().Add(ctx, linked))
	suite.Require().NoError(uow.EntityStateRepository().Add(ctx, retired))
	suite.Require().NoError(uow.EntityStateRepository().Add(ctx, unlinked))

	states, err := uow.EntityStateRepository().ListActiveByOwner(ctx, ownerRef)
	suite.Require().NoError(err)
	suite.Len(states, 1)
	suite.True(states[0].Ref().IsEqual(linked.Ref()))
}

// TestUnitOfWork_ListInStateBefore verifies the sweep query only returns
// rows sitting in the state since before the cutoff.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_ListInStateBefore() {
	ctx := context.Background()
	uow := suite.factory.Create()

	stale := createTestEntityStateAt(suite.T(), time.Now().UTC().Add(-2*time.Hour))
	fresh := createTestEntityStateAt(suite.T(), time.Now().UTC())

	suite.Require().NoError(uow.EntityStateRepository().Add(ctx, stale))
	suite.Require().NoError(uow.EntityStateRepository().Add(ctx, fresh))

	cutoff := time.Now().UTC().Add(-time.Hour)
	states, err := uow.EntityStateRepository().ListInStateBefore(
		ctx, workflow.Category("sales"), workflow.StateCode("draft"), cutoff,
	)
	suite.Require().NoError(err)
	suite.Len(states, 1)
	suite.True(states[0].Ref().IsEqual(stale.Ref()))
}

// TestUnitOfWork_CatalogRoundTrip verifies ReplaceAll followed by Load
// returns the identical configuration, mapping IDs included.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_CatalogRoundTrip() {
	ctx := context.Background()
	uow := suite.factory.Create()

	cfg := createTestCatalogConfig(suite.T())

	err := uow.Begin(ctx)
	suite.Require().NoError(err)
	err = uow.CatalogRepository().ReplaceAll(ctx, cfg)
	suite.Require().NoError(err)
	err = uow.Commit(ctx)
	suite.Require().NoError(err)

	loaded, err := suite.factory.Create().CatalogRepository().Load(ctx)
	suite.Require().NoError(err)

	suite.Len(loaded.States, len(cfg.States))
	suite.Len(loaded.Transitions, len(cfg.Transitions))
	suite.Require().Len(loaded.Mappings, len(cfg.Mappings))
	suite.Equal(cfg.Mappings[0].ID(), loaded.Mappings[0].ID(),
		"Mapping IDs must survive the round trip")

	// A second import fully replaces the first
	err = uow.Begin(ctx)
	suite.Require().NoError(err)
	err = uow.CatalogRepository().ReplaceAll(ctx, workflow.CatalogConfig{States: cfg.States[:1]})
	suite.Require().NoError(err)
	err = uow.Commit(ctx)
	suite.Require().NoError(err)

	loaded, err = suite.factory.Create().CatalogRepository().Load(ctx)
	suite.Require().NoError(err)
	suite.Len(loaded.States, 1)
	suite.Empty(loaded.Transitions)
	suite.Empty(loaded.Mappings)
}

// TestUnitOfWork_WithoutTransaction verifies that repositories work correctly
// without explicit transaction boundaries for immediate operations.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_WithoutTransaction() {
	ctx := context.Background()
	uow := suite.factory.Create()

	state := createTestEntityState(suite.T())

	err := uow.EntityStateRepository().Add(ctx, state)
	suite.Require().NoError(err)

	retrieved, err := suite.factory.Create().EntityStateRepository().Get(ctx, state.Ref(), state.Category())
	suite.Require().NoError(err)
	suite.Equal(state.State(), retrieved.State())
}

// ledgerRows reads an entity's raw ledger rows outside any unit of work.
func (suite *UnitOfWorkIntegrationTestSuite) ledgerRows(state *entitystate.EntityState) []historyrepo.HistoryRecordDTO {
	var rows []historyrepo.HistoryRecordDTO
	err := suite.db.
		Where("entity_type = ? AND entity_id = ?", state.Ref().EntityType(), state.Ref().ID().Bytes()).
		Order("sequence").
		Find(&rows).Error
	suite.Require().NoError(err)
	return rows
}

// createTestEntityState creates a valid sales-document state for testing purposes.
func createTestEntityState(t *testing.T) *entitystate.EntityState {
	return createTestEntityStateAt(t, time.Now().UTC())
}

func createTestEntityStateAt(t *testing.T, enteredAt time.Time) *entitystate.EntityState {
	t.Helper()

	ref, err := entitystate.NewRef("sale", kernel.NewUUID())
	if err != nil {
		t.Fatal(err)
	}
	state, err := entitystate.NewEntityState(
		ref, workflow.Category("sales"), workflow.StateCode("draft"), enteredAt, nil,
	)
	if err != nil {
		t.Fatal(err)
	}
	return state
}

// createTestSubEntityState creates a delivery-run state optionally linked to
// a composite owner.
func createTestSubEntityState(t *testing.T, owner *entitystate.Owner) *entitystate.EntityState {
	t.Helper()

	ref, err := entitystate.NewRef("delivery_run", kernel.NewUUID())
	if err != nil {
		t.Fatal(err)
	}
	state, err := entitystate.NewEntityState(
		ref, workflow.Category("logistics"), workflow.StateCode("planned"), time.Now().UTC(), owner,
	)
	if err != nil {
		t.Fatal(err)
	}
	return state
}

// createInitRecord creates the ledger row written when a state is initialized.
func createInitRecord(t *testing.T, state *entitystate.EntityState) history.Record {
	t.Helper()

	record, err := history.NewRecord(
		state.Ref(), state.Category(), nil, state.State(),
		"integration-test", false, "initialized", state.EnteredAt(),
	)
	if err != nil {
		t.Fatal(err)
	}
	return record
}

// createTestCatalogConfig builds a small two-category configuration.
func createTestCatalogConfig(t *testing.T) workflow.CatalogConfig {
	t.Helper()

	draft, err := workflow.NewStateDefinition("sales", "draft", workflow.StateAttributes{Name: "Draft", Order: 1})
	if err != nil {
		t.Fatal(err)
	}
	confirmed, err := workflow.NewStateDefinition("sales", "confirmed", workflow.StateAttributes{Name: "Confirmed", Order: 2})
	if err != nil {
		t.Fatal(err)
	}
	delivered, err := workflow.NewStateDefinition("logistics", "delivered", workflow.StateAttributes{Name: "Delivered", Order: 1, IsFinal: true})
	if err != nil {
		t.Fatal(err)
	}

	rule, err := workflow.NewTransition("sales", "draft", "confirmed", workflow.TransitionAttributes{
		Permission: "sales.confirm",
		Active:     true,
	})
	if err != nil {
		t.Fatal(err)
	}

	mapping, err := workflow.NewStateMapping(7, "logistics", "delivered", "sales", "confirmed", 4, true)
	if err != nil {
		t.Fatal(err)
	}

	return workflow.CatalogConfig{
		States:      []workflow.StateDefinition{draft, confirmed, delivered},
		Transitions: []workflow.Transition{rule},
		Mappings:    []workflow.StateMapping{mapping},
	}
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
