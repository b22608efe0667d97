package commands_test

import (
	"context"
	"errors"
	"testing"

	"stateflow/internal/core/application/usecases/commands"
	"stateflow/internal/core/domain/model/workflow"
	"stateflow/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCatalogRepository struct{ mock.Mock }

func (m *MockCatalogRepository) Load(ctx context.Context) (workflow.CatalogConfig, error) {
	args := m.Called(ctx)
	return args.Get(0).(workflow.CatalogConfig), args.Error(1)
}

func (m *MockCatalogRepository) ReplaceAll(ctx context.Context, cfg workflow.CatalogConfig) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

type MockCatalogUoW struct{ mock.Mock }

func (m *MockCatalogUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCatalogUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCatalogUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCatalogUoW) CatalogRepository() ports.CatalogRepository {
	args := m.Called()
	return args.Get(0).(ports.CatalogRepository)
}

type MockCatalogUoWFactory struct{ mock.Mock }

func (m *MockCatalogUoWFactory) Create() commands.CatalogUoW {
	args := m.Called()
	return args.Get(0).(commands.CatalogUoW)
}

// invoiceConfig builds a two-state invoice life cycle used as import
// payload in these tests.
func invoiceConfig(t *testing.T) workflow.CatalogConfig {
	t.Helper()

	open, err := workflow.NewStateDefinition("factura", "ABIERTA", workflow.StateAttributes{Name: "Abierta"})
	require.NoError(t, err)
	paid, err := workflow.NewStateDefinition("factura", "PAGADA", workflow.StateAttributes{Name: "Pagada", IsFinal: true})
	require.NoError(t, err)
	rule, err := workflow.NewTransition("factura", "ABIERTA", "PAGADA", workflow.TransitionAttributes{Active: true})
	require.NoError(t, err)

	return workflow.CatalogConfig{
		States:      []workflow.StateDefinition{open, paid},
		Transitions: []workflow.Transition{rule},
	}
}

func TestImportCatalogCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	live := buildQuotationCatalog(t)
	cmd, err := commands.NewImportCatalogCommand(invoiceConfig(t))
	require.NoError(t, err)

	catalogRepo := new(MockCatalogRepository)
	uow := new(MockCatalogUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("CatalogRepository").Return(catalogRepo)
	catalogRepo.On("ReplaceAll", ctx, mock.AnythingOfType("workflow.CatalogConfig")).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockCatalogUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewImportCatalogCommandHandler(live, factory)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)

	// The live catalog now holds the imported configuration only.
	_, ok := live.State("factura", "ABIERTA")
	assert.True(t, ok)
	_, ok = live.State("proforma", "PENDIENTE")
	assert.False(t, ok)

	persisted := catalogRepo.Calls[0].Arguments[1].(workflow.CatalogConfig)
	assert.Len(t, persisted.States, 2)
	assert.Len(t, persisted.Transitions, 1)
	catalogRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestImportCatalogCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	cmd := commands.ImportCatalogCommand{} // not constructed properly

	factory := new(MockCatalogUoWFactory)
	handler := commands.NewImportCatalogCommandHandler(buildQuotationCatalog(t), factory)
	err := handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, commands.ErrImportCatalogCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}

func TestImportCatalogCommandHandler_Handle_ConfigErrorAbortsBeforePersist(t *testing.T) {
	ctx := t.Context()
	live := buildQuotationCatalog(t)

	cfg := invoiceConfig(t)
	bad, err := workflow.NewTransition("factura", "ABIERTA", "ANULADA", workflow.TransitionAttributes{Active: true})
	require.NoError(t, err)
	cfg.Transitions = append(cfg.Transitions, bad) // ANULADA is not a registered state

	cmd, err := commands.NewImportCatalogCommand(cfg)
	require.NoError(t, err)

	factory := new(MockCatalogUoWFactory)
	handler := commands.NewImportCatalogCommandHandler(live, factory)
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, workflow.ErrUnknownState)
	factory.AssertNotCalled(t, "Create")

	// The live catalog is untouched.
	_, ok := live.State("proforma", "PENDIENTE")
	assert.True(t, ok)
}

func TestImportCatalogCommandHandler_Handle_ReplaceAllError(t *testing.T) {
	ctx := t.Context()
	live := buildQuotationCatalog(t)
	cmd, err := commands.NewImportCatalogCommand(invoiceConfig(t))
	require.NoError(t, err)

	catalogRepo := new(MockCatalogRepository)
	uow := new(MockCatalogUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("CatalogRepository").Return(catalogRepo)
	catalogRepo.On("ReplaceAll", ctx, mock.AnythingOfType("workflow.CatalogConfig")).
		Return(errors.New("database error")).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockCatalogUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewImportCatalogCommandHandler(live, factory)
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.EqualError(t, err, "database error")
	uow.AssertNotCalled(t, "Commit", ctx)

	_, ok := live.State("proforma", "PENDIENTE")
	assert.True(t, ok)
}

func TestImportCatalogCommandHandler_Handle_CommitErrorLeavesLiveCatalog(t *testing.T) {
	ctx := t.Context()
	live := buildQuotationCatalog(t)
	cmd, err := commands.NewImportCatalogCommand(invoiceConfig(t))
	require.NoError(t, err)

	catalogRepo := new(MockCatalogRepository)
	uow := new(MockCatalogUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("CatalogRepository").Return(catalogRepo)
	catalogRepo.On("ReplaceAll", ctx, mock.AnythingOfType("workflow.CatalogConfig")).Return(nil).Once()
	uow.On("Commit", ctx).Return(errors.New("commit error")).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockCatalogUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewImportCatalogCommandHandler(live, factory)
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.EqualError(t, err, "commit error")

	_, ok := live.State("proforma", "PENDIENTE")
	assert.True(t, ok)
}
