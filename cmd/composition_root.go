package cmd

import (
	"log/slog"

	"stateflow/internal/adapters/out/postgres"
	"stateflow/internal/core/application/usecases/commands"
	"stateflow/internal/core/application/usecases/queries"
	"stateflow/internal/core/domain/model/workflow"
	"stateflow/internal/core/domain/services"
	"stateflow/internal/pkg/metrics"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	catalog    *workflow.Catalog
	aggregator *services.Aggregator
	collector  metrics.Collector
	logger     *slog.Logger
}

func NewCompositionRoot(
	_ Config,
	gormDB *gorm.DB,
	catalog *workflow.Catalog,
	collector metrics.Collector,
	logger *slog.Logger,
) CompositionRoot {
	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		catalog:    catalog,
		aggregator: services.NewAggregator(catalog, nil),
		collector:  collector,
		logger:     logger,
	}
}

func (c *CompositionRoot) CreateApplyTransitionCommandHandler() commands.ApplyTransitionCommandHandler {
	var f commands.StateUoWFactory = FuncStateUoWFactory(func() commands.StateUoW {
		return c.uowFactory.Create()
	})
	return commands.NewApplyTransitionCommandHandler(c.catalog, f, c.aggregator, c.collector)
}

func (c *CompositionRoot) CreateInitStateCommandHandler() commands.InitStateCommandHandler {
	var f commands.StateUoWFactory = FuncStateUoWFactory(func() commands.StateUoW {
		return c.uowFactory.Create()
	})
	return commands.NewInitStateCommandHandler(c.catalog, f, c.aggregator, c.collector)
}

func (c *CompositionRoot) CreateRetireEntityStateCommandHandler() commands.RetireEntityStateCommandHandler {
	var f commands.StateUoWFactory = FuncStateUoWFactory(func() commands.StateUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRetireEntityStateCommandHandler(c.catalog, f, c.aggregator, c.collector)
}

func (c *CompositionRoot) CreateImportCatalogCommandHandler() commands.ImportCatalogCommandHandler {
	var f commands.CatalogUoWFactory = FuncCatalogUoWFactory(func() commands.CatalogUoW {
		return c.uowFactory.Create()
	})
	return commands.NewImportCatalogCommandHandler(c.catalog, f)
}

func (c *CompositionRoot) CreateRunAutomaticTransitionsCommandHandler() commands.RunAutomaticTransitionsCommandHandler {
	var f commands.StateUoWFactory = FuncStateUoWFactory(func() commands.StateUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRunAutomaticTransitionsCommandHandler(
		c.catalog, f, c.CreateApplyTransitionCommandHandler(), c.collector, c.logger,
	)
}

func (c *CompositionRoot) CreateGetCurrentStateQueryHandler() queries.GetCurrentStateQueryHandler {
	return queries.NewGetCurrentStateQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetAllowedTransitionsQueryHandler() queries.GetAllowedTransitionsQueryHandler {
	return queries.NewGetAllowedTransitionsQueryHandler(c.catalog)
}

func (c *CompositionRoot) CreateGetHistoryQueryHandler() queries.GetHistoryQueryHandler {
	return queries.NewGetHistoryQueryHandler(c.gormDB)
}

type FuncStateUoWFactory func() commands.StateUoW

func (f FuncStateUoWFactory) Create() commands.StateUoW {
	return f()
}

type FuncCatalogUoWFactory func() commands.CatalogUoW

func (f FuncCatalogUoWFactory) Create() commands.CatalogUoW {
	return f()
}
