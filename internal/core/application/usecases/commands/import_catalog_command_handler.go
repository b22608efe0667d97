package commands

import (
	"context"

	"stateflow/internal/core/domain/model/workflow"
)

// ImportCatalogCommandHandler validates and persists a whole engine
// configuration, then swaps it into the live catalog. Configuration
// errors abort before anything is written: a partially-defined rule set
// is never persisted and never becomes visible to the executor.
type ImportCatalogCommandHandler struct {
	live       *workflow.Catalog
	uowFactory CatalogUoWFactory
}

// NewImportCatalogCommandHandler creates a handler for configuration
// imports targeting the given live catalog.
func NewImportCatalogCommandHandler(
	live *workflow.Catalog,
	uowFactory CatalogUoWFactory,
) ImportCatalogCommandHandler {
	return ImportCatalogCommandHandler{
		live:       live,
		uowFactory: uowFactory,
	}
}

// Handle builds a catalog from the supplied configuration (surfacing
// the first configuration error), stores it atomically, and only then
// replaces the live catalog contents.
func (h ImportCatalogCommandHandler) Handle(ctx context.Context, cmd ImportCatalogCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	built, err := workflow.BuildCatalog(cmd.Config())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	// Snapshot rather than the raw input: the catalog has assigned
	// mapping IDs by now and they must survive restarts for the
	// aggregation tie-break to stay stable.
	if err = uow.CatalogRepository().ReplaceAll(ctx, built.Snapshot()); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.live.Swap(built)
	return nil
}
