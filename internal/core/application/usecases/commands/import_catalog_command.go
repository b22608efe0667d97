package commands

import (
	"errors"

	"stateflow/internal/core/domain/model/workflow"
	"stateflow/internal/pkg/errs"
	"stateflow/internal/pkg/guard"
)

var (
	ErrImportCatalogCommandIsNotConstructed = errors.New(
		"ImportCatalogCommand must be created via NewImportCatalogCommand constructor",
	)
)

// ImportCatalogCommand represents a bulk registration of the engine
// configuration: every state definition, transition rule and state
// mapping for all categories, as supplied by the seeding collaborator
// at deployment or environment bootstrap.
type ImportCatalogCommand struct {
	config workflow.CatalogConfig

	guard guard.ConstructorGuard
}

// NewImportCatalogCommand creates a command carrying the configuration
// to import. The configuration must name at least one state; deep
// validation happens in the handler before anything is persisted.
func NewImportCatalogCommand(config workflow.CatalogConfig) (ImportCatalogCommand, error) {
	if len(config.States) == 0 {
		return ImportCatalogCommand{}, errs.NewValueIsRequiredError("catalog states")
	}

	return ImportCatalogCommand{
		config: config,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ImportCatalogCommand) Validate() error {
	return c.guard.Validate(ErrImportCatalogCommandIsNotConstructed)
}

// Config returns the configuration to import.
func (c ImportCatalogCommand) Config() workflow.CatalogConfig {
	return c.config
}
