package ports

import (
	"context"

	"stateflow/internal/core/domain/model/workflow"
)

// CatalogRepository defines the persistence contract for the engine
// configuration: state definitions, transition rules and state
// mappings. Configuration is read-mostly; it is loaded once at startup
// and replaced wholesale by administrative imports.
type CatalogRepository interface {
	// Load retrieves the full stored configuration.
	Load(ctx context.Context) (workflow.CatalogConfig, error)

	// ReplaceAll atomically replaces the stored configuration with the
	// given one. Callers run it inside a unit of work so a failed
	// import never leaves a partially-defined rule set behind.
	ReplaceAll(ctx context.Context, cfg workflow.CatalogConfig) error
}
