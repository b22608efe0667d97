// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS
// architecture. All commands follow a consistent pattern: validation,
// transaction management, and persistence.
package commands

import (
	"context"

	"stateflow/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command
// handlers. These abstractions ensure data consistency across aggregate
// boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// EntityStateRepoFactory provides access to the entity state
	// repository within a transaction.
	EntityStateRepoFactory interface {
		EntityStateRepository() ports.EntityStateRepository
	}

	// HistoryRepoFactory provides access to the history repository
	// within a transaction.
	HistoryRepoFactory interface {
		HistoryRepository() ports.HistoryRepository
	}

	// CatalogRepoFactory provides access to the catalog repository
	// within a transaction.
	CatalogRepoFactory interface {
		CatalogRepository() ports.CatalogRepository
	}

	// StateUoW manages transactions for operations touching entity
	// states and their history: a state change, its ledger row and any
	// aggregation-driven composite move commit together or not at all.
	StateUoW interface {
		TxManager
		EntityStateRepoFactory
		HistoryRepoFactory
	}

	// StateUoWFactory creates new state unit of work instances.
	StateUoWFactory interface {
		Create() StateUoW
	}

	// CatalogUoW manages transactions for configuration imports.
	CatalogUoW interface {
		TxManager
		CatalogRepoFactory
	}

	// CatalogUoWFactory creates new catalog unit of work instances.
	CatalogUoWFactory interface {
		Create() CatalogUoW
	}
)
