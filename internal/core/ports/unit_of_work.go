package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each
// request/command. This ensures proper isolation between concurrent
// operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary. It provides
// transaction control and repositories bound to the transaction, so a
// state change, its history row and any aggregation-driven composite
// move commit or roll back together.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	// EntityStateRepository returns an EntityStateRepository bound to
	// the current transaction.
	EntityStateRepository() EntityStateRepository

	// HistoryRepository returns a HistoryRepository bound to the
	// current transaction.
	HistoryRepository() HistoryRepository

	// CatalogRepository returns a CatalogRepository bound to the
	// current transaction.
	CatalogRepository() CatalogRepository
}
