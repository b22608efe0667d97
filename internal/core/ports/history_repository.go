package ports

import (
	"context"

	"stateflow/internal/core/domain/model/history"
)

// HistoryRepository defines the persistence contract for the transition
// ledger. The interface is deliberately write-once: there is no update
// or delete operation, and reads go through the query side.
type HistoryRepository interface {
	// Append stores a record and returns it with the storage-assigned
	// sequence number.
	Append(ctx context.Context, record history.Record) (history.Record, error)
}
