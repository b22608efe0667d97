package ports

import (
	"context"
	"time"

	"stateflow/internal/core/domain/model/entitystate"
	"stateflow/internal/core/domain/model/workflow"
)

// EntityStateRepository defines the persistence contract for current
// entity states. Current-state rows are written exclusively through
// this interface by the transition executor; no other component may
// touch them.
type EntityStateRepository interface {
	// Add persists a newly initialized entity state.
	// Fails if the (entity, category) pair is already tracked.
	Add(ctx context.Context, aggregate *entitystate.EntityState) error

	// Get retrieves an entity's current state record for a category.
	// Returns errs.ErrObjectNotFound when the entity was never
	// initialized in that category.
	Get(ctx context.Context, ref entitystate.Ref, category workflow.Category) (*entitystate.EntityState, error)

	// Update persists a state change with an optimistic version check:
	// the write only succeeds when the stored version still matches the
	// version the aggregate was read at, and advances it by one.
	// Returns workflow.ErrConcurrentModification otherwise.
	Update(ctx context.Context, aggregate *entitystate.EntityState) error

	// ListActiveByOwner retrieves the active state records of every
	// sub-entity linked to the given composite. Used by re-aggregation.
	ListActiveByOwner(ctx context.Context, owner entitystate.Ref) ([]*entitystate.EntityState, error)

	// ListInStateBefore retrieves active records sitting in the given
	// state since before the cutoff. Used by the automatic transition
	// sweep to find entities whose expiry has elapsed.
	ListInStateBefore(
		ctx context.Context,
		category workflow.Category,
		state workflow.StateCode,
		cutoff time.Time,
	) ([]*entitystate.EntityState, error)
}
