package workflow

import "errors"

// Configuration-time errors. Definition and import operations abort on
// these; a partially-defined rule set is never persisted.
var (
	// ErrDuplicateStateCode is returned when a state re-definition
	// conflicts with the final-state semantics already registered for
	// the same (category, code).
	ErrDuplicateStateCode = errors.New("duplicate state code")

	// ErrUnknownState is returned when a transition or mapping endpoint
	// is not registered in the catalog for its category.
	ErrUnknownState = errors.New("unknown state")

	// ErrIllegalFinalOrigin is returned when a transition is defined
	// with a final state as its origin.
	ErrIllegalFinalOrigin = errors.New("illegal final origin")

	// ErrInvalidAutomaticRule is returned when an automatic transition
	// carries a required permission.
	ErrInvalidAutomaticRule = errors.New("invalid automatic rule")
)

// Runtime errors, returned per call by the transition executor.
var (
	// ErrNoCurrentState is returned when an entity was never
	// initialized in the requested category.
	ErrNoCurrentState = errors.New("no current state")

	// ErrTransitionNotAllowed is returned when no active rule permits
	// the requested move, including any move out of a final state.
	ErrTransitionNotAllowed = errors.New("transition not allowed")

	// ErrForbidden is returned when the acting user lacks the
	// permission a rule requires, or when an interactive actor invokes
	// an automatic rule.
	ErrForbidden = errors.New("forbidden")

	// ErrConcurrentModification is returned when another caller changed
	// the entity's state between read and write. The executor retries a
	// bounded number of times before surfacing it.
	ErrConcurrentModification = errors.New("concurrent modification")

	// ErrAggregationTransitionBlocked is returned when re-aggregation
	// selects a composite state that the composite's own transition
	// graph cannot reach from its current state.
	ErrAggregationTransitionBlocked = errors.New("aggregation transition blocked")
)
