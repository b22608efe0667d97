package workflow

import (
	"errors"

	"stateflow/internal/pkg/errs"
	"stateflow/internal/pkg/guard"
)

var (
	// ErrStateMappingIsNotConstructed is returned when a StateMapping
	// was not created via NewStateMapping.
	ErrStateMappingIsNotConstructed = errors.New(
		"StateMapping must be created via NewStateMapping constructor",
	)
)

// StateMapping projects one state of an origin category onto a state of
// a different, coarser destination category. The typical case: several
// granular delivery-run states collapse onto one sale-level logistics
// state.
//
// For a fixed origin category each origin state maps to exactly one
// destination state. Priority picks the winner when several concurrently
// active sub-entities of the same composite map to different destination
// states; ties break on the lowest mapping ID (insertion order).
type StateMapping struct {
	id           int64
	fromCategory Category
	fromState    StateCode
	toCategory   Category
	toState      StateCode
	priority     int
	active       bool

	guard guard.ConstructorGuard
}

// NewStateMapping creates a validated state mapping. ID zero means "not
// yet registered"; the catalog assigns the next insertion-order ID when
// the mapping is defined. Origin and destination categories must differ.
func NewStateMapping(
	id int64,
	fromCategory Category,
	fromState StateCode,
	toCategory Category,
	toState StateCode,
	priority int,
	active bool,
) (StateMapping, error) {
	if err := errors.Join(
		fromCategory.Validate(),
		fromState.Validate(),
		toCategory.Validate(),
		toState.Validate(),
	); err != nil {
		return StateMapping{}, err
	}

	if fromCategory == toCategory {
		return StateMapping{}, errs.NewValueIsInvalidErrorWithCause(
			"state mapping",
			errors.New("origin and destination categories must differ"),
		)
	}

	if id < 0 {
		return StateMapping{}, errs.NewValueIsInvalidErrorWithCause(
			"state mapping",
			errors.New("mapping id must not be negative"),
		)
	}

	return StateMapping{
		id:           id,
		fromCategory: fromCategory,
		fromState:    fromState,
		toCategory:   toCategory,
		toState:      toState,
		priority:     priority,
		active:       active,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the mapping was created through the constructor.
func (m StateMapping) Validate() error {
	return m.guard.Validate(ErrStateMappingIsNotConstructed)
}

// ID returns the mapping's insertion-order identifier, the aggregation
// tie-breaker. Zero until the catalog registers the mapping.
func (m StateMapping) ID() int64 {
	return m.id
}

// FromCategory returns the origin category of the projection.
func (m StateMapping) FromCategory() Category {
	return m.fromCategory
}

// FromState returns the origin state of the projection.
func (m StateMapping) FromState() StateCode {
	return m.fromState
}

// ToCategory returns the destination (composite) category.
func (m StateMapping) ToCategory() Category {
	return m.toCategory
}

// ToState returns the candidate destination state.
func (m StateMapping) ToState() StateCode {
	return m.toState
}

// Priority returns the weight of the mapping when several active
// sub-entity states compete; higher wins.
func (m StateMapping) Priority() int {
	return m.priority
}

// Active reports whether the mapping participates in aggregation.
func (m StateMapping) Active() bool {
	return m.active
}

// withID returns a copy of the mapping carrying the given registered ID.
func (m StateMapping) withID(id int64) StateMapping {
	m.id = id
	return m
}
