package entitystate

import (
	"errors"
	"time"

	"stateflow/internal/core/domain/model/workflow"
	"stateflow/internal/pkg/errs"
)

var (
	// ErrEntityStateIsNotConstructed is returned when an EntityState
	// instance was not created through NewEntityState or
	// RestoreEntityState.
	ErrEntityStateIsNotConstructed = errors.New(
		"EntityState must be created via NewEntityState or RestoreEntityState constructor",
	)
)

// EntityState is the aggregate root holding one entity's current state
// within one category. It carries the optimistic-concurrency version
// that serializes transitions against the same entity and category, the
// time the state was entered (the automatic-transition clock), and the
// optional link to the composite entity this one fulfills.
//
// EntityState follows these invariants:
//   - Must reference a valid entity and a non-empty category
//   - Always holds exactly one current state
//   - Version starts at 1 and only the repository advances it, on a
//     successful compare-and-set write
//   - Can only be created through its constructors
type EntityState struct {
	ref       Ref
	category  workflow.Category
	state     workflow.StateCode
	version   int64
	enteredAt time.Time
	active    bool
	owner     *Owner

	isConstructed bool
}

// NewEntityState initializes an entity's state in a category. The
// record starts active at version 1. Owner may be nil for entities that
// fulfill no composite.
func NewEntityState(
	ref Ref,
	category workflow.Category,
	initial workflow.StateCode,
	enteredAt time.Time,
	owner *Owner,
) (*EntityState, error) {
	s := &EntityState{
		version:       1,
		active:        true,
		isConstructed: true,
	}

	if err := errors.Join(
		s.setRef(ref),
		s.setCategory(category),
		s.setState(initial, enteredAt),
		s.setOwner(owner),
	); err != nil {
		return nil, err
	}

	return s, nil
}

// RestoreEntityState reconstructs an EntityState from persistence.
func RestoreEntityState(
	ref Ref,
	category workflow.Category,
	state workflow.StateCode,
	version int64,
	enteredAt time.Time,
	active bool,
	owner *Owner,
) (*EntityState, error) {
	if version < 1 {
		return nil, errs.NewVersionIsInvalidError(
			"entity state version",
			errors.New("version must be at least 1"),
		)
	}

	s := &EntityState{
		version:       version,
		active:        active,
		isConstructed: true,
	}

	if err := errors.Join(
		s.setRef(ref),
		s.setCategory(category),
		s.setState(state, enteredAt),
		s.setOwner(owner),
	); err != nil {
		return nil, err
	}

	return s, nil
}

// Validate ensures the instance was created through a constructor.
func (s *EntityState) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrEntityStateIsNotConstructed
	}
	return nil
}

// Ref returns the tracked entity's reference.
func (s *EntityState) Ref() Ref {
	return s.ref
}

// Category returns the category this record tracks.
func (s *EntityState) Category() workflow.Category {
	return s.category
}

// State returns the current state code.
func (s *EntityState) State() workflow.StateCode {
	return s.state
}

// Version returns the optimistic-concurrency version read from storage.
func (s *EntityState) Version() int64 {
	return s.version
}

// EnteredAt returns when the current state was entered.
func (s *EntityState) EnteredAt() time.Time {
	return s.enteredAt
}

// IsActive reports whether the record still participates in
// aggregation. Retired sub-entities stay in storage but contribute no
// candidate state.
func (s *EntityState) IsActive() bool {
	return s.active
}

// Owner returns the composite link, nil when the entity fulfills no
// composite.
func (s *EntityState) Owner() *Owner {
	return s.owner
}

// ChangeState moves the record to a new state. Rule checking is the
// executor's job; this only maintains the record's own fields.
func (s *EntityState) ChangeState(to workflow.StateCode, at time.Time) error {
	if err := to.Validate(); err != nil {
		return err
	}
	if at.IsZero() {
		return errs.NewValueIsRequiredError("state change time")
	}

	s.state = to
	s.enteredAt = at
	return nil
}

// Deactivate retires the record from aggregation.
func (s *EntityState) Deactivate() {
	s.active = false
}

func (s *EntityState) setRef(ref Ref) error {
	if err := ref.Validate(); err != nil {
		return err
	}
	s.ref = ref
	return nil
}

func (s *EntityState) setCategory(category workflow.Category) error {
	if err := category.Validate(); err != nil {
		return err
	}
	s.category = category
	return nil
}

func (s *EntityState) setState(state workflow.StateCode, enteredAt time.Time) error {
	if err := state.Validate(); err != nil {
		return err
	}
	if enteredAt.IsZero() {
		return errs.NewValueIsRequiredError("entered at")
	}
	s.state = state
	s.enteredAt = enteredAt
	return nil
}

func (s *EntityState) setOwner(owner *Owner) error {
	if owner == nil {
		return nil
	}
	if err := owner.Validate(); err != nil {
		return err
	}
	s.owner = owner
	return nil
}
