package entitystate

import (
	"errors"
	"fmt"

	"stateflow/internal/core/domain/model/kernel"
	"stateflow/internal/core/domain/model/workflow"
	"stateflow/internal/pkg/errs"
	"stateflow/internal/pkg/guard"
)

var (
	// ErrRefIsNotConstructed is returned when a Ref was not created via
	// NewRef.
	ErrRefIsNotConstructed = errors.New("Ref must be created via NewRef constructor")

	// ErrOwnerIsNotConstructed is returned when an Owner was not
	// created via NewOwner.
	ErrOwnerIsNotConstructed = errors.New("Owner must be created via NewOwner constructor")
)

// Ref identifies a tracked domain object: a sale, a delivery run, a
// payment. The engine never dereferences the entity itself; the pair of
// type name and id is all it needs.
type Ref struct {
	entityType string
	id         kernel.UUID

	guard guard.ConstructorGuard
}

// NewRef creates a validated entity reference.
func NewRef(entityType string, id kernel.UUID) (Ref, error) {
	if entityType == "" {
		return Ref{}, errs.NewValueIsRequiredError("entity type")
	}
	if err := id.Validate(); err != nil {
		return Ref{}, err
	}

	return Ref{
		entityType: entityType,
		id:         id,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the reference was created through the constructor.
func (r Ref) Validate() error {
	return r.guard.Validate(ErrRefIsNotConstructed)
}

// EntityType returns the domain type name of the referenced entity.
func (r Ref) EntityType() string {
	return r.entityType
}

// ID returns the referenced entity's identifier.
func (r Ref) ID() kernel.UUID {
	return r.id
}

// IsEqual reports whether two references point at the same entity.
func (r Ref) IsEqual(other Ref) bool {
	return r.entityType == other.entityType && r.id.IsEqual(other.id)
}

// String renders the reference as "type/id" for logs and errors.
func (r Ref) String() string {
	return fmt.Sprintf("%s/%s", r.entityType, r.id)
}

// Owner links a sub-entity to the composite entity it fulfills, naming
// the category in which the composite's derived state lives. When a
// sub-entity with an owner changes state, the executor re-aggregates
// the owner in that category.
type Owner struct {
	ref      Ref
	category workflow.Category

	guard guard.ConstructorGuard
}

// NewOwner creates a validated owner link.
func NewOwner(ref Ref, category workflow.Category) (Owner, error) {
	if err := errors.Join(ref.Validate(), category.Validate()); err != nil {
		return Owner{}, err
	}

	return Owner{
		ref:      ref,
		category: category,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the owner link was created through the constructor.
func (o Owner) Validate() error {
	return o.guard.Validate(ErrOwnerIsNotConstructed)
}

// Ref returns the composite entity's reference.
func (o Owner) Ref() Ref {
	return o.ref
}

// Category returns the category holding the composite's derived state.
func (o Owner) Category() workflow.Category {
	return o.category
}
