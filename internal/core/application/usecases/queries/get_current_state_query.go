// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS
// architecture. Queries return optimized read models for specific use
// cases.
package queries

import (
	"errors"
	"time"

	"stateflow/internal/core/domain/model/entitystate"
	"stateflow/internal/core/domain/model/workflow"
	"stateflow/internal/pkg/guard"
)

var (
	ErrGetCurrentStateQueryIsNotConstructed = errors.New(
		"GetCurrentStateQuery must be created via NewGetCurrentStateQuery constructor",
	)
)

// GetCurrentStateQuery retrieves an entity's current state in one
// category, as rendered by UI screens next to the document.
type GetCurrentStateQuery struct { //nolint:recvcheck //using for validation
	ref      entitystate.Ref
	category workflow.Category

	guard guard.ConstructorGuard
}

// NewGetCurrentStateQuery creates a query for an entity's current state.
func NewGetCurrentStateQuery(ref entitystate.Ref, category workflow.Category) (GetCurrentStateQuery, error) {
	if err := errors.Join(ref.Validate(), category.Validate()); err != nil {
		return GetCurrentStateQuery{}, err
	}

	return GetCurrentStateQuery{
		ref:      ref,
		category: category,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetCurrentStateQuery) Validate() error {
	return q.guard.Validate(ErrGetCurrentStateQueryIsNotConstructed)
}

// Ref returns the queried entity.
func (q GetCurrentStateQuery) Ref() entitystate.Ref {
	return q.ref
}

// Category returns the queried category.
func (q GetCurrentStateQuery) Category() workflow.Category {
	return q.category
}

// GetCurrentStateQueryResponse is the read model of an entity's current
// state.
type GetCurrentStateQueryResponse struct {
	State     workflow.StateCode
	EnteredAt time.Time
	Active    bool
}
