package queries

import (
	"errors"

	"stateflow/internal/core/domain/model/workflow"
	"stateflow/internal/pkg/guard"
)

var (
	ErrGetAllowedTransitionsQueryIsNotConstructed = errors.New(
		"GetAllowedTransitionsQuery must be created via NewGetAllowedTransitionsQuery constructor",
	)
)

// GetAllowedTransitionsQuery lists the states an actor may move to
// from a given state. Drives UI menus that show only the buttons the
// signed-in user is entitled to press.
type GetAllowedTransitionsQuery struct { //nolint:recvcheck //using for validation
	category workflow.Category
	from     workflow.StateCode
	actor    workflow.Actor

	guard guard.ConstructorGuard
}

// NewGetAllowedTransitionsQuery creates a query for the transitions
// available to an actor from one state.
func NewGetAllowedTransitionsQuery(
	category workflow.Category,
	from workflow.StateCode,
	actor workflow.Actor,
) (GetAllowedTransitionsQuery, error) {
	if err := errors.Join(category.Validate(), from.Validate(), actor.Validate()); err != nil {
		return GetAllowedTransitionsQuery{}, err
	}

	return GetAllowedTransitionsQuery{
		category: category,
		from:     from,
		actor:    actor,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetAllowedTransitionsQuery) Validate() error {
	return q.guard.Validate(ErrGetAllowedTransitionsQueryIsNotConstructed)
}

// Category returns the queried category.
func (q GetAllowedTransitionsQuery) Category() workflow.Category {
	return q.category
}

// From returns the origin state.
func (q GetAllowedTransitionsQuery) From() workflow.StateCode {
	return q.from
}

// Actor returns the actor whose permissions filter the result.
func (q GetAllowedTransitionsQuery) Actor() workflow.Actor {
	return q.actor
}

// GetAllowedTransitionsQueryResponse describes one reachable state with
// the display attributes UI menus render.
type GetAllowedTransitionsQueryResponse struct {
	State   workflow.StateCode
	Name    string
	Color   string
	Icon    string
	IsFinal bool
}
