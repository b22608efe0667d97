package queries

import (
	"errors"
	"time"

	"stateflow/internal/core/domain/model/entitystate"
	"stateflow/internal/core/domain/model/workflow"
	"stateflow/internal/pkg/guard"
)

var (
	ErrGetHistoryQueryIsNotConstructed = errors.New(
		"GetHistoryQuery must be created via NewGetHistoryQuery constructor",
	)
)

// GetHistoryQuery retrieves the full transition trail of an entity,
// oldest change first. The trail answers "who moved this document,
// when, and why" for audits and support. An empty category requests
// the complete trail across every category the entity was tracked in.
type GetHistoryQuery struct { //nolint:recvcheck //using for validation
	ref      entitystate.Ref
	category workflow.Category

	guard guard.ConstructorGuard
}

// NewGetHistoryQuery creates a query for an entity's transition trail.
// An empty category means "all categories".
func NewGetHistoryQuery(ref entitystate.Ref, category workflow.Category) (GetHistoryQuery, error) {
	if err := ref.Validate(); err != nil {
		return GetHistoryQuery{}, err
	}

	return GetHistoryQuery{
		ref:      ref,
		category: category,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetHistoryQueryIsNotConstructed)
}

// Ref returns the queried entity.
func (q GetHistoryQuery) Ref() entitystate.Ref {
	return q.ref
}

// Category returns the queried category, empty when the query spans
// all categories.
func (q GetHistoryQuery) Category() workflow.Category {
	return q.category
}

// GetHistoryQueryResponse is one row of the transition trail.
// Previous is nil for the initialization row.
type GetHistoryQueryResponse struct {
	Sequence   int64
	Category   workflow.Category
	Previous   *workflow.StateCode
	NewState   workflow.StateCode
	Actor      string
	Automatic  bool
	Reason     string
	OccurredAt time.Time
}
