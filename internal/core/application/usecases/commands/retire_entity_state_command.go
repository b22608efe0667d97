package commands

import (
	"errors"

	"stateflow/internal/core/domain/model/entitystate"
	"stateflow/internal/core/domain/model/workflow"
	"stateflow/internal/pkg/guard"
)

var (
	ErrRetireEntityStateCommandIsNotConstructed = errors.New(
		"RetireEntityStateCommand must be created via NewRetireEntityStateCommand constructor",
	)
)

// RetireEntityStateCommand represents a request to retire an entity's
// state record in a category from aggregation: a cancelled delivery
// run should no longer hold its order back. The record and its history
// stay in storage; only its aggregation contribution ends.
type RetireEntityStateCommand struct { //nolint:recvcheck //using for validation
	ref      entitystate.Ref
	category workflow.Category

	guard guard.ConstructorGuard
}

// NewRetireEntityStateCommand creates a command to retire an entity's
// state record from aggregation.
func NewRetireEntityStateCommand(
	ref entitystate.Ref,
	category workflow.Category,
) (RetireEntityStateCommand, error) {
	if err := errors.Join(ref.Validate(), category.Validate()); err != nil {
		return RetireEntityStateCommand{}, err
	}

	return RetireEntityStateCommand{
		ref:      ref,
		category: category,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c RetireEntityStateCommand) Validate() error {
	return c.guard.Validate(ErrRetireEntityStateCommandIsNotConstructed)
}

// Ref returns the entity being retired.
func (c RetireEntityStateCommand) Ref() entitystate.Ref {
	return c.ref
}

// Category returns the category the record is retired in.
func (c RetireEntityStateCommand) Category() workflow.Category {
	return c.category
}
