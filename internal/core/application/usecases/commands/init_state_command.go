package commands

import (
	"errors"

	"stateflow/internal/core/domain/model/entitystate"
	"stateflow/internal/core/domain/model/workflow"
	"stateflow/internal/pkg/guard"
)

var (
	ErrInitStateCommandIsNotConstructed = errors.New(
		"InitStateCommand must be created via NewInitStateCommand constructor",
	)
)

// InitStateCommand represents a request to start tracking an entity in
// a category: the initial state set at entity creation, before any
// transition. Owner optionally links the entity to the composite it
// fulfills so later transitions re-aggregate the composite.
type InitStateCommand struct { //nolint:recvcheck //using for validation
	ref      entitystate.Ref
	category workflow.Category
	initial  workflow.StateCode
	actor    workflow.Actor
	owner    *entitystate.Owner

	guard guard.ConstructorGuard
}

// NewInitStateCommand creates a command to initialize an entity's state.
// Owner may be nil for entities that fulfill no composite.
func NewInitStateCommand(
	ref entitystate.Ref,
	category workflow.Category,
	initial workflow.StateCode,
	actor workflow.Actor,
	owner *entitystate.Owner,
) (InitStateCommand, error) {
	cmd := InitStateCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setRef(ref),
		cmd.setCategory(category),
		cmd.setInitial(initial),
		cmd.setActor(actor),
		cmd.setOwner(owner),
	); err != nil {
		return InitStateCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c InitStateCommand) Validate() error {
	return c.guard.Validate(ErrInitStateCommandIsNotConstructed)
}

// Ref returns the entity being initialized.
func (c InitStateCommand) Ref() entitystate.Ref {
	return c.ref
}

// Category returns the category to initialize.
func (c InitStateCommand) Category() workflow.Category {
	return c.category
}

// Initial returns the initial state code.
func (c InitStateCommand) Initial() workflow.StateCode {
	return c.initial
}

// Actor returns who is initializing the entity.
func (c InitStateCommand) Actor() workflow.Actor {
	return c.actor
}

// Owner returns the composite link, nil when absent.
func (c InitStateCommand) Owner() *entitystate.Owner {
	return c.owner
}

func (c *InitStateCommand) setRef(ref entitystate.Ref) error {
	if err := ref.Validate(); err != nil {
		return err
	}
	c.ref = ref
	return nil
}

func (c *InitStateCommand) setCategory(category workflow.Category) error {
	if err := category.Validate(); err != nil {
		return err
	}
	c.category = category
	return nil
}

func (c *InitStateCommand) setInitial(initial workflow.StateCode) error {
	if err := initial.Validate(); err != nil {
		return err
	}
	c.initial = initial
	return nil
}

func (c *InitStateCommand) setActor(actor workflow.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	c.actor = actor
	return nil
}

func (c *InitStateCommand) setOwner(owner *entitystate.Owner) error {
	if owner == nil {
		return nil
	}
	if err := owner.Validate(); err != nil {
		return err
	}
	c.owner = owner
	return nil
}
