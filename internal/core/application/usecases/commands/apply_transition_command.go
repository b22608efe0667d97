package commands

import (
	"errors"

	"stateflow/internal/core/domain/model/entitystate"
	"stateflow/internal/core/domain/model/workflow"
	"stateflow/internal/pkg/guard"
)

var (
	ErrApplyTransitionCommandIsNotConstructed = errors.New(
		"ApplyTransitionCommand must be created via NewApplyTransitionCommand constructor",
	)
)

// ApplyTransitionCommand represents a request to move an entity to a
// target state within a category, on behalf of an actor.
//
// Example:
//
//	ref, _ := entitystate.NewRef("delivery_run", runID)
//	actor, _ := workflow.NewActor("u-102", []string{"logistics.dispatch"})
//	cmd, err := NewApplyTransitionCommand(ref, "delivery_run", "EN_TRANSITO", actor, "loaded at dock 3")
//	if err != nil {
//	    return fmt.Errorf("invalid transition request: %w", err)
//	}
//
//	record, err := handler.Handle(ctx, cmd)
type ApplyTransitionCommand struct { //nolint:recvcheck //using for validation
	ref      entitystate.Ref
	category workflow.Category
	target   workflow.StateCode
	actor    workflow.Actor
	reason   string

	guard guard.ConstructorGuard
}

// NewApplyTransitionCommand creates a command to apply one transition.
// Validates the entity reference, category, target state and actor.
// Reason is optional free text recorded in the history row.
func NewApplyTransitionCommand(
	ref entitystate.Ref,
	category workflow.Category,
	target workflow.StateCode,
	actor workflow.Actor,
	reason string,
) (ApplyTransitionCommand, error) {
	cmd := ApplyTransitionCommand{
		reason: reason,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setRef(ref),
		cmd.setCategory(category),
		cmd.setTarget(target),
		cmd.setActor(actor),
	); err != nil {
		return ApplyTransitionCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ApplyTransitionCommand) Validate() error {
	return c.guard.Validate(ErrApplyTransitionCommandIsNotConstructed)
}

// Ref returns the entity the transition applies to.
func (c ApplyTransitionCommand) Ref() entitystate.Ref {
	return c.ref
}

// Category returns the category the transition happens in.
func (c ApplyTransitionCommand) Category() workflow.Category {
	return c.category
}

// Target returns the requested destination state.
func (c ApplyTransitionCommand) Target() workflow.StateCode {
	return c.target
}

// Actor returns who is applying the transition.
func (c ApplyTransitionCommand) Actor() workflow.Actor {
	return c.actor
}

// Reason returns the optional note recorded alongside the transition.
func (c ApplyTransitionCommand) Reason() string {
	return c.reason
}

func (c *ApplyTransitionCommand) setRef(ref entitystate.Ref) error {
	if err := ref.Validate(); err != nil {
		return err
	}
	c.ref = ref
	return nil
}

func (c *ApplyTransitionCommand) setCategory(category workflow.Category) error {
	if err := category.Validate(); err != nil {
		return err
	}
	c.category = category
	return nil
}

func (c *ApplyTransitionCommand) setTarget(target workflow.StateCode) error {
	if err := target.Validate(); err != nil {
		return err
	}
	c.target = target
	return nil
}

func (c *ApplyTransitionCommand) setActor(actor workflow.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	c.actor = actor
	return nil
}
