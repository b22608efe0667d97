package commands

import (
	"errors"

	"stateflow/internal/pkg/guard"
)

var (
	ErrRunAutomaticTransitionsCommandIsNotConstructed = errors.New(
		"RunAutomaticTransitionsCommand must be created via NewRunAutomaticTransitionsCommand constructor",
	)
)

// RunAutomaticTransitionsCommand triggers one sweep over every active
// automatic rule. This is a parameterless command issued by the
// scheduler job.
type RunAutomaticTransitionsCommand struct {
	guard guard.ConstructorGuard
}

// NewRunAutomaticTransitionsCommand creates a sweep command.
func NewRunAutomaticTransitionsCommand() RunAutomaticTransitionsCommand {
	return RunAutomaticTransitionsCommand{guard: guard.NewConstructorGuard()}
}

// Validate ensures the command was created through the constructor.
func (c RunAutomaticTransitionsCommand) Validate() error {
	return c.guard.Validate(ErrRunAutomaticTransitionsCommandIsNotConstructed)
}
