package workflow

import (
	"errors"

	"stateflow/internal/pkg/errs"
	"stateflow/internal/pkg/guard"
)

// SystemActorID identifies transitions applied by the engine itself:
// scheduler sweeps and aggregation-driven composite moves.
const SystemActorID = "system"

var (
	// ErrActorIsNotConstructed is returned when an Actor was not
	// created via NewActor or SystemActor.
	ErrActorIsNotConstructed = errors.New(
		"Actor must be created via NewActor or SystemActor constructor",
	)
)

// Actor is the identity on whose behalf a transition is applied,
// together with the permission set the transition rules are checked
// against. The system actor bypasses permission gates and is the only
// actor allowed to fire automatic rules.
type Actor struct {
	id          string
	permissions map[string]struct{}
	system      bool

	guard guard.ConstructorGuard
}

// NewActor creates an interactive actor with the given permission set.
// The identifier must be non-empty.
func NewActor(id string, permissions []string) (Actor, error) {
	if id == "" {
		return Actor{}, errs.NewValueIsRequiredError("actor id")
	}

	perms := make(map[string]struct{}, len(permissions))
	for _, p := range permissions {
		perms[p] = struct{}{}
	}

	return Actor{
		id:          id,
		permissions: perms,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// SystemActor returns the synthetic actor used by the scheduler and by
// aggregation-driven transitions.
func SystemActor() Actor {
	return Actor{
		id:     SystemActorID,
		system: true,
		guard:  guard.NewConstructorGuard(),
	}
}

// Validate ensures the actor was created through a constructor.
func (a Actor) Validate() error {
	return a.guard.Validate(ErrActorIsNotConstructed)
}

// ID returns the actor's identifier as recorded in history rows.
func (a Actor) ID() string {
	return a.id
}

// IsSystem reports whether the actor is the engine's synthetic system
// actor.
func (a Actor) IsSystem() bool {
	return a.system
}

// HasPermission reports whether the actor holds the given permission.
// The system actor holds every permission.
func (a Actor) HasPermission(permission string) bool {
	if a.system {
		return true
	}
	_, ok := a.permissions[permission]
	return ok
}
