package workflow

import (
	"errors"
	"fmt"
	"time"

	"stateflow/internal/pkg/guard"
)

var (
	// ErrTransitionIsNotConstructed is returned when a Transition was
	// not created via NewTransition.
	ErrTransitionIsNotConstructed = errors.New(
		"Transition must be created via NewTransition constructor",
	)
)

// TransitionAttributes carries the optional properties of a transition
// rule. Permission empty means the move is unrestricted. ExpiresAfter is
// meaningful only for automatic rules: the time an entity must have
// spent in the origin state before the scheduler fires the rule; zero
// fires on the next sweep.
type TransitionAttributes struct {
	Permission   string
	Automatic    bool
	ExpiresAfter time.Duration
	Notify       bool
	Active       bool
}

// Transition is one directed edge of a category's state graph:
// an allowed move from one state to another. (Category, From, To) is
// the unique key.
type Transition struct {
	category Category
	from     StateCode
	to       StateCode
	attrs    TransitionAttributes

	guard guard.ConstructorGuard
}

// NewTransition creates a validated transition rule.
// Both endpoints and the category must be non-empty; an automatic rule
// must not carry a required permission (the scheduler applies automatic
// rules with a synthetic system actor that holds none).
func NewTransition(category Category, from, to StateCode, attrs TransitionAttributes) (Transition, error) {
	if err := errors.Join(category.Validate(), from.Validate(), to.Validate()); err != nil {
		return Transition{}, err
	}

	if attrs.Automatic && attrs.Permission != "" {
		return Transition{}, fmt.Errorf(
			"%w: %s %s->%s is automatic but requires permission %q",
			ErrInvalidAutomaticRule, category, from, to, attrs.Permission,
		)
	}

	if attrs.ExpiresAfter < 0 {
		return Transition{}, fmt.Errorf(
			"%w: %s %s->%s has negative expiry",
			ErrInvalidAutomaticRule, category, from, to,
		)
	}

	return Transition{
		category: category,
		from:     from,
		to:       to,
		attrs:    attrs,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the transition was created through the constructor.
func (t Transition) Validate() error {
	return t.guard.Validate(ErrTransitionIsNotConstructed)
}

// Category returns the category whose graph the rule belongs to.
func (t Transition) Category() Category {
	return t.category
}

// From returns the origin state of the rule.
func (t Transition) From() StateCode {
	return t.from
}

// To returns the destination state of the rule.
func (t Transition) To() StateCode {
	return t.to
}

// Permission returns the permission gating the rule, empty when the
// move is unrestricted.
func (t Transition) Permission() string {
	return t.attrs.Permission
}

// Automatic reports whether the scheduler may fire the rule without an
// explicit actor action.
func (t Transition) Automatic() bool {
	return t.attrs.Automatic
}

// ExpiresAfter returns how long an entity must have sat in the origin
// state before an automatic rule fires.
func (t Transition) ExpiresAfter() time.Duration {
	return t.attrs.ExpiresAfter
}

// Notify reports whether applying the rule should raise a side-channel
// notification in the hosting application.
func (t Transition) Notify() bool {
	return t.attrs.Notify
}

// Active reports whether the rule currently permits moves. Inactive
// rules stay in the catalog but never allow a transition.
func (t Transition) Active() bool {
	return t.attrs.Active
}
