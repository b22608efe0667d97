package workflow

import (
	"errors"

	"stateflow/internal/pkg/errs"
	"stateflow/internal/pkg/guard"
)

var (
	// ErrStateDefinitionIsNotConstructed is returned when a
	// StateDefinition was not created via NewStateDefinition.
	ErrStateDefinitionIsNotConstructed = errors.New(
		"StateDefinition must be created via NewStateDefinition constructor",
	)
)

// Category is the namespace of related states and transitions belonging
// to one kind of document or resource, e.g. "delivery_run" or
// "sale_logistics".
type Category string

// Validate returns an error when the category is empty.
func (c Category) Validate() error {
	if c == "" {
		return errs.NewValueIsRequiredError("category")
	}
	return nil
}

// String returns the category as a plain string.
func (c Category) String() string {
	return string(c)
}

// StateCode identifies a state within a category, e.g. "EN_TRANSITO".
type StateCode string

// Validate returns an error when the state code is empty.
func (s StateCode) Validate() error {
	if s == "" {
		return errs.NewValueIsRequiredError("state code")
	}
	return nil
}

// String returns the state code as a plain string.
func (s StateCode) String() string {
	return string(s)
}

// StateAttributes carries the display and behavioral attributes of a
// state. It is plain input data for NewStateDefinition.
type StateAttributes struct {
	Name             string
	Color            string
	Icon             string
	Order            int
	IsFinal          bool
	AllowsEdit       bool
	RequiresApproval bool
}

// StateDefinition describes one state of a category: how it is shown
// and how entities in it may behave. (Category, Code) is the unique key.
//
// A state with IsFinal set is terminal: the catalog rejects any
// transition that would leave it.
type StateDefinition struct {
	category Category
	code     StateCode
	attrs    StateAttributes

	guard guard.ConstructorGuard
}

// NewStateDefinition creates a validated state definition.
// Category and code must be non-empty.
func NewStateDefinition(category Category, code StateCode, attrs StateAttributes) (StateDefinition, error) {
	if err := errors.Join(category.Validate(), code.Validate()); err != nil {
		return StateDefinition{}, err
	}

	return StateDefinition{
		category: category,
		code:     code,
		attrs:    attrs,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the definition was created through the constructor.
func (d StateDefinition) Validate() error {
	return d.guard.Validate(ErrStateDefinitionIsNotConstructed)
}

// Category returns the category the state belongs to.
func (d StateDefinition) Category() Category {
	return d.category
}

// Code returns the state's code within its category.
func (d StateDefinition) Code() StateCode {
	return d.code
}

// Name returns the display name of the state.
func (d StateDefinition) Name() string {
	return d.attrs.Name
}

// Color returns the display color of the state.
func (d StateDefinition) Color() string {
	return d.attrs.Color
}

// Icon returns the display icon of the state.
func (d StateDefinition) Icon() string {
	return d.attrs.Icon
}

// Order returns the position of the state in catalog listings.
func (d StateDefinition) Order() int {
	return d.attrs.Order
}

// IsFinal reports whether the state is terminal.
func (d StateDefinition) IsFinal() bool {
	return d.attrs.IsFinal
}

// AllowsEdit reports whether entities in this state may still be edited.
func (d StateDefinition) AllowsEdit() bool {
	return d.attrs.AllowsEdit
}

// RequiresApproval reports whether entering this state requires an
// approval step in the hosting application.
func (d StateDefinition) RequiresApproval() bool {
	return d.attrs.RequiresApproval
}
