// Package history provides the immutable audit trail of every accepted
// transition. Records are append-only: no update or delete operation
// exists anywhere in the engine, and exactly one record is written per
// accepted transition.
package history

import (
	"errors"
	"time"

	"stateflow/internal/core/domain/model/entitystate"
	"stateflow/internal/core/domain/model/workflow"
	"stateflow/internal/pkg/errs"
	"stateflow/internal/pkg/guard"
)

var (
	// ErrRecordIsNotConstructed is returned when a Record was not
	// created via NewRecord or RestoreRecord.
	ErrRecordIsNotConstructed = errors.New(
		"Record must be created via NewRecord or RestoreRecord constructor",
	)
)

// Record is one row of the transition ledger. Previous is nil for the
// initial state set at entity creation. Sequence is assigned by storage
// on append and breaks ordering ties between records sharing a
// timestamp.
type Record struct {
	sequence  int64
	ref       entitystate.Ref
	category  workflow.Category
	previous  *workflow.StateCode
	newState  workflow.StateCode
	actor     string
	automatic bool
	reason    string
	occurred  time.Time

	guard guard.ConstructorGuard
}

// NewRecord creates a record for a just-accepted transition. Sequence
// stays zero until storage assigns it.
func NewRecord(
	ref entitystate.Ref,
	category workflow.Category,
	previous *workflow.StateCode,
	newState workflow.StateCode,
	actor string,
	automatic bool,
	reason string,
	occurred time.Time,
) (Record, error) {
	return newRecord(0, ref, category, previous, newState, actor, automatic, reason, occurred)
}

// RestoreRecord reconstructs a stored record, sequence included.
func RestoreRecord(
	sequence int64,
	ref entitystate.Ref,
	category workflow.Category,
	previous *workflow.StateCode,
	newState workflow.StateCode,
	actor string,
	automatic bool,
	reason string,
	occurred time.Time,
) (Record, error) {
	if sequence < 1 {
		return Record{}, errs.NewValueIsInvalidErrorWithCause(
			"history sequence",
			errors.New("stored records must carry a positive sequence"),
		)
	}
	return newRecord(sequence, ref, category, previous, newState, actor, automatic, reason, occurred)
}

func newRecord(
	sequence int64,
	ref entitystate.Ref,
	category workflow.Category,
	previous *workflow.StateCode,
	newState workflow.StateCode,
	actor string,
	automatic bool,
	reason string,
	occurred time.Time,
) (Record, error) {
	if err := errors.Join(ref.Validate(), category.Validate(), newState.Validate()); err != nil {
		return Record{}, err
	}
	if previous != nil {
		if err := previous.Validate(); err != nil {
			return Record{}, err
		}
	}
	if actor == "" {
		return Record{}, errs.NewValueIsRequiredError("actor")
	}
	if occurred.IsZero() {
		return Record{}, errs.NewValueIsRequiredError("occurred at")
	}

	return Record{
		sequence:  sequence,
		ref:       ref,
		category:  category,
		previous:  previous,
		newState:  newState,
		actor:     actor,
		automatic: automatic,
		reason:    reason,
		occurred:  occurred,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the record was created through a constructor.
func (r Record) Validate() error {
	return r.guard.Validate(ErrRecordIsNotConstructed)
}

// Sequence returns the storage-assigned position in the ledger, zero
// before the record is appended.
func (r Record) Sequence() int64 {
	return r.sequence
}

// Ref returns the entity the transition was applied to.
func (r Record) Ref() entitystate.Ref {
	return r.ref
}

// Category returns the category the transition happened in.
func (r Record) Category() workflow.Category {
	return r.category
}

// Previous returns the state before the transition, nil for the initial
// state set.
func (r Record) Previous() *workflow.StateCode {
	return r.previous
}

// NewState returns the state after the transition.
func (r Record) NewState() workflow.StateCode {
	return r.newState
}

// Actor returns the identifier of whoever applied the transition.
func (r Record) Actor() string {
	return r.actor
}

// Automatic reports whether the scheduler applied the transition.
func (r Record) Automatic() bool {
	return r.automatic
}

// Reason returns the optional free-text note supplied by the caller.
func (r Record) Reason() string {
	return r.reason
}

// OccurredAt returns when the transition was applied.
func (r Record) OccurredAt() time.Time {
	return r.occurred
}
