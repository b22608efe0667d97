// Package historyrepo provides data transfer objects and mapping functions
// for the transition ledger. The ledger is append-only; the repository
// exposes no update or delete operation.
package historyrepo

import (
	"time"

	"stateflow/internal/core/domain/model/entitystate"
	"stateflow/internal/core/domain/model/history"
	"stateflow/internal/core/domain/model/kernel"
	"stateflow/internal/core/domain/model/workflow"

	"github.com/google/uuid"
)

// HistoryRecordDTO represents one row of the transition ledger. Sequence
// is a database-assigned serial that breaks ordering ties between rows
// sharing an occurred_at timestamp. PreviousState is NULL for the
// initialization row.
type HistoryRecordDTO struct {
	Sequence      int64     `gorm:"primaryKey;autoIncrement"`
	EntityType    string    `gorm:"size:64;index:idx_state_history_entity"`
	EntityID      uuid.UUID `gorm:"type:uuid;index:idx_state_history_entity"`
	Category      string    `gorm:"size:64"`
	PreviousState *string   `gorm:"size:64"`
	NewState      string    `gorm:"size:64"`
	Actor         string    `gorm:"size:128"`
	Automatic     bool
	Reason        string
	OccurredAt    time.Time
}

// TableName specifies the database table name for ledger rows.
// Overrides GORM's default naming convention to use "state_history".
func (HistoryRecordDTO) TableName() string {
	return "state_history"
}

// fromDomain converts a history record to its database representation.
// Sequence is left zero so the database assigns it on insert.
func fromDomain(record history.Record) HistoryRecordDTO {
	var previous *string
	if p := record.Previous(); p != nil {
		s := p.String()
		previous = &s
	}

	return HistoryRecordDTO{
		Sequence:      record.Sequence(),
		EntityType:    record.Ref().EntityType(),
		EntityID:      record.Ref().ID().Bytes(),
		Category:      record.Category().String(),
		PreviousState: previous,
		NewState:      record.NewState().String(),
		Actor:         record.Actor(),
		Automatic:     record.Automatic(),
		Reason:        record.Reason(),
		OccurredAt:    record.OccurredAt(),
	}
}

// toDomain converts a database DTO to a history record using RestoreRecord.
func toDomain(dto HistoryRecordDTO) (history.Record, error) {
	id, err := kernel.UUIDFromBytes(dto.EntityID[:])
	if err != nil {
		return history.Record{}, err
	}

	ref, err := entitystate.NewRef(dto.EntityType, id)
	if err != nil {
		return history.Record{}, err
	}

	var previous *workflow.StateCode
	if dto.PreviousState != nil {
		p := workflow.StateCode(*dto.PreviousState)
		previous = &p
	}

	return history.RestoreRecord(
		dto.Sequence,
		ref,
		workflow.Category(dto.Category),
		previous,
		workflow.StateCode(dto.NewState),
		dto.Actor,
		dto.Automatic,
		dto.Reason,
		dto.OccurredAt,
	)
}
