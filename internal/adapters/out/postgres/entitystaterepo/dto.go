// Package entitystaterepo provides data transfer objects and mapping functions
// for current-state persistence. This package implements the repository pattern
// for the entity state aggregate, handling the conversion between domain
// entities and database representations.
package entitystaterepo

import (
	"time"

	"stateflow/internal/core/domain/model/entitystate"
	"stateflow/internal/core/domain/model/kernel"
	"stateflow/internal/core/domain/model/workflow"

	"github.com/google/uuid"
)

// EntityStateDTO represents the database structure for persisting entity state
// aggregates. One row per (entity type, entity id, category); the version
// column carries the optimistic-concurrency counter the executor's
// compare-and-set write checks against.
type EntityStateDTO struct {
	EntityType    string    `gorm:"primaryKey;size:64"`
	EntityID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	Category      string    `gorm:"primaryKey;size:64"`
	State         string    `gorm:"size:64;index:idx_entity_states_sweep"`
	Version       int64
	EnteredAt     time.Time `gorm:"index:idx_entity_states_sweep"`
	Active        bool
	OwnerType     *string    `gorm:"size:64"`
	OwnerID       *uuid.UUID `gorm:"type:uuid;index"`
	OwnerCategory *string    `gorm:"size:64"`
}

// TableName specifies the database table name for entity state records.
// Overrides GORM's default naming convention to use "entity_states".
func (EntityStateDTO) TableName() string {
	return "entity_states"
}

// fromDomain converts an entity state aggregate to its database representation.
// Maps all attributes including the optional composite owner link.
func fromDomain(aggregate *entitystate.EntityState) EntityStateDTO {
	dto := EntityStateDTO{
		EntityType: aggregate.Ref().EntityType(),
		EntityID:   aggregate.Ref().ID().Bytes(),
		Category:   aggregate.Category().String(),
		State:      aggregate.State().String(),
		Version:    aggregate.Version(),
		EnteredAt:  aggregate.EnteredAt(),
		Active:     aggregate.IsActive(),
	}

	if owner := aggregate.Owner(); owner != nil {
		ownerType := owner.Ref().EntityType()
		ownerID := owner.Ref().ID().Bytes()
		ownerCategory := owner.Category().String()
		dto.OwnerType = &ownerType
		dto.OwnerID = &ownerID
		dto.OwnerCategory = &ownerCategory
	}

	return dto
}

// toDomain converts a database DTO to an entity state aggregate.
// Reconstructs the complete aggregate including the owner link using
// RestoreEntityState.
func toDomain(dto EntityStateDTO) (*entitystate.EntityState, error) {
	id, err := kernel.UUIDFromBytes(dto.EntityID[:])
	if err != nil {
		return nil, err
	}

	ref, err := entitystate.NewRef(dto.EntityType, id)
	if err != nil {
		return nil, err
	}

	var owner *entitystate.Owner
	if dto.OwnerType != nil && dto.OwnerID != nil && dto.OwnerCategory != nil {
		ownerID, ownerErr := kernel.UUIDFromBytes((*dto.OwnerID)[:])
		if ownerErr != nil {
			return nil, ownerErr
		}

		ownerRef, ownerErr := entitystate.NewRef(*dto.OwnerType, ownerID)
		if ownerErr != nil {
			return nil, ownerErr
		}

		o, ownerErr := entitystate.NewOwner(ownerRef, workflow.Category(*dto.OwnerCategory))
		if ownerErr != nil {
			return nil, ownerErr
		}
		owner = &o
	}

	return entitystate.RestoreEntityState(
		ref,
		workflow.Category(dto.Category),
		workflow.StateCode(dto.State),
		dto.Version,
		dto.EnteredAt,
		dto.Active,
		owner,
	)
}
