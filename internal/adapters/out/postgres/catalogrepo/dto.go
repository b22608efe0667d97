// Package catalogrepo provides data transfer objects and mapping functions
// for the engine configuration: state definitions, transition rules and
// state mappings. Configuration is read-mostly; it is loaded once at
// startup and replaced wholesale by administrative imports.
package catalogrepo

import (
	"time"

	"stateflow/internal/core/domain/model/workflow"
)

// StateDTO represents one registered state within a category.
type StateDTO struct {
	Category         string `gorm:"primaryKey;size:64"`
	Code             string `gorm:"primaryKey;size:64"`
	Name             string `gorm:"size:128"`
	Color            string `gorm:"size:32"`
	Icon             string `gorm:"size:64"`
	DisplayOrder     int
	IsFinal          bool
	AllowsEdit       bool
	RequiresApproval bool
}

// TableName specifies the database table name for state definitions.
func (StateDTO) TableName() string {
	return "workflow_states"
}

// TransitionDTO represents one transition rule. ExpiresAfterNs stores the
// automatic-expiry window in nanoseconds; zero means the rule fires on
// the next sweep.
type TransitionDTO struct {
	Category       string `gorm:"primaryKey;size:64"`
	FromState      string `gorm:"primaryKey;size:64"`
	ToState        string `gorm:"primaryKey;size:64"`
	Permission     string `gorm:"size:64"`
	Automatic      bool
	ExpiresAfterNs int64
	Notify         bool
	Active         bool
}

// TableName specifies the database table name for transition rules.
func (TransitionDTO) TableName() string {
	return "workflow_transitions"
}

// StateMappingDTO represents one cross-category aggregation mapping. The
// ID is assigned by the catalog in insertion order and persisted as-is so
// the aggregation tie-break stays stable across restarts.
type StateMappingDTO struct {
	ID           int64  `gorm:"primaryKey"`
	FromCategory string `gorm:"size:64;uniqueIndex:idx_workflow_state_mappings_origin"`
	FromState    string `gorm:"size:64;uniqueIndex:idx_workflow_state_mappings_origin"`
	ToCategory   string `gorm:"size:64"`
	ToState      string `gorm:"size:64"`
	Priority     int
	Active       bool
}

// TableName specifies the database table name for state mappings.
func (StateMappingDTO) TableName() string {
	return "workflow_state_mappings"
}

func stateFromDomain(def workflow.StateDefinition) StateDTO {
	return StateDTO{
		Category:         def.Category().String(),
		Code:             def.Code().String(),
		Name:             def.Name(),
		Color:            def.Color(),
		Icon:             def.Icon(),
		DisplayOrder:     def.Order(),
		IsFinal:          def.IsFinal(),
		AllowsEdit:       def.AllowsEdit(),
		RequiresApproval: def.RequiresApproval(),
	}
}

func stateToDomain(dto StateDTO) (workflow.StateDefinition, error) {
	return workflow.NewStateDefinition(
		workflow.Category(dto.Category),
		workflow.StateCode(dto.Code),
		workflow.StateAttributes{
			Name:             dto.Name,
			Color:            dto.Color,
			Icon:             dto.Icon,
			Order:            dto.DisplayOrder,
			IsFinal:          dto.IsFinal,
			AllowsEdit:       dto.AllowsEdit,
			RequiresApproval: dto.RequiresApproval,
		},
	)
}

func transitionFromDomain(t workflow.Transition) TransitionDTO {
	return TransitionDTO{
		Category:       t.Category().String(),
		FromState:      t.From().String(),
		ToState:        t.To().String(),
		Permission:     t.Permission(),
		Automatic:      t.Automatic(),
		ExpiresAfterNs: int64(t.ExpiresAfter()),
		Notify:         t.Notify(),
		Active:         t.Active(),
	}
}

func transitionToDomain(dto TransitionDTO) (workflow.Transition, error) {
	return workflow.NewTransition(
		workflow.Category(dto.Category),
		workflow.StateCode(dto.FromState),
		workflow.StateCode(dto.ToState),
		workflow.TransitionAttributes{
			Permission:   dto.Permission,
			Automatic:    dto.Automatic,
			ExpiresAfter: time.Duration(dto.ExpiresAfterNs),
			Notify:       dto.Notify,
			Active:       dto.Active,
		},
	)
}

func mappingFromDomain(m workflow.StateMapping) StateMappingDTO {
	return StateMappingDTO{
		ID:           m.ID(),
		FromCategory: m.FromCategory().String(),
		FromState:    m.FromState().String(),
		ToCategory:   m.ToCategory().String(),
		ToState:      m.ToState().String(),
		Priority:     m.Priority(),
		Active:       m.Active(),
	}
}

func mappingToDomain(dto StateMappingDTO) (workflow.StateMapping, error) {
	return workflow.NewStateMapping(
		dto.ID,
		workflow.Category(dto.FromCategory),
		workflow.StateCode(dto.FromState),
		workflow.Category(dto.ToCategory),
		workflow.StateCode(dto.ToState),
		dto.Priority,
		dto.Active,
	)
}
