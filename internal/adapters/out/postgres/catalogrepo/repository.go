package catalogrepo

import (
	"context"

	"stateflow/internal/core/domain/model/workflow"

	"gorm.io/gorm"
)

// GormCatalogRepository implements CatalogRepository using GORM.
type GormCatalogRepository struct {
	db *gorm.DB
}

// NewGormCatalogRepository creates a new GORM catalog repository.
func NewGormCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

// Load retrieves the full stored configuration. States come back ordered
// by category and display order, transitions and mappings in their
// primary-key order.
func (r *GormCatalogRepository) Load(ctx context.Context) (workflow.CatalogConfig, error) {
	var cfg workflow.CatalogConfig

	var stateDTOs []StateDTO
	err := r.db.WithContext(ctx).
		Order("category").
		Order("display_order").
		Find(&stateDTOs).Error
	if err != nil {
		return workflow.CatalogConfig{}, err
	}
	for _, dto := range stateDTOs {
		def, stateErr := stateToDomain(dto)
		if stateErr != nil {
			return workflow.CatalogConfig{}, stateErr
		}
		cfg.States = append(cfg.States, def)
	}

	var transitionDTOs []TransitionDTO
	if err = r.db.WithContext(ctx).Find(&transitionDTOs).Error; err != nil {
		return workflow.CatalogConfig{}, err
	}
	for _, dto := range transitionDTOs {
		t, transitionErr := transitionToDomain(dto)
		if transitionErr != nil {
			return workflow.CatalogConfig{}, transitionErr
		}
		cfg.Transitions = append(cfg.Transitions, t)
	}

	var mappingDTOs []StateMappingDTO
	if err = r.db.WithContext(ctx).Order("id").Find(&mappingDTOs).Error; err != nil {
		return workflow.CatalogConfig{}, err
	}
	for _, dto := range mappingDTOs {
		m, mappingErr := mappingToDomain(dto)
		if mappingErr != nil {
			return workflow.CatalogConfig{}, mappingErr
		}
		cfg.Mappings = append(cfg.Mappings, m)
	}

	return cfg, nil
}

// ReplaceAll atomically replaces the stored configuration. Callers run it
// inside a unit of work; the deletes and inserts share that transaction.
func (r *GormCatalogRepository) ReplaceAll(ctx context.Context, cfg workflow.CatalogConfig) error {
	db := r.db.WithContext(ctx)

	if err := db.Exec("DELETE FROM workflow_state_mappings").Error; err != nil {
		return err
	}
	if err := db.Exec("DELETE FROM workflow_transitions").Error; err != nil {
		return err
	}
	if err := db.Exec("DELETE FROM workflow_states").Error; err != nil {
		return err
	}

	for _, def := range cfg.States {
		dto := stateFromDomain(def)
		if err := db.Create(&dto).Error; err != nil {
			return err
		}
	}
	for _, t := range cfg.Transitions {
		dto := transitionFromDomain(t)
		if err := db.Create(&dto).Error; err != nil {
			return err
		}
	}
	for _, m := range cfg.Mappings {
		dto := mappingFromDomain(m)
		if err := db.Create(&dto).Error; err != nil {
			return err
		}
	}

	return nil
}
