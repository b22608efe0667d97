package entitystaterepo

import (
	"context"
	"errors"
	"time"

	"stateflow/internal/core/domain/model/entitystate"
	"stateflow/internal/core/domain/model/kernel"
	"stateflow/internal/core/domain/model/workflow"
	"stateflow/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormEntityStateRepository implements EntityStateRepository using GORM.
type GormEntityStateRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormEntityStateRepository creates a new GORM entity state repository.
func NewGormEntityStateRepository(db *gorm.DB, tracker aggregateTracker) *GormEntityStateRepository {
	return &GormEntityStateRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a newly initialized entity state to the database.
func (r *GormEntityStateRepository) Add(ctx context.Context, aggregate *entitystate.EntityState) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.Ref().ID(), aggregate)
	return nil
}

// Update saves a state change with an optimistic version check. The write
// succeeds only when the stored version still equals the version the
// aggregate was read at, and advances it by one atomically. A map is used
// instead of a DTO struct: struct-based Updates skips zero-valued fields,
// which would never write active=false.
func (r *GormEntityStateRepository) Update(ctx context.Context, aggregate *entitystate.EntityState) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&EntityStateDTO{}).
		Where(
			"entity_type = ? AND entity_id = ? AND category = ? AND version = ?",
			dto.EntityType, dto.EntityID, dto.Category, dto.Version,
		).
		Updates(map[string]any{
			"state":      dto.State,
			"entered_at": dto.EnteredAt,
			"active":     dto.Active,
			"version":    dto.Version + 1,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return workflow.ErrConcurrentModification
	}

	r.tracker.TrackAggregate(aggregate.Ref().ID(), aggregate)
	return nil
}

// Get retrieves an entity's current state record for a category.
func (r *GormEntityStateRepository) Get(
	ctx context.Context,
	ref entitystate.Ref,
	category workflow.Category,
) (*entitystate.EntityState, error) {
	if err := errors.Join(ref.Validate(), category.Validate()); err != nil {
		return nil, err
	}

	var dto EntityStateDTO
	err := r.db.WithContext(ctx).First(
		&dto,
		"entity_type = ? AND entity_id = ? AND category = ?",
		ref.EntityType(), ref.ID().Bytes(), category.String(),
	).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("entity state", ref.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// ListActiveByOwner retrieves the active state records of every sub-entity
// linked to the given composite.
func (r *GormEntityStateRepository) ListActiveByOwner(
	ctx context.Context,
	owner entitystate.Ref,
) ([]*entitystate.EntityState, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}

	var dtos []EntityStateDTO
	err := r.db.WithContext(ctx).Find(
		&dtos,
		"owner_type = ? AND owner_id = ? AND active",
		owner.EntityType(), owner.ID().Bytes(),
	).Error
	if err != nil {
		return nil, err
	}

	states := make([]*entitystate.EntityState, 0, len(dtos))
	for _, dto := range dtos {
		s, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		states = append(states, s)
	}

	return states, nil
}

// ListInStateBefore retrieves active records sitting in the given state
// since before the cutoff, longest-waiting first.
func (r *GormEntityStateRepository) ListInStateBefore(
	ctx context.Context,
	category workflow.Category,
	state workflow.StateCode,
	cutoff time.Time,
) ([]*entitystate.EntityState, error) {
	if err := errors.Join(category.Validate(), state.Validate()); err != nil {
		return nil, err
	}

	var dtos []EntityStateDTO
	err := r.db.WithContext(ctx).
		Where(
			"category = ? AND state = ? AND active AND entered_at <= ?",
			category.String(), state.String(), cutoff,
		).
		Order("entered_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	states := make([]*entitystate.EntityState, 0, len(dtos))
	for _, dto := range dtos {
		s, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		states = append(states, s)
	}

	return states, nil
}
