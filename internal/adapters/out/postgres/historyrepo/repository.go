package historyrepo

import (
	"context"

	"stateflow/internal/core/domain/model/history"

	"gorm.io/gorm"
)

// GormHistoryRepository implements HistoryRepository using GORM.
type GormHistoryRepository struct {
	db *gorm.DB
}

// NewGormHistoryRepository creates a new GORM history repository.
func NewGormHistoryRepository(db *gorm.DB) *GormHistoryRepository {
	return &GormHistoryRepository{db: db}
}

// Append stores a record and returns it with the database-assigned
// sequence number.
func (r *GormHistoryRepository) Append(ctx context.Context, record history.Record) (history.Record, error) {
	if err := record.Validate(); err != nil {
		return history.Record{}, err
	}

	dto := fromDomain(record)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return history.Record{}, err
	}

	return toDomain(dto)
}
