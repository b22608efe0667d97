package queries

import (
	"context"
	"database/sql"
	"errors"

	"stateflow/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetCurrentStateQueryHandler retrieves an entity's current state
// directly from the database. Uses direct SQL for optimal read
// performance in the CQRS pattern.
type GetCurrentStateQueryHandler struct {
	db *gorm.DB
}

// NewGetCurrentStateQueryHandler creates a handler for current-state
// queries. Requires a GORM database connection for query execution.
func NewGetCurrentStateQueryHandler(db *gorm.DB) GetCurrentStateQueryHandler {
	return GetCurrentStateQueryHandler{db: db}
}

// Handle executes the query. Returns errs.ErrObjectNotFound when the
// entity was never initialized in the category.
func (h GetCurrentStateQueryHandler) Handle(
	ctx context.Context,
	query GetCurrentStateQuery,
) (GetCurrentStateQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetCurrentStateQueryResponse{}, err
	}

	var response GetCurrentStateQueryResponse
	row := h.db.WithContext(ctx).Raw(`
		SELECT
			state,
			entered_at,
			active
		FROM entity_states
		WHERE entity_type = ? AND entity_id = ? AND category = ?
	`, query.Ref().EntityType(), query.Ref().ID().Bytes(), query.Category().String()).Row()

	err := row.Scan(&response.State, &response.EnteredAt, &response.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return GetCurrentStateQueryResponse{}, errs.NewObjectNotFoundError("entity state", query.Ref().String())
	}
	if err != nil {
		return GetCurrentStateQueryResponse{}, err
	}

	return response, nil
}
