package queries

import (
	"context"
	"database/sql"

	"stateflow/internal/core/domain/model/workflow"

	"gorm.io/gorm"
)

// GetHistoryQueryHandler retrieves an entity's transition trail from
// the database. Uses direct SQL for optimal read performance in the
// CQRS pattern.
type GetHistoryQueryHandler struct {
	db *gorm.DB
}

// NewGetHistoryQueryHandler creates a handler for transition trail
// queries. Requires a GORM database connection for query execution.
func NewGetHistoryQueryHandler(db *gorm.DB) GetHistoryQueryHandler {
	return GetHistoryQueryHandler{db: db}
}

// Handle executes the query to retrieve the entity's trail.
// Returns rows ordered chronologically, oldest first; an entity that
// was never initialized yields an empty slice. A query without a
// category returns the trail across all categories.
func (h GetHistoryQueryHandler) Handle(
	ctx context.Context,
	query GetHistoryQuery,
) ([]GetHistoryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	records := make([]GetHistoryQueryResponse, 0)

	sqlQuery := `
		SELECT
			sequence,
			category,
			previous_state,
			new_state,
			actor,
			automatic,
			reason,
			occurred_at
		FROM state_history
		WHERE entity_type = ? AND entity_id = ?`
	args := []any{query.Ref().EntityType(), query.Ref().ID().Bytes()}
	if query.Category() != "" {
		sqlQuery += ` AND category = ?`
		args = append(args, query.Category().String())
	}
	sqlQuery += `
		ORDER BY occurred_at, sequence`

	rows, err := h.db.WithContext(ctx).Raw(sqlQuery, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var record GetHistoryQueryResponse
		var previous sql.NullString

		err = rows.Scan(
			&record.Sequence,
			&record.Category,
			&previous,
			&record.NewState,
			&record.Actor,
			&record.Automatic,
			&record.Reason,
			&record.OccurredAt,
		)
		if err != nil {
			return nil, err
		}

		if previous.Valid {
			prev := workflow.StateCode(previous.String)
			record.Previous = &prev
		}
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
