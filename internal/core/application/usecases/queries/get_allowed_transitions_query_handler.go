package queries

import (
	"context"

	"stateflow/internal/core/domain/model/workflow"
)

// GetAllowedTransitionsQueryHandler lists the manual transitions an
// actor may trigger from one state. Reads the in-memory catalog, not
// the database: the rule set is configuration, already resident and
// current after every import.
type GetAllowedTransitionsQueryHandler struct {
	catalog *workflow.Catalog
}

// NewGetAllowedTransitionsQueryHandler creates a handler for
// allowed-transition queries.
func NewGetAllowedTransitionsQueryHandler(catalog *workflow.Catalog) GetAllowedTransitionsQueryHandler {
	return GetAllowedTransitionsQueryHandler{catalog: catalog}
}

// Handle executes the query. Automatic rules are excluded, final
// states yield an empty slice, and states whose rules require a
// permission the actor lacks are filtered out. Results are ordered by
// the destination state's display order.
func (h GetAllowedTransitionsQueryHandler) Handle(
	_ context.Context,
	query GetAllowedTransitionsQuery,
) ([]GetAllowedTransitionsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	targets := h.catalog.AllowedTargets(query.Category(), query.From(), query.Actor())

	responses := make([]GetAllowedTransitionsQueryResponse, 0, len(targets))
	for _, target := range targets {
		response := GetAllowedTransitionsQueryResponse{State: target}
		if def, ok := h.catalog.State(query.Category(), target); ok {
			response.Name = def.Name()
			response.Color = def.Color()
			response.Icon = def.Icon()
			response.IsFinal = def.IsFinal()
		}
		responses = append(responses, response)
	}

	return responses, nil
}
