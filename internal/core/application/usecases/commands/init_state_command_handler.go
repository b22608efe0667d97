package commands

import (
	"context"
	"fmt"
	"time"

	"stateflow/internal/core/domain/model/entitystate"
	"stateflow/internal/core/domain/model/history"
	"stateflow/internal/core/domain/model/workflow"
	"stateflow/internal/core/domain/services"
	"stateflow/internal/pkg/metrics"
)

// InitStateCommandHandler starts tracking an entity in a category.
// The initial state must be registered in the catalog; the operation
// writes the entity's state record and its first history row (previous
// state nil) in one transaction. An owner-linked entity whose initial
// state contributes an aggregation candidate re-aggregates the
// composite in the same transaction.
type InitStateCommandHandler struct {
	catalog    *workflow.Catalog
	uowFactory StateUoWFactory
	aggregator *services.Aggregator
	collector  metrics.Collector
}

// NewInitStateCommandHandler creates a handler for state initialization.
// A nil collector falls back to metrics.NopCollector.
func NewInitStateCommandHandler(
	catalog *workflow.Catalog,
	uowFactory StateUoWFactory,
	aggregator *services.Aggregator,
	collector metrics.Collector,
) InitStateCommandHandler {
	if collector == nil {
		collector = metrics.NopCollector{}
	}
	return InitStateCommandHandler{
		catalog:    catalog,
		uowFactory: uowFactory,
		aggregator: aggregator,
		collector:  collector,
	}
}

// Handle initializes the entity's state and returns the initial history
// record. Fails with workflow.ErrUnknownState when the initial state is
// not registered for the category.
func (h InitStateCommandHandler) Handle(ctx context.Context, cmd InitStateCommand) (history.Record, error) {
	if err := cmd.Validate(); err != nil {
		return history.Record{}, err
	}

	if _, ok := h.catalog.State(cmd.Category(), cmd.Initial()); !ok {
		return history.Record{}, fmt.Errorf(
			"%w: %s/%s", workflow.ErrUnknownState, cmd.Category(), cmd.Initial(),
		)
	}

	now := time.Now()
	state, err := entitystate.NewEntityState(cmd.Ref(), cmd.Category(), cmd.Initial(), now, cmd.Owner())
	if err != nil {
		return history.Record{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return history.Record{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.EntityStateRepository().Add(ctx, state); err != nil {
		return history.Record{}, err
	}

	record, err := history.NewRecord(
		cmd.Ref(), cmd.Category(), nil, cmd.Initial(), cmd.Actor().ID(), false, "", now,
	)
	if err != nil {
		return history.Record{}, err
	}

	record, err = uow.HistoryRepository().Append(ctx, record)
	if err != nil {
		return history.Record{}, err
	}

	var compositeMove *appliedMove
	if owner := cmd.Owner(); owner != nil && h.catalog.HasMappingsFrom(cmd.Category()) {
		compositeMove, err = reaggregateOwner(ctx, uow, h.catalog, h.aggregator, *owner, now)
		if err != nil {
			return history.Record{}, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return history.Record{}, err
	}

	if compositeMove != nil {
		h.collector.TransitionApplied(compositeMove.category.String(), compositeMove.automatic)
	}

	return record, nil
}
