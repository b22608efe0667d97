package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stateflow/internal/core/domain/model/workflow"
	"stateflow/internal/core/domain/services"
	"stateflow/internal/pkg/errs"
	"stateflow/internal/pkg/metrics"
)

// RetireEntityStateCommandHandler removes an entity's state record from
// aggregation without deleting it. When the record is linked to a
// composite, the composite is re-aggregated from the sub-entities that
// remain active in the same transaction, so a retired problem run
// stops holding its order back immediately. Retiring an already
// retired record is a no-op.
type RetireEntityStateCommandHandler struct {
	catalog    *workflow.Catalog
	uowFactory StateUoWFactory
	aggregator *services.Aggregator
	collector  metrics.Collector
}

// NewRetireEntityStateCommandHandler creates a handler for retiring
// state records. A nil collector falls back to metrics.NopCollector.
func NewRetireEntityStateCommandHandler(
	catalog *workflow.Catalog,
	uowFactory StateUoWFactory,
	aggregator *services.Aggregator,
	collector metrics.Collector,
) RetireEntityStateCommandHandler {
	if collector == nil {
		collector = metrics.NopCollector{}
	}
	return RetireEntityStateCommandHandler{
		catalog:    catalog,
		uowFactory: uowFactory,
		aggregator: aggregator,
		collector:  collector,
	}
}

// Handle retires the record named by the command. Conflicting writes
// are retried with a fresh read up to maxTransitionRetries times.
func (h RetireEntityStateCommandHandler) Handle(ctx context.Context, cmd RetireEntityStateCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	var err error
	for attempt := 0; attempt < maxTransitionRetries; attempt++ {
		err = h.tryRetire(ctx, cmd)
		if !errors.Is(err, workflow.ErrConcurrentModification) {
			break
		}
	}

	return err
}

// tryRetire runs one attempt inside a fresh unit of work.
func (h RetireEntityStateCommandHandler) tryRetire(ctx context.Context, cmd RetireEntityStateCommand) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	states := uow.EntityStateRepository()

	current, err := states.Get(ctx, cmd.Ref(), cmd.Category())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return fmt.Errorf(
			"%w: %s has no state in category %s",
			workflow.ErrNoCurrentState, cmd.Ref(), cmd.Category(),
		)
	}
	if err != nil {
		return err
	}

	if !current.IsActive() {
		return nil
	}

	current.Deactivate()
	if err = states.Update(ctx, current); err != nil {
		return err
	}

	var compositeMove *appliedMove
	if owner := current.Owner(); owner != nil && h.catalog.HasMappingsFrom(cmd.Category()) {
		compositeMove, err = reaggregateOwner(ctx, uow, h.catalog, h.aggregator, *owner, time.Now())
		if err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if compositeMove != nil {
		h.collector.TransitionApplied(compositeMove.category.String(), compositeMove.automatic)
	}

	return nil
}
