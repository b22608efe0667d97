package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stateflow/internal/core/domain/model/entitystate"
	"stateflow/internal/core/domain/model/history"
	"stateflow/internal/core/domain/model/workflow"
	"stateflow/internal/core/domain/services"
	"stateflow/internal/pkg/errs"
	"stateflow/internal/pkg/metrics"
)

// maxTransitionRetries bounds how often a conflicting transition is
// retried with a fresh read before ErrConcurrentModification surfaces
// to the caller.
const maxTransitionRetries = 3

// aggregationReason is the note written on history rows of
// aggregation-driven composite moves.
const aggregationReason = "derived from sub-entity states"

// ApplyTransitionCommandHandler is the transition executor: it
// validates a requested state change against the catalog, applies it
// under an optimistic version check, writes exactly one history row,
// and synchronously re-aggregates the owning composite when the changed
// category is an aggregation source.
//
// Either everything commits (the state change, its ledger row and any
// composite move) or nothing does.
//
// Example:
//
//	handler := NewApplyTransitionCommandHandler(catalog, uowFactory, aggregator, collector)
//	record, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, workflow.ErrTransitionNotAllowed):
//	    // surface "not allowed" to the user
//	case errors.Is(err, workflow.ErrForbidden):
//	    // surface "permission denied"
//	case err != nil:
//	    return err
//	default:
//	    log.Printf("moved to %s at %s", record.NewState(), record.OccurredAt())
//	}
type ApplyTransitionCommandHandler struct {
	catalog    *workflow.Catalog
	uowFactory StateUoWFactory
	aggregator *services.Aggregator
	collector  metrics.Collector
}

// NewApplyTransitionCommandHandler creates the transition executor.
// A nil collector falls back to metrics.NopCollector.
func NewApplyTransitionCommandHandler(
	catalog *workflow.Catalog,
	uowFactory StateUoWFactory,
	aggregator *services.Aggregator,
	collector metrics.Collector,
) ApplyTransitionCommandHandler {
	if collector == nil {
		collector = metrics.NopCollector{}
	}
	return ApplyTransitionCommandHandler{
		catalog:    catalog,
		uowFactory: uowFactory,
		aggregator: aggregator,
		collector:  collector,
	}
}

// appliedMove carries the metric labels of a transition that committed.
type appliedMove struct {
	category  workflow.Category
	automatic bool
}

// Handle applies one transition. Conflicting writes are retried with a
// fresh read up to maxTransitionRetries times; every other error
// surfaces immediately. Returns the history record of the entity's own
// move (not of any aggregation-driven composite move).
func (h ApplyTransitionCommandHandler) Handle(
	ctx context.Context,
	cmd ApplyTransitionCommand,
) (history.Record, error) {
	if err := cmd.Validate(); err != nil {
		return history.Record{}, err
	}

	var record history.Record
	var err error
	for attempt := 0; attempt < maxTransitionRetries; attempt++ {
		record, err = h.tryApply(ctx, cmd)
		if !errors.Is(err, workflow.ErrConcurrentModification) {
			break
		}
	}

	if err != nil {
		h.collector.TransitionRejected(cmd.Category().String(), rejectionReason(err))
		return history.Record{}, err
	}

	return record, nil
}

// tryApply runs one attempt inside a fresh unit of work.
func (h ApplyTransitionCommandHandler) tryApply(
	ctx context.Context,
	cmd ApplyTransitionCommand,
) (history.Record, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return history.Record{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	states := uow.EntityStateRepository()

	current, err := states.Get(ctx, cmd.Ref(), cmd.Category())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return history.Record{}, fmt.Errorf(
			"%w: %s has no state in category %s",
			workflow.ErrNoCurrentState, cmd.Ref(), cmd.Category(),
		)
	}
	if err != nil {
		return history.Record{}, err
	}

	rule, err := h.checkRule(cmd.Category(), current.State(), cmd.Target(), cmd.Actor())
	if err != nil {
		return history.Record{}, err
	}

	now := time.Now()
	record, err := moveState(ctx, uow, current, cmd.Target(), cmd.Actor().ID(), rule.Automatic(), cmd.Reason(), now)
	if err != nil {
		return history.Record{}, err
	}
	applied := []appliedMove{{category: cmd.Category(), automatic: rule.Automatic()}}

	if owner := current.Owner(); owner != nil && h.catalog.HasMappingsFrom(cmd.Category()) {
		var compositeMove *appliedMove
		compositeMove, err = reaggregateOwner(ctx, uow, h.catalog, h.aggregator, *owner, now)
		if err != nil {
			return history.Record{}, err
		}
		if compositeMove != nil {
			applied = append(applied, *compositeMove)
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return history.Record{}, err
	}

	for _, move := range applied {
		h.collector.TransitionApplied(move.category.String(), move.automatic)
	}

	return record, nil
}

// checkRule validates the requested move against the catalog and the
// actor's permissions.
func (h ApplyTransitionCommandHandler) checkRule(
	category workflow.Category,
	from, to workflow.StateCode,
	actor workflow.Actor,
) (workflow.Transition, error) {
	def, ok := h.catalog.State(category, from)
	if !ok || def.IsFinal() {
		return workflow.Transition{}, fmt.Errorf(
			"%w: %s is terminal or unregistered in %s",
			workflow.ErrTransitionNotAllowed, from, category,
		)
	}

	rule, ok := h.catalog.Rule(category, from, to)
	if !ok || !rule.Active() {
		return workflow.Transition{}, fmt.Errorf(
			"%w: no active rule %s->%s in %s",
			workflow.ErrTransitionNotAllowed, from, to, category,
		)
	}

	if rule.Automatic() {
		// Only the scheduler's system actor may fire automatic rules.
		if !actor.IsSystem() {
			return workflow.Transition{}, fmt.Errorf(
				"%w: %s->%s in %s is automatic and cannot be applied interactively",
				workflow.ErrForbidden, from, to, category,
			)
		}
		return rule, nil
	}

	if rule.Permission() != "" && !actor.HasPermission(rule.Permission()) {
		return workflow.Transition{}, fmt.Errorf(
			"%w: %s->%s in %s requires permission %q",
			workflow.ErrForbidden, from, to, category, rule.Permission(),
		)
	}

	return rule, nil
}

// moveState updates one entity's state and appends its ledger row
// within the given unit of work.
func moveState(
	ctx context.Context,
	uow StateUoW,
	state *entitystate.EntityState,
	target workflow.StateCode,
	actorID string,
	automatic bool,
	reason string,
	now time.Time,
) (history.Record, error) {
	previous := state.State()
	if err := state.ChangeState(target, now); err != nil {
		return history.Record{}, err
	}

	if err := uow.EntityStateRepository().Update(ctx, state); err != nil {
		return history.Record{}, err
	}

	record, err := history.NewRecord(
		state.Ref(), state.Category(), &previous, target, actorID, automatic, reason, now,
	)
	if err != nil {
		return history.Record{}, err
	}

	return uow.HistoryRepository().Append(ctx, record)
}

// reaggregateOwner recomputes the owning composite's state from its
// active sub-entities and, when it changed, drives the move through
// the composite category's own transition rules. A destination the
// composite cannot reach from its current state surfaces as
// ErrAggregationTransitionBlocked and aborts the whole operation.
// Aggregation is single level: the composite's own owner link, if
// any, is not followed.
func reaggregateOwner(
	ctx context.Context,
	uow StateUoW,
	catalog *workflow.Catalog,
	aggregator *services.Aggregator,
	owner entitystate.Owner,
	now time.Time,
) (*appliedMove, error) {
	states := uow.EntityStateRepository()

	subs, err := states.ListActiveByOwner(ctx, owner.Ref())
	if err != nil {
		return nil, err
	}

	target, ok := aggregator.Resolve(owner.Category(), subs)
	if !ok {
		return nil, nil
	}

	composite, err := states.Get(ctx, owner.Ref(), owner.Category())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, fmt.Errorf(
			"%w: composite %s has no state in category %s",
			workflow.ErrNoCurrentState, owner.Ref(), owner.Category(),
		)
	}
	if err != nil {
		return nil, err
	}

	if composite.State() == target {
		return nil, nil
	}

	if !catalog.IsAllowed(owner.Category(), composite.State(), target) {
		return nil, fmt.Errorf(
			"%w: %s cannot move %s->%s in %s",
			workflow.ErrAggregationTransitionBlocked,
			owner.Ref(), composite.State(), target, owner.Category(),
		)
	}

	if _, err = moveState(ctx, uow, composite, target, workflow.SystemActorID, false, aggregationReason, now); err != nil {
		return nil, err
	}

	return &appliedMove{category: owner.Category()}, nil
}

// rejectionReason maps a runtime error to its metric label.
func rejectionReason(err error) string {
	for _, sentinel := range []error{
		workflow.ErrNoCurrentState,
		workflow.ErrTransitionNotAllowed,
		workflow.ErrForbidden,
		workflow.ErrConcurrentModification,
		workflow.ErrAggregationTransitionBlocked,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return "internal"
}
