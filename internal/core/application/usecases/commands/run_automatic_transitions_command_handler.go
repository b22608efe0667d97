package commands

import (
	"context"
	"log/slog"
	"time"

	"stateflow/internal/core/domain/model/entitystate"
	"stateflow/internal/core/domain/model/workflow"
	"stateflow/internal/pkg/metrics"
)

// expiryReason is the note written on history rows of scheduler-applied
// transitions.
const expiryReason = "automatic expiry"

// RunAutomaticTransitionsCommandHandler sweeps entities whose current
// state has an active automatic outgoing rule and whose time in that
// state exceeds the rule's expiry, applying each due transition through
// the normal executor with the system actor.
//
// The sweep is idempotent and failure-tolerant: one entity failing
// (e.g. on a transient lock conflict) is logged and left for the next
// sweep, and never blocks the remaining entities.
type RunAutomaticTransitionsCommandHandler struct {
	catalog      *workflow.Catalog
	uowFactory   StateUoWFactory
	applyHandler ApplyTransitionCommandHandler
	collector    metrics.Collector
	logger       *slog.Logger
}

// NewRunAutomaticTransitionsCommandHandler creates the sweep handler.
// A nil collector falls back to metrics.NopCollector.
func NewRunAutomaticTransitionsCommandHandler(
	catalog *workflow.Catalog,
	uowFactory StateUoWFactory,
	applyHandler ApplyTransitionCommandHandler,
	collector metrics.Collector,
	logger *slog.Logger,
) RunAutomaticTransitionsCommandHandler {
	if collector == nil {
		collector = metrics.NopCollector{}
	}
	return RunAutomaticTransitionsCommandHandler{
		catalog:      catalog,
		uowFactory:   uowFactory,
		applyHandler: applyHandler,
		collector:    collector,
		logger:       logger.With("component", "automatic_transition_sweep"),
	}
}

// Handle runs one sweep. It returns an error only when the command
// itself is invalid; per-rule and per-entity failures are logged and
// retried on the next sweep.
func (h RunAutomaticTransitionsCommandHandler) Handle(
	ctx context.Context,
	cmd RunAutomaticTransitionsCommand,
) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	applied, failed := 0, 0
	for _, rule := range h.catalog.AutomaticRules() {
		due, err := h.listDue(ctx, rule)
		if err != nil {
			h.logger.ErrorContext(ctx, "Failed to list entities due for automatic transition",
				"category", rule.Category().String(),
				"from", rule.From().String(),
				"error", err)
			continue
		}

		for _, state := range due {
			if err = h.applyOne(ctx, rule, state); err != nil {
				failed++
				h.logger.WarnContext(ctx, "Automatic transition failed, will retry on next sweep",
					"entity", state.Ref().String(),
					"category", rule.Category().String(),
					"target", rule.To().String(),
					"error", err)
				continue
			}
			applied++
		}
	}

	h.collector.SweepCompleted(applied, failed)
	return nil
}

// listDue retrieves the entities sitting in the rule's origin state for
// longer than its expiry. The read runs in its own short transaction;
// each due entity is then applied independently.
func (h RunAutomaticTransitionsCommandHandler) listDue(
	ctx context.Context,
	rule workflow.Transition,
) ([]*entitystate.EntityState, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	cutoff := time.Now().Add(-rule.ExpiresAfter())
	return uow.EntityStateRepository().ListInStateBefore(ctx, rule.Category(), rule.From(), cutoff)
}

func (h RunAutomaticTransitionsCommandHandler) applyOne(
	ctx context.Context,
	rule workflow.Transition,
	state *entitystate.EntityState,
) error {
	cmd, err := NewApplyTransitionCommand(
		state.Ref(), rule.Category(), rule.To(), workflow.SystemActor(), expiryReason,
	)
	if err != nil {
		return err
	}

	_, err = h.applyHandler.Handle(ctx, cmd)
	return err
}
