package services

import (
	"stateflow/internal/core/domain/model/entitystate"
	"stateflow/internal/core/domain/model/workflow"
)

// AggregationPolicy selects the winning mapping among the candidate
// projections of a composite's active sub-entities. It exists as an
// interface so operators of the hosting application can swap the
// combination rule without touching the executor.
type AggregationPolicy interface {
	// Select returns the winning mapping, or false when candidates is
	// empty. Implementations must be deterministic: the same candidate
	// set yields the same winner regardless of slice order.
	Select(candidates []workflow.StateMapping) (workflow.StateMapping, bool)
}

// HighestPriorityPolicy is the default combination rule: the mapping
// with the highest Priority wins, so "bad news" on one delivery run can
// dominate "good news" on another purely as data-driven policy. Ties
// break on the lowest mapping ID, i.e. insertion order.
type HighestPriorityPolicy struct{}

// Select implements AggregationPolicy.
func (HighestPriorityPolicy) Select(candidates []workflow.StateMapping) (workflow.StateMapping, bool) {
	if len(candidates) == 0 {
		return workflow.StateMapping{}, false
	}

	winner := candidates[0]
	for _, m := range candidates[1:] {
		if m.Priority() > winner.Priority() ||
			(m.Priority() == winner.Priority() && m.ID() < winner.ID()) {
			winner = m
		}
	}

	return winner, true
}

// Aggregator derives a composite entity's candidate state from the
// current states of the sub-entities fulfilling it. It is a stateless
// domain service: collecting the sub-entity records and applying the
// resulting transition are the executor's job.
type Aggregator struct {
	catalog *workflow.Catalog
	policy  AggregationPolicy
}

// NewAggregator creates an aggregator over the given catalog. A nil
// policy falls back to HighestPriorityPolicy.
func NewAggregator(catalog *workflow.Catalog, policy AggregationPolicy) *Aggregator {
	if policy == nil {
		policy = HighestPriorityPolicy{}
	}
	return &Aggregator{
		catalog: catalog,
		policy:  policy,
	}
}

// Resolve maps every active sub-entity state into the owner's category
// and lets the policy pick the winner. The second result is false when
// no active sub-entity contributes a mapping, in which case the
// composite keeps its current state.
func (a *Aggregator) Resolve(
	ownerCategory workflow.Category,
	subs []*entitystate.EntityState,
) (workflow.StateCode, bool) {
	candidates := make([]workflow.StateMapping, 0, len(subs))
	for _, sub := range subs {
		if !sub.IsActive() {
			continue
		}
		m, ok := a.catalog.MappingFor(sub.Category(), sub.State())
		if !ok || m.ToCategory() != ownerCategory {
			continue
		}
		candidates = append(candidates, m)
	}

	winner, ok := a.policy.Select(candidates)
	if !ok {
		return "", false
	}
	return winner.ToState(), true
}
