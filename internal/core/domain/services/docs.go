// Package services provides domain services that orchestrate business
// logic spanning multiple aggregates of the workflow engine.
//
// The package includes:
//   - Aggregator: derives a composite entity's state from the states of
//     the sub-entities that fulfill it, via configured mappings
//   - AggregationPolicy: the pluggable combination rule applied when
//     several active sub-entities compete, with HighestPriorityPolicy
//     as the default
//
// Domain services hold no state of their own; they coordinate between
// aggregates following Domain-Driven Design principles.
package services
