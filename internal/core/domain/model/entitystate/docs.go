// Package entitystate provides the generic current-state record the
// engine keeps for every domain object it tracks. Instead of ad hoc
// status columns per domain type, state lives in a uniform
// (entity type, entity id, category) key space, which makes the
// transition executor and the aggregator reusable across all categories
// without per-type branching.
//
// The package includes:
//   - Ref: a value object identifying a tracked entity
//   - Owner: the link from a sub-entity to the composite it fulfills
//   - EntityState: the aggregate holding an entity's current state in
//     one category, with an optimistic-concurrency version
//
// EntityState rows are written exclusively by the transition executor;
// the Version field serializes concurrent transitions against the same
// entity and category.
package entitystate
