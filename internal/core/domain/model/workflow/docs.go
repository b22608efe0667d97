// Package workflow provides the configuration model of the document
// lifecycle engine: state definitions, transition rules, cross-category
// state mappings, and the catalog that holds them.
//
// The package includes:
//   - StateDefinition: a state's display and behavioral attributes within
//     a category
//   - Transition: an allowed move between two states of a category,
//     optionally gated by a permission or fired automatically
//   - StateMapping: the projection of one category's states onto a
//     coarser category, with a priority for multi-source aggregation
//   - Catalog: the validated, read-mostly registry of all of the above
//   - Actor: the identity and permission set on whose behalf a
//     transition is applied
//
// Key business rules:
//   - Transition endpoints must be registered states of the same category
//   - A final state never has outgoing transitions
//   - Automatic transitions must not carry a required permission
//   - For a fixed origin category each origin state maps to exactly one
//     destination state
//
// States, transitions and mappings are value objects created through
// constructors that enforce these invariants; the Catalog performs the
// cross-object checks and is safe for concurrent readers.
package workflow
