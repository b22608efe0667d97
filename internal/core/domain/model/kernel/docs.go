// Package kernel provides core domain primitives shared across the
// workflow engine's domain model.
//
// The package includes:
//   - UUID: a value object for entity identifiers with validation and
//     comparison capabilities
//
// These primitives are immutable and thread-safe, and enforce their
// invariants through constructor functions rather than raw struct
// initialization.
package kernel
