// Package primitives provides the foundational, zero-dependency data
// structures for the markup scoping runtime.
//
// This package uses ONLY the Go standard library. The folded map keeps
// case-insensitive lookup, original key spelling, and insertion order, which
// the execution context relies on for duplicate detection and deterministic
// re-emission of markup.
package primitives
