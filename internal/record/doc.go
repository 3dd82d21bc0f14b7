// Package record turns a declarative, ordered field list into a
// composite immutable record type: a structurally-equal, hashable
// tuple value that is simultaneously the binary codec for its own
// instances.
//
// A Type is compiled exactly once, at definition time. Compilation
// validates the field declarations, builds the composite codec,
// allocates collision-free internal storage slots against the full
// ancestry namespace, and generates one read-only accessor per field.
// A type either declares its own field list or inherits the list and
// codec of exactly one field-bearing ancestor; inheriting from two or
// more is a schema error.
//
// Instances are immutable after construction and safe to share across
// goroutines. Structural equality requires the exact same type and
// equal ordered field-value tuples; the structural hash over that
// tuple is memoized lazily and is never part of any persisted
// representation.
//
// The codec facade lives on the Type, not on instances: serialize,
// deserialize, segment deserialize, raw byte consumption, and tree-root
// computation all route through the composite codec built at
// compilation. Malformed wire data surfaces as codec errors from
// internal/sedes, propagated unchanged.
package record
