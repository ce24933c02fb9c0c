// Package jsonval provides the closed value model and canonicaliser for the
// JSON registration cache.
//
// Value is a sealed interface: only Null, Bool, Int, Float, String, Array,
// and Object implement it. Representing JSON as a closed tagged variant
// (rather than interface{} soup) makes the canonicaliser total over its
// input and lets cycle detection be explicit instead of relying on stack
// exhaustion.
//
// Canonicalise renders a Value to a deterministic byte-for-byte encoding:
//
//   - Object keys sorted by byte order, recursively
//   - No insignificant whitespace
//   - Standard JSON string escaping, no HTML escaping, non-ASCII emitted as
//     literal UTF-8 rather than \u escapes
//   - Integers as base-10 digits, floats in encoding/json's format
//
// Two values are the same registered entity if and only if their canonical
// encodings are byte-identical. Array element order is significant and
// preserved; object key order is not.
package jsonval
