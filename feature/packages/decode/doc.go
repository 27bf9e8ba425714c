// Package decode normalizes raw legacy records into canonical packages.
//
// Decoding is a pure function of its input: no I/O, no logging. Every field is
// coerced according to a fixed table (field name -> coercion kind). Values that
// cannot be coerced never fail the record; they produce a Warning and the
// field is either left absent or replaced by an empty value, as documented
// per kind. Schema validation decides later whether the result is usable.
package decode
