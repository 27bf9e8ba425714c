// Package store writes decoded packages to the relational target table.
//
// Writes are create-only unless overwrite is requested, in which case an
// upsert replaces every mutable column and leaves immutable ones (as declared
// by the schema document) untouched.
package store
