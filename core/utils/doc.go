// Package utils provides the scalar coercion helpers used by the record decoder.
//
// The helpers never panic and never guess: every Parse* function returns an ok
// flag so callers can tell a genuine zero value from a failed conversion.
package utils
