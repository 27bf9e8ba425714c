// Package models contains the data shapes used by the package migration.
//
// Three representations of a package definition exist:
//
//   - RawRecord: the untyped attribute map as it arrives from a legacy source
//     (directory entry, LDIF block or JSON line).
//   - Package: the canonical, decoded attribute map whose values carry Go types
//     (int64, float64, bool, string, []string, map[string]any, time.Time).
//   - PackageRow: the GORM model persisted in the target `packages` table.
//
// RawRecord is discarded after decode. Package lives for exactly one
// reconciliation attempt. PackageRow only exists at the store boundary.
package models
