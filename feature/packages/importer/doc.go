// Package importer runs one package migration: it streams a source through
// the decoder into the reconciliation engine, writes to the package store and
// produces the run summary and report.
//
// The loader and the engine are connected by channels and supervised by an
// errgroup, so a fatal source error cancels the run while writes already in
// flight finish.
package importer
