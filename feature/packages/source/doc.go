// Package source reads package definitions from legacy media.
//
// Three loaders share one contract: Load streams decoded entries into a
// channel, in medium order, and returns a *Error (SourceError) only when the
// medium itself cannot be read. A malformed individual entry is logged and
// skipped; it never aborts the load.
//
//   - JSONLinesLoader: one JSON object per line.
//   - LDIFLoader: directory interchange text, blank-line separated blocks.
//   - DirectoryLoader: a streamed subtree search against the directory service.
//
// File-based loaders accept local paths or s3://bucket/key locations.
package source
