package source

import (
	"errors"
	"fmt"
)

// Error is a fatal source failure: the medium could not be opened, read or
// fully streamed. It aborts the run.
type Error struct {
	// Loader is the name of the failing loader.
	Loader string
	// Op describes the failed step, e.g. "open", "bind", "search", "read".
	Op string
	// Err is the underlying cause.
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s source: %s: %v", e.Loader, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsSourceError reports whether err is or wraps a *Error.
func IsSourceError(err error) bool {
	var se *Error
	return errors.As(err, &se)
}
