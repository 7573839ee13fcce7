package docbrowse

import "errors"

// Standard errors surfaced by the editor sync registry.
var (
	// ErrCancelled means the user declined a prompt. The in-flight
	// operation is aborted with no further side effects.
	ErrCancelled = errors.New("docbrowse: operation cancelled")

	// ErrEntityNotFound means a persisted binding's entity could not
	// be re-resolved, e.g. it was deleted or permissions changed.
	ErrEntityNotFound = errors.New("docbrowse: entity could not be resolved")

	// ErrMalformedInput means buffer content failed to parse before
	// upload. The buffer stays dirty so the user can correct it.
	ErrMalformedInput = errors.New("docbrowse: buffer content is not valid JSON")

	// ErrNotBound means no binding exists for the buffer path.
	ErrNotBound = errors.New("docbrowse: buffer not bound to an entity")
)
