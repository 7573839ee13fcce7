package workspace

import (
	"context"
	"errors"
)

// Standard workspace errors.
var (
	ErrNoBuffer = errors.New("workspace: no buffer for path")
)

// SaveHandler is invoked after a buffer has been saved successfully.
// Hosts wire this into the registry's save-triggered upload.
type SaveHandler func(ctx context.Context, path string) error

// Workspace owns the locally editable buffers that mirror remote
// entities. A buffer has text content and a dirty flag; Save persists
// the content, clears the flag and fires the registered save handler.
type Workspace interface {
	// Ensure makes sure an editable buffer exists for path, creating
	// an empty one if absent.
	Ensure(ctx context.Context, path string) error

	// Show brings the buffer for path into the editor view.
	Show(ctx context.Context, path string) error

	// IsDirty reports whether the buffer has unsaved changes.
	IsDirty(path string) bool

	// ReadText returns the buffer's current content.
	ReadText(path string) (string, error)

	// WriteText replaces the buffer's content and marks it dirty.
	WriteText(path string, text string) error

	// Save persists the buffer's content and clears the dirty flag.
	Save(ctx context.Context, path string) error

	// OnSave registers the handler fired after each successful save.
	OnSave(handler SaveHandler)
}
