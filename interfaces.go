package docbrowse

import "context"

// UploadChoice is the user's answer to the pre-upload confirmation.
type UploadChoice int

const (
	// UploadCancel aborts the upload.
	UploadCancel UploadChoice = iota

	// UploadOnce uploads this save only.
	UploadOnce

	// UploadAlways uploads and persists that no further confirmation
	// is wanted.
	UploadAlways
)

// Prompter asks the user to confirm destructive or remote-mutating
// operations. Implementations suspend until the user answers.
type Prompter interface {
	// Confirm asks a yes/cancel question and reports whether the
	// user accepted.
	Confirm(ctx context.Context, message string) (bool, error)

	// ConfirmUpload asks whether a saved buffer should be uploaded
	// to the entity with the given label.
	ConfirmUpload(ctx context.Context, label string) (UploadChoice, error)
}

// Settings is the configuration collaborator holding user
// preferences that outlive a session.
type Settings interface {
	// ConfirmBeforeUpload reports whether saves should prompt before
	// uploading.
	ConfirmBeforeUpload() bool

	// SetConfirmBeforeUpload persists the preference.
	SetConfirmBeforeUpload(confirm bool) error
}
