package docbrowse

import (
	"context"

	"github.com/sputier/docbrowse/log"
)

// DefaultStateKey is the namespace under which the binding table is
// persisted in the state store.
const DefaultStateKey = "docbrowse.openEditors"

type RegistryOptions struct {
	Logger   *log.Logger
	Prompter Prompter
	Settings Settings
	StateKey string
}

type RegistryOption func(*RegistryOptions) error

func newDefaultRegistryOptions() *RegistryOptions {
	return &RegistryOptions{
		Logger:   log.Discard(),
		Prompter: acceptAllPrompter{},
		Settings: NewMemorySettings(false),
		StateKey: DefaultStateKey,
	}
}

func WithLogger(logger *log.Logger) RegistryOption {
	return func(opts *RegistryOptions) error {
		opts.Logger = logger
		return nil
	}
}

func WithPrompter(prompter Prompter) RegistryOption {
	return func(opts *RegistryOptions) error {
		opts.Prompter = prompter
		return nil
	}
}

func WithSettings(settings Settings) RegistryOption {
	return func(opts *RegistryOptions) error {
		opts.Settings = settings
		return nil
	}
}

// WithStateKey overrides the namespace key for the persisted binding
// table, so multiple registries can share one state store.
func WithStateKey(key string) RegistryOption {
	return func(opts *RegistryOptions) error {
		opts.StateKey = key
		return nil
	}
}

// acceptAllPrompter answers yes to everything, for headless use.
type acceptAllPrompter struct{}

func (acceptAllPrompter) Confirm(ctx context.Context, message string) (bool, error) {
	return true, nil
}

func (acceptAllPrompter) ConfirmUpload(ctx context.Context, label string) (UploadChoice, error) {
	return UploadOnce, nil
}
