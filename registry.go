package docbrowse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sputier/docbrowse/entity"
	"github.com/sputier/docbrowse/log"
	"github.com/sputier/docbrowse/state"
	"github.com/sputier/docbrowse/tree"
	"github.com/sputier/docbrowse/workspace"
)

// Registry maps local editable buffers to remote entities and keeps
// the two sides synchronized: binding an entity populates its buffer
// with the remote data, and saving the buffer uploads the parsed
// content back to the store. The binding table is persisted so
// bindings survive a process restart.
type Registry struct {
	mu         sync.Mutex
	bindings   map[string]entity.Entity
	suppressed map[string]bool

	ws       workspace.Workspace
	states   state.Store
	resolver tree.Resolver

	logger   *log.Logger
	prompter Prompter
	settings Settings
	stateKey string
}

// NewRegistry creates a registry over the given collaborators and
// hooks itself into the workspace's save notifications.
func NewRegistry(ws workspace.Workspace, states state.Store, resolver tree.Resolver, opts ...RegistryOption) (*Registry, error) {
	options := newDefaultRegistryOptions()
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}

	r := &Registry{
		bindings:   make(map[string]entity.Entity),
		suppressed: make(map[string]bool),

		ws:       ws,
		states:   states,
		resolver: resolver,

		logger:   options.Logger,
		prompter: options.Prompter,
		settings: options.Settings,
		stateKey: options.StateKey,
	}

	ws.OnSave(r.OnBufferSaved)

	return r, nil
}

// Bind associates the entity with the buffer at path and populates
// the buffer with the entity's current remote data. An existing
// binding for path is overwritten. If the buffer has unsaved local
// changes the user is asked first; declining returns ErrCancelled.
func (r *Registry) Bind(ctx context.Context, ent entity.Entity, path string) error {
	if err := r.ws.Ensure(ctx, path); err != nil {
		return err
	}

	if r.ws.IsDirty(path) {
		ok, err := r.prompter.Confirm(ctx,
			fmt.Sprintf("Replace unsaved changes in %q with data from %q?", path, ent.Label()))
		if err != nil {
			return err
		}
		if !ok {
			return ErrCancelled
		}
	}

	r.mu.Lock()
	r.bindings[path] = ent
	r.mu.Unlock()

	if err := r.persistBindings(ctx); err != nil {
		return err
	}

	if err := r.ws.Show(ctx, path); err != nil {
		return err
	}

	data, err := ent.GetData(ctx)
	if err != nil {
		return err
	}

	return r.rewriteBuffer(ctx, path, data)
}

// ResolveBinding returns the entity bound to path. On an in-memory
// miss it attempts recovery from the persisted binding table: the
// stored entity id is resolved through the tree resolver and
// classified into its variant. Stale table entries whose id no longer
// resolves are dropped and reported as ErrEntityNotFound; paths with
// no entry anywhere return ErrNotBound.
func (r *Registry) ResolveBinding(ctx context.Context, path string) (entity.Entity, error) {
	r.mu.Lock()
	ent, ok := r.bindings[path]
	r.mu.Unlock()

	if ok {
		return ent, nil
	}

	return r.recoverBinding(ctx, path)
}

func (r *Registry) recoverBinding(ctx context.Context, path string) (entity.Entity, error) {
	table, err := r.loadTable(ctx)
	if err != nil {
		return nil, err
	}

	id, ok := table[path]
	if !ok {
		return nil, ErrNotBound
	}

	node, err := r.resolver.FindNode(ctx, id)
	if err != nil {
		return nil, err
	}
	if node == nil {
		// Stale binding: the entity is gone or out of reach.
		// Drop it so recovery is not retried forever.
		delete(table, path)
		if perr := r.putTable(ctx, table); perr != nil {
			r.logger.Warn("failed to drop stale binding for %q: %v", path, perr)
		}

		return nil, fmt.Errorf("%w: %s", ErrEntityNotFound, id)
	}

	ent, err := entity.FromNode(*node)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.bindings[path] = ent
	r.mu.Unlock()

	return ent, nil
}

// OnBufferSaved is the workspace save hook. Saves echoed by the
// registry's own rewrite are ignored; saves of unbound buffers are
// ignored; everything else goes through confirmation (when enabled)
// and upload.
func (r *Registry) OnBufferSaved(ctx context.Context, path string) error {
	if r.syncSuppressed(path) {
		return nil
	}

	ent, err := r.ResolveBinding(ctx, path)
	if err != nil {
		if errors.Is(err, ErrNotBound) {
			return nil
		}
		return err
	}

	if r.settings.ConfirmBeforeUpload() {
		choice, err := r.prompter.ConfirmUpload(ctx, ent.Label())
		if err != nil {
			return err
		}

		switch choice {
		case UploadCancel:
			return ErrCancelled
		case UploadAlways:
			if err := r.settings.SetConfirmBeforeUpload(false); err != nil {
				return err
			}
		}
	}

	return r.Upload(ctx, ent, path)
}

// Upload parses the buffer's current content and pushes it through
// the entity's update contract. The canonical post-write value comes
// back into the buffer via rewriteBuffer. Content that fails to parse
// aborts with ErrMalformedInput, leaving the buffer dirty.
func (r *Registry) Upload(ctx context.Context, ent entity.Entity, path string) error {
	text, err := r.ws.ReadText(path)
	if err != nil {
		return err
	}

	var parsed any
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	canonical, err := ent.Update(ctx, parsed)
	if err != nil {
		return err
	}

	if err := r.rewriteBuffer(ctx, path, canonical); err != nil {
		return err
	}

	r.logger.Info("uploaded %q at %s", ent.Label(), time.Now().Format(time.RFC3339))
	return nil
}

// rewriteBuffer replaces the buffer with the pretty-printed form of
// value and saves it, with the save-triggered upload silenced so the
// echo write cannot start a save/sync loop.
func (r *Registry) rewriteBuffer(ctx context.Context, path string, value any) error {
	text, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}

	if err := r.ws.WriteText(path, string(text)); err != nil {
		return err
	}

	return r.withSuppressedSync(path, func() error {
		return r.ws.Save(ctx, path)
	})
}

// persistBindings writes the full binding table to the state store.
// Persisted entries for paths not bound in this session are kept so
// their buffers stay recoverable.
func (r *Registry) persistBindings(ctx context.Context) error {
	table, err := r.loadTable(ctx)
	if err != nil {
		return err
	}

	r.mu.Lock()
	for path, ent := range r.bindings {
		table[path] = ent.ID()
	}
	r.mu.Unlock()

	return r.putTable(ctx, table)
}

func (r *Registry) loadTable(ctx context.Context) (map[string]string, error) {
	raw, ok, err := r.states.Get(ctx, r.stateKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return make(map[string]string), nil
	}

	table := make(map[string]string)
	if err := json.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("corrupt binding table under %q: %w", r.stateKey, err)
	}

	return table, nil
}

func (r *Registry) putTable(ctx context.Context, table map[string]string) error {
	raw, err := json.Marshal(table)
	if err != nil {
		return err
	}

	return r.states.Put(ctx, r.stateKey, raw)
}
