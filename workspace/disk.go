package workspace

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// DiskWorkspace keeps buffer content in memory and persists it to the
// local filesystem. Saves are atomic: content goes to a temp file in
// the target directory, then renames over the destination.
type DiskWorkspace struct {
	mu      sync.RWMutex
	buffers map[string]*diskBuffer
	handler SaveHandler
}

type diskBuffer struct {
	text   string
	dirty  bool
	loaded bool
}

func NewDiskWorkspace() *DiskWorkspace {
	return &DiskWorkspace{
		buffers: make(map[string]*diskBuffer),
	}
}

func (dw *DiskWorkspace) Ensure(ctx context.Context, path string) error {
	dw.mu.Lock()
	defer dw.mu.Unlock()

	if _, ok := dw.buffers[path]; ok {
		return nil
	}

	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return err
		}

		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		if err := writeAtomic(path, nil); err != nil {
			return err
		}
	}

	dw.buffers[path] = &diskBuffer{}
	return nil
}

// Show is a host-editor concern; the disk workspace has no view.
func (dw *DiskWorkspace) Show(ctx context.Context, path string) error {
	return nil
}

func (dw *DiskWorkspace) IsDirty(path string) bool {
	dw.mu.RLock()
	defer dw.mu.RUnlock()

	buf, ok := dw.buffers[path]
	return ok && buf.dirty
}

func (dw *DiskWorkspace) ReadText(path string) (string, error) {
	dw.mu.Lock()
	defer dw.mu.Unlock()

	buf, ok := dw.buffers[path]
	if !ok {
		return "", ErrNoBuffer
	}

	if !buf.loaded {
		content, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		buf.text = string(content)
		buf.loaded = true
	}

	return buf.text, nil
}

func (dw *DiskWorkspace) WriteText(path string, text string) error {
	dw.mu.Lock()
	defer dw.mu.Unlock()

	buf, ok := dw.buffers[path]
	if !ok {
		return ErrNoBuffer
	}

	buf.text = text
	buf.loaded = true
	buf.dirty = true
	return nil
}

func (dw *DiskWorkspace) Save(ctx context.Context, path string) error {
	dw.mu.Lock()
	buf, ok := dw.buffers[path]
	if !ok {
		dw.mu.Unlock()
		return ErrNoBuffer
	}

	if err := writeAtomic(path, []byte(buf.text)); err != nil {
		dw.mu.Unlock()
		return err
	}
	buf.dirty = false

	handler := dw.handler
	dw.mu.Unlock()

	if handler != nil {
		if err := handler(ctx, path); err != nil {
			// The buffer content never reached the remote side.
			dw.mu.Lock()
			buf.dirty = true
			dw.mu.Unlock()
			return err
		}
	}
	return nil
}

func (dw *DiskWorkspace) OnSave(handler SaveHandler) {
	dw.mu.Lock()
	defer dw.mu.Unlock()

	dw.handler = handler
}

// writeAtomic writes content to a sibling temp file and renames it
// over the destination, so a crash never leaves a half-written file.
func writeAtomic(path string, content []byte) error {
	tmp := filepath.Join(filepath.Dir(path), ".tmp-"+uuid.NewString())

	if err := os.WriteFile(tmp, content, 0644); err != nil {
		return err
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}

	return nil
}
