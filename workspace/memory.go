package workspace

import (
	"context"
	"sync"
)

// MemoryWorkspace keeps buffers purely in memory. It backs tests and
// headless embeddings where no real files are wanted.
type MemoryWorkspace struct {
	mu      sync.RWMutex
	buffers map[string]*memoryBuffer
	handler SaveHandler
}

type memoryBuffer struct {
	text  string
	dirty bool
}

func NewMemoryWorkspace() *MemoryWorkspace {
	return &MemoryWorkspace{
		buffers: make(map[string]*memoryBuffer),
	}
}

func (mw *MemoryWorkspace) Ensure(ctx context.Context, path string) error {
	mw.mu.Lock()
	defer mw.mu.Unlock()

	if _, ok := mw.buffers[path]; !ok {
		mw.buffers[path] = &memoryBuffer{}
	}
	return nil
}

func (mw *MemoryWorkspace) Show(ctx context.Context, path string) error {
	return nil
}

func (mw *MemoryWorkspace) IsDirty(path string) bool {
	mw.mu.RLock()
	defer mw.mu.RUnlock()

	buf, ok := mw.buffers[path]
	return ok && buf.dirty
}

func (mw *MemoryWorkspace) ReadText(path string) (string, error) {
	mw.mu.RLock()
	defer mw.mu.RUnlock()

	buf, ok := mw.buffers[path]
	if !ok {
		return "", ErrNoBuffer
	}
	return buf.text, nil
}

func (mw *MemoryWorkspace) WriteText(path string, text string) error {
	mw.mu.Lock()
	defer mw.mu.Unlock()

	buf, ok := mw.buffers[path]
	if !ok {
		return ErrNoBuffer
	}

	buf.text = text
	buf.dirty = true
	return nil
}

func (mw *MemoryWorkspace) Save(ctx context.Context, path string) error {
	mw.mu.Lock()
	buf, ok := mw.buffers[path]
	if !ok {
		mw.mu.Unlock()
		return ErrNoBuffer
	}

	buf.dirty = false
	handler := mw.handler
	mw.mu.Unlock()

	if handler != nil {
		if err := handler(ctx, path); err != nil {
			// The buffer content never reached the remote side.
			mw.mu.Lock()
			buf.dirty = true
			mw.mu.Unlock()
			return err
		}
	}
	return nil
}

func (mw *MemoryWorkspace) OnSave(handler SaveHandler) {
	mw.mu.Lock()
	defer mw.mu.Unlock()

	mw.handler = handler
}
