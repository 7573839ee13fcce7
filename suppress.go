package docbrowse

// syncSuppressed reports whether the registry is in the middle of its
// own programmatic rewrite-and-save of the buffer at path.
func (r *Registry) syncSuppressed(path string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.suppressed[path]
}

// withSuppressedSync runs fn with save-triggered uploads for path
// silenced. The flag is reset on every path out of fn, including
// failure, so a failed save can never leak suppression into later
// saves. Suppression is scoped to the one buffer being rewritten;
// saves of other buffers arriving in between are handled normally.
func (r *Registry) withSuppressedSync(path string, fn func() error) error {
	r.mu.Lock()
	r.suppressed[path] = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		delete(r.suppressed, path)
		r.mu.Unlock()
	}()

	return fn()
}
