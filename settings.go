package docbrowse

import "sync"

// MemorySettings holds preferences for the current process only.
// Hosts with a real configuration system supply their own Settings.
type MemorySettings struct {
	mu      sync.RWMutex
	confirm bool
}

func NewMemorySettings(confirmBeforeUpload bool) *MemorySettings {
	return &MemorySettings{confirm: confirmBeforeUpload}
}

func (ms *MemorySettings) ConfirmBeforeUpload() bool {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	return ms.confirm
}

func (ms *MemorySettings) SetConfirmBeforeUpload(confirm bool) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.confirm = confirm
	return nil
}
