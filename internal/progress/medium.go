package progress

import (
	"context"
	"sync"
)

// Medium is the key-value persistence collaborator unlock records are written to.
// Read reports found=false for keys that were never written.
type Medium interface {
	Read(ctx context.Context, key string) (value string, found bool, err error)
	Write(ctx context.Context, key, value string) error
}

// MemoryMedium is an in-process Medium. Records do not survive a restart.
type MemoryMedium struct {
	values map[string]string
	mu     sync.RWMutex
}

// NewMemoryMedium creates an empty in-memory medium.
func NewMemoryMedium() *MemoryMedium {
	return &MemoryMedium{values: make(map[string]string)}
}

func (m *MemoryMedium) Read(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryMedium) Write(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}
