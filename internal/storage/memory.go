package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/safehold-app/safehold/internal/common"
)

// Memory is a map-backed Storage used in tests and as a degraded-mode
// fallback when the device database cannot be opened.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte

	// FailSets, when positive, makes the next N Set calls fail. Test hook.
	FailSets int
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.data[key]
	if !ok {
		return nil, fmt.Errorf("vault record %q: %w", key, common.ErrNotFound)
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (m *Memory) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailSets > 0 {
		m.FailSets--
		return fmt.Errorf("%w: set vault record %q: injected failure", common.ErrStorageFailure, key)
	}

	stored := make([]byte, len(value))
	copy(stored, value)
	m.data[key] = stored
	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	return nil
}

func (m *Memory) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.data[key]
	return ok, nil
}
