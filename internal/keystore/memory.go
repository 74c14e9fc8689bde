package keystore

import (
	"context"

	"github.com/safehold-app/safehold/internal/common"
	"github.com/safehold-app/safehold/internal/cryptox"
)

// Memory holds a fixed key in memory. Tests use it to avoid touching a real
// keystore.
type Memory struct {
	key []byte
}

func NewMemory(key []byte) *Memory {
	return &Memory{key: key}
}

// NewRandomMemory returns a Memory provider with a fresh random key.
func NewRandomMemory() *Memory {
	return &Memory{key: common.GenerateRandByteArray(cryptox.KeySize)}
}

func (m *Memory) Key(ctx context.Context) ([]byte, error) {
	return m.key, nil
}
