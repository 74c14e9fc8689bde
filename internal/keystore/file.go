package keystore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/safehold-app/safehold/internal/common"
	"github.com/safehold-app/safehold/internal/cryptox"
	"github.com/safehold-app/safehold/internal/filex"
	"github.com/safehold-app/safehold/internal/logging"
)

const saltSize = 16

// entry is the on-disk keystore format: the vault key wrapped with AES-GCM
// under an argon2id key derived from the device unlock secret and Salt.
type entry struct {
	Version int    `json:"version"`
	Salt    []byte `json:"salt"`
	Wrapped []byte `json:"wrapped"`
}

// File models the platform-protected keystore as a single file holding one
// wrapped key. It satisfies Provider.
type File struct {
	path   string
	secret []byte
	log    logging.Logger

	mu  sync.Mutex
	key []byte
}

// NewFile returns a file-backed key provider. secret is the device unlock
// secret used to wrap the key at rest; it is copied, so the caller may wipe
// its own buffer.
func NewFile(path string, secret []byte, log logging.Logger) *File {
	s := make([]byte, len(secret))
	copy(s, secret)
	return &File{path: path, secret: s, log: log}
}

// Key returns the vault key, generating and persisting a fresh one if no
// readable entry exists. The result is cached for the process lifetime.
func (f *File) Key(ctx context.Context) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.key != nil {
		return f.key, nil
	}

	key, err := f.readEntry()
	if err == nil {
		f.key = key
		return f.key, nil
	}
	if !os.IsNotExist(err) {
		// Corrupted or unreadable entry: same policy as "not found".
		// Anything encrypted under the old key is lost.
		f.log.Warn(ctx, "keystore entry unreadable, generating fresh key", "error", err)
	}

	key = common.GenerateRandByteArray(cryptox.KeySize)
	if err := f.writeEntry(key); err != nil {
		common.WipeByteArray(key)
		return nil, fmt.Errorf("%w: %w", common.ErrKeyUnavailable, err)
	}

	f.key = key
	return f.key, nil
}

func (f *File) readEntry() ([]byte, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		return nil, err
	}

	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("parse keystore entry: %w", err)
	}

	wrapKey := cryptox.DeriveWrapKey(f.secret, e.Salt)
	defer common.WipeByteArray(wrapKey)

	key, err := cryptox.Open(e.Wrapped, wrapKey)
	if err != nil {
		return nil, fmt.Errorf("unwrap key: %w", err)
	}
	if len(key) != cryptox.KeySize {
		return nil, fmt.Errorf("unexpected key length %d", len(key))
	}
	return key, nil
}

func (f *File) writeEntry(key []byte) error {
	salt := common.GenerateRandByteArray(saltSize)
	wrapKey := cryptox.DeriveWrapKey(f.secret, salt)
	defer common.WipeByteArray(wrapKey)

	wrapped, err := cryptox.Seal(key, wrapKey)
	if err != nil {
		return fmt.Errorf("wrap key: %w", err)
	}

	raw, err := json.Marshal(entry{Version: 1, Salt: salt, Wrapped: wrapped})
	if err != nil {
		return fmt.Errorf("marshal keystore entry: %w", err)
	}

	if err := filex.WriteFileAtomic(f.path, raw, 0o600); err != nil {
		return fmt.Errorf("persist keystore entry: %w", err)
	}
	return nil
}
