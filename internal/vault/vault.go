// Package vault implements the encrypted on-device store. Each Store binds
// one logical record type to one fixed storage key; values are sealed with
// the device key before they reach persistent storage and opened after they
// leave it, so plaintext never touches disk.
package vault

import (
	"context"
	"errors"
	"fmt"

	"github.com/safehold-app/safehold/internal/common"
	"github.com/safehold-app/safehold/internal/cryptox"
	"github.com/safehold-app/safehold/internal/keystore"
	"github.com/safehold-app/safehold/internal/logging"
	"github.com/safehold-app/safehold/internal/storage"
)

// Store is a typed, encrypted single-record store.
//
// Load deliberately swallows read and decode failures: a record that cannot
// be read back is indistinguishable from one that was never written, and the
// callers already handle the "never written" state. Propagating a decode
// error instead would make one corrupted record break every later launch.
type Store[T any] struct {
	key     string
	storage storage.Storage
	keys    keystore.Provider
	log     logging.Logger
}

// NewStore returns a Store persisting values of type T under logicalKey.
func NewStore[T any](logicalKey string, st storage.Storage, kp keystore.Provider, log logging.Logger) *Store[T] {
	return &Store[T]{key: logicalKey, storage: st, keys: kp, log: log.With("vault_key", logicalKey)}
}

// Save serializes v, encrypts it, and overwrites any prior blob under the
// store's key. Encryption happens synchronously before the write.
func (s *Store[T]) Save(ctx context.Context, v T) error {
	key, err := s.keys.Key(ctx)
	if err != nil {
		return fmt.Errorf("vault save: %w", err)
	}

	blob, err := cryptox.SealValue(v, key)
	if err != nil {
		return fmt.Errorf("vault save: %w", err)
	}

	if err := s.storage.Set(ctx, s.key, blob); err != nil {
		return fmt.Errorf("vault save: %w", err)
	}
	return nil
}

// Load returns the stored value, or nil when the record is absent or cannot
// be read back (missing key material, storage failure, wrong key, corrupt
// blob). Failures other than plain absence are logged.
func (s *Store[T]) Load(ctx context.Context) *T {
	v, err := s.load(ctx)
	if err != nil {
		s.log.Warn(ctx, "vault record unreadable, treating as absent", "error", err)
		return nil
	}
	return v
}

// load is the strict primitive behind Load. Absence is (nil, nil); every
// other failure keeps its error identity for errors.Is.
func (s *Store[T]) load(ctx context.Context) (*T, error) {
	blob, err := s.storage.Get(ctx, s.key)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	key, err := s.keys.Key(ctx)
	if err != nil {
		return nil, err
	}

	var v T
	if err := cryptox.OpenValue(blob, key, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Remove deletes the record. Removing an absent record is not an error.
func (s *Store[T]) Remove(ctx context.Context) error {
	if err := s.storage.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("vault remove: %w", err)
	}
	return nil
}

// Exists reports whether a blob is present under the store's key. It does
// not attempt decryption, so a corrupt blob still reports true.
func (s *Store[T]) Exists(ctx context.Context) (bool, error) {
	ok, err := s.storage.Exists(ctx, s.key)
	if err != nil {
		return false, fmt.Errorf("vault exists: %w", err)
	}
	return ok, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, common.ErrNotFound)
}
