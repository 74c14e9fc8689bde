// Package storage abstracts the device's persistent key/value storage: opaque
// byte blobs addressed by string keys. The vault writes only ciphertext here;
// plaintext never reaches this layer.
package storage

import "context"

// Storage is the device persistence contract consumed by the vault.
//
// Get returns common.ErrNotFound (wrapped) when the key is absent, so callers
// can distinguish "never written" from an I/O failure.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
