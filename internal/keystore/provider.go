// Package keystore owns the vault encryption key. Exactly one key exists per
// device installation: it is generated lazily on first use and retrieved
// unchanged afterwards. The key never leaves the vault boundary.
package keystore

import "context"

// Provider returns the device's vault key.
//
// Key is idempotent after the first successful call in a given install. An
// unreadable or corrupted keystore entry is treated the same as a missing
// one: a fresh key is generated, accepting that data encrypted under the old
// key becomes permanently unreadable.
type Provider interface {
	Key(ctx context.Context) ([]byte, error)
}
