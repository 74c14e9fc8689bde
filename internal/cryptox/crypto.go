// Package cryptox implements the symmetric encryption primitives behind the
// vault: AES-256-GCM sealing of JSON-serialized values and argon2id key
// derivation for wrapping the vault key at rest.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/safehold-app/safehold/internal/common"
	"golang.org/x/crypto/argon2"
)

// KeySize is the vault key length in bytes (AES-256).
const KeySize = 32

var ErrCiphertextTooShort = errors.New("ciphertext too short")

// DeriveWrapKey derives a 256-bit key-wrapping key from a low-entropy secret
// and a random salt using argon2id.
func DeriveWrapKey(secret, salt []byte) []byte {
	return argon2.IDKey(secret, salt, 1, 64*1024, 4, KeySize)
}

// SealValue serializes v to JSON and encrypts it with AES-GCM under key.
// A fresh random nonce is generated per call and prefixed to the returned
// blob, so the blob is self-contained: nonce || ciphertext.
func SealValue(v any, key []byte) ([]byte, error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	return Seal(plaintext, key)
}

// OpenValue decrypts a blob produced by SealValue and unmarshals the
// plaintext into v. Any authentication or parse failure is reported as a
// decode failure, matchable with errors.Is(err, common.ErrDecodeFailure).
func OpenValue(blob, key []byte, v any) error {
	plaintext, err := Open(blob, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(plaintext, v); err != nil {
		return fmt.Errorf("%w: unmarshal: %w", common.ErrDecodeFailure, err)
	}
	return nil
}

// Seal encrypts plaintext with AES-GCM under key and returns
// nonce || ciphertext.
func Seal(plaintext, key []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := common.GenerateRandByteArray(aesgcm.NonceSize())
	return aesgcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Open reverses Seal. A blob that is too short, was encrypted under a
// different key, or was tampered with yields common.ErrDecodeFailure.
func Open(blob, key []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	if len(blob) < aesgcm.NonceSize() {
		return nil, fmt.Errorf("%w: %w", common.ErrDecodeFailure, ErrCiphertextTooShort)
	}

	nonce, ciphertext := blob[:aesgcm.NonceSize()], blob[aesgcm.NonceSize():]
	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrDecodeFailure, err)
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("new gcm: %w", err)
	}
	return aesgcm, nil
}
