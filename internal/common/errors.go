// Package common defines shared constants and sentinel errors used across
// SafeHold components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Storage-level errors.
	ErrNotFound       = errors.New("not found")
	ErrStorageFailure = errors.New("storage failure")

	// Vault-level errors.
	ErrKeyUnavailable = errors.New("encryption key unavailable")
	ErrDecodeFailure  = errors.New("decode failure")

	// Intake errors.
	ErrTransmissionFailure = errors.New("transmission failure")

	// Validation errors.
	ErrInvalidRecord = errors.New("invalid record")
)
