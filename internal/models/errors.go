package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for validation.
var (
	ErrMissingName   = errors.New("name is required")
	ErrMissingNode   = errors.New("node is required")
	ErrUnknownLookup = errors.New("unknown lookup kind")
	ErrTooLong       = errors.New("exceeds maximum length")
)

// Sentinel errors for run lookups.
var (
	ErrRunNotFound   = errors.New("run not found")
	ErrStoreDisabled = errors.New("run storage is not configured")
)

// ErrFieldTooLong reports that a field exceeds its maximum length.
func ErrFieldTooLong(field string, maxLen int) error {
	return fmt.Errorf("%s %w of %d", field, ErrTooLong, maxLen)
}
