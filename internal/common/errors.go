// Package common defines sentinel errors shared by the store, cover and
// projection layers of novelshelf. Callers should use errors.Is to match
// these values; lower layers wrap them with fmt.Errorf("...: %w", ...).
package common

import "errors"

var (
	// Store-level errors.
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrNotFound         = errors.New("not found")

	// Input errors, rejected before any store or filesystem call.
	ErrValidation = errors.New("validation error")

	// Cover asset errors.
	ErrAssetWrite = errors.New("asset write error")

	// Returned when an action is issued while another one is still in flight.
	ErrBusy = errors.New("operation in progress")
)
