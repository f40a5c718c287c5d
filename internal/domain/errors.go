package domain

import "errors"

var (
	// ErrNotFound is returned when a referenced comparison, policy, or customer does not exist
	ErrNotFound = errors.New("not found")

	// ErrValidation is returned when required fields are missing or malformed
	ErrValidation = errors.New("validation failed")

	// ErrInvalidTransition is returned when a status change is not allowed from the current status
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrStatusConflict is returned when the comparison status changed underneath a compare-and-set update
	ErrStatusConflict = errors.New("comparison status changed concurrently")

	// ErrProviderDegraded marks a property or geocoding provider failure; it is logged, never returned to callers
	ErrProviderDegraded = errors.New("property provider degraded")

	// ErrBridgeFailure marks a failed service request hand-off; it is logged, never returned to callers
	ErrBridgeFailure = errors.New("service request bridge failure")
)
