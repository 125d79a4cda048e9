package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into domain errors.
//
//   - ErrNotFound: row does not exist in the store
//   - ErrAlreadyUsed: a unique key (chassis, reference, vehicle allocation) is taken
//   - ErrConflict: a unique registration mark collided with an existing allocation
//   - ErrStale: a compare-and-swap lost against a newer row version
//   - ErrUnavailable: the store could not be reached
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound    = errors.New("not found")
	ErrAlreadyUsed = errors.New("already used")
	ErrConflict    = errors.New("conflict")
	ErrStale       = errors.New("stale version")
	ErrUnavailable = errors.New("unavailable")
)
