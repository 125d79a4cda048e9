// Package store holds the storage-level facts shared by the registration
// store implementations. Services translate these into coded errors.
package store

import (
	"fmt"

	"immat/pkg/platform/sentinel"
)

var (
	ErrNotFound = sentinel.ErrNotFound

	// ErrStale is returned by a counter compare-and-swap that matched no row.
	ErrStale = sentinel.ErrStale

	ErrVehicleAllocated = fmt.Errorf("vehicle already holds a mark: %w", sentinel.ErrAlreadyUsed)
	ErrMarkTaken        = fmt.Errorf("mark already allocated: %w", sentinel.ErrConflict)
	ErrChassisTaken     = fmt.Errorf("chassis already registered: %w", sentinel.ErrAlreadyUsed)
	ErrDossierExists    = fmt.Errorf("vehicle already has a dossier: %w", sentinel.ErrAlreadyUsed)
	ErrReferenceTaken   = fmt.Errorf("reference already used: %w", sentinel.ErrConflict)
)
