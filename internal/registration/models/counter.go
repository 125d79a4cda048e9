package models

import (
	"fmt"
	"strings"
	"unicode"

	"immat/pkg/domain"
	dErrors "immat/pkg/domain-errors"
)

const (
	MaxCursor   = 999
	FirstSuffix = 'A'
	LastSuffix  = 'Z'
)

// VehicleClass is the upper-case class word that prefixes a mark.
type VehicleClass string

const DefaultVehicleClass VehicleClass = "TAXI"

const maxClassLength = 16

// ParseVehicleClass upper-cases and checks a class word. Empty input yields
// the default class.
func ParseVehicleClass(s string) (VehicleClass, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return DefaultVehicleClass, nil
	}
	if len(s) > maxClassLength {
		return "", dErrors.New(dErrors.CodeValidation, "vehicle class is too long")
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsUpper(r) {
			return "", dErrors.New(dErrors.CodeValidation, "vehicle class must be letters only")
		}
	}
	return VehicleClass(s), nil
}

func (c VehicleClass) String() string { return string(c) }

// CounterKey identifies one sequence.
type CounterKey struct {
	DepartmentID domain.DepartmentID
	Class        VehicleClass
}

func (k CounterKey) String() string {
	return fmt.Sprintf("%d:%s", k.DepartmentID, k.Class)
}

// Counter is the persisted state of one sequence. Version increases by one
// on every committed advance and is the compare-and-swap token.
//
// Invariants:
//   - Cursor is 0 only before the first allocation, 1..999 afterwards
//   - Suffix is a single letter A..Z
type Counter struct {
	Key     CounterKey
	Cursor  int
	Suffix  byte
	Version int64
}

// NewCounter returns the initial state of a sequence that has never allocated.
func NewCounter(key CounterKey) Counter {
	return Counter{Key: key, Cursor: 0, Suffix: FirstSuffix, Version: 0}
}

// Next returns the counter after one allocation. The receiver is not changed.
func (c Counter) Next() Counter {
	next := c
	next.Version = c.Version + 1
	next.Cursor = c.Cursor + 1
	if next.Cursor > MaxCursor {
		next.Cursor = 1
		next.Suffix = nextSuffix(c.Suffix)
	}
	return next
}

func nextSuffix(s byte) byte {
	if s >= LastSuffix || s < FirstSuffix {
		return FirstSuffix
	}
	return s + 1
}

// Mark formats the registration mark for the counter's current position.
func (c Counter) Mark() Mark {
	return FormatMark(c.Key.Class, c.Cursor, c.Suffix, c.Key.DepartmentID)
}

// Validate checks the stored state before it is trusted.
func (c Counter) Validate() error {
	if c.Cursor < 0 || c.Cursor > MaxCursor {
		return dErrors.New(dErrors.CodeInvariantViolation, "counter cursor out of range")
	}
	if c.Suffix < FirstSuffix || c.Suffix > LastSuffix {
		return dErrors.New(dErrors.CodeInvariantViolation, "counter suffix out of range")
	}
	return nil
}
