package models

import (
	"strings"
	"time"
	"unicode"

	"immat/pkg/domain"
	dErrors "immat/pkg/domain-errors"
)

const (
	minChassisLength = 5
	maxChassisLength = 32
)

// Vehicle is identified by its chassis number and carries at most one
// provisional and one definitive mark over its lifetime.
type Vehicle struct {
	ID              domain.VehicleID
	Chassis         string
	Class           VehicleClass
	DepartmentID    domain.DepartmentID
	ProvisionalMark Mark
	DefinitiveMark  Mark
	CreatedAt       time.Time
}

// NewVehicle normalises and checks a vehicle before registration.
func NewVehicle(id domain.VehicleID, chassis string, class VehicleClass, dept domain.DepartmentID, now time.Time) (*Vehicle, error) {
	chassis, err := NormalizeChassis(chassis)
	if err != nil {
		return nil, err
	}
	if class == "" {
		class = DefaultVehicleClass
	}
	return &Vehicle{
		ID:           id,
		Chassis:      chassis,
		Class:        class,
		DepartmentID: dept,
		CreatedAt:    now,
	}, nil
}

// NormalizeChassis upper-cases and checks a chassis number.
func NormalizeChassis(s string) (string, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return "", dErrors.New(dErrors.CodeValidation, "chassis number is required")
	}
	if len(s) < minChassisLength || len(s) > maxChassisLength {
		return "", dErrors.New(dErrors.CodeValidation, "chassis number must be 5 to 32 characters")
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !(unicode.IsDigit(r) || unicode.IsUpper(r) || r == '-') {
			return "", dErrors.New(dErrors.CodeValidation, "chassis number contains invalid characters")
		}
	}
	return s, nil
}

// HasMark reports whether any mark was ever bound to the vehicle.
func (v *Vehicle) HasMark() bool {
	return !v.ProvisionalMark.IsZero() || !v.DefinitiveMark.IsZero()
}
