// Package domain holds typed identifiers shared across modules.
//
// IDs are parsed once at trust boundaries (HTTP paths, JWT claims) and carried
// as distinct types afterwards so a vehicle id can never be passed where a user
// id is expected.
package domain

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	dErrors "immat/pkg/domain-errors"
)

type (
	UserID    uuid.UUID
	VehicleID uuid.UUID
	DossierID uuid.UUID
	// PartyID identifies an owner or a representative.
	PartyID uuid.UUID
)

// DepartmentID is the numeric code of a department. It is appended verbatim to
// registration marks, so it stays an integer rather than a UUID.
type DepartmentID int

const maxIDLength = 64

func parseUUID(kind, s string) (uuid.UUID, error) {
	if s == "" || len(s) > maxIDLength {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	return u, nil
}

func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID("user id", s)
	return UserID(u), err
}

func ParseVehicleID(s string) (VehicleID, error) {
	u, err := parseUUID("vehicle id", s)
	return VehicleID(u), err
}

func ParseDossierID(s string) (DossierID, error) {
	u, err := parseUUID("dossier id", s)
	return DossierID(u), err
}

func ParsePartyID(s string) (PartyID, error) {
	u, err := parseUUID("party id", s)
	return PartyID(u), err
}

// ParseDepartmentID accepts a positive decimal department code.
func ParseDepartmentID(s string) (DepartmentID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "department id is required")
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "invalid department id")
	}
	return DepartmentID(n), nil
}

func (id UserID) String() string    { return uuid.UUID(id).String() }
func (id VehicleID) String() string { return uuid.UUID(id).String() }
func (id DossierID) String() string { return uuid.UUID(id).String() }
func (id PartyID) String() string   { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id VehicleID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id DossierID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id PartyID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }

func (d DepartmentID) String() string { return strconv.Itoa(int(d)) }

// Valid reports whether the department code is usable at all. Whether the
// department exists is a registry question answered by the store.
func (d DepartmentID) Valid() bool { return d > 0 }

func (id UserID) MarshalText() ([]byte, error)    { return uuid.UUID(id).MarshalText() }
func (id VehicleID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id DossierID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id PartyID) MarshalText() ([]byte, error)   { return uuid.UUID(id).MarshalText() }

func (id *UserID) UnmarshalText(b []byte) error    { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *VehicleID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *DossierID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *PartyID) UnmarshalText(b []byte) error   { return (*uuid.UUID)(id).UnmarshalText(b) }
