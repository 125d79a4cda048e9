package domain

import (
	"strings"

	dErrors "immat/pkg/domain-errors"
)

// Role is the closed set of roles an actor can hold.
type Role string

const (
	RoleAgent                  Role = "agent"
	RoleAgentSaisie            Role = "agent_saisie"
	RoleAdmin                  Role = "admin"
	RoleDirecteurDepartemental Role = "directeur_departemental"
	RoleSD                     Role = "SD"
	RoleSuperDirecteur         Role = "super_directeur"
)

var roleLevels = map[Role]int{
	RoleAgent:                  1,
	RoleAgentSaisie:            1,
	RoleAdmin:                  2,
	RoleDirecteurDepartemental: 2,
	RoleSD:                     3,
	RoleSuperDirecteur:         4,
}

// ParseRole rejects anything outside the closed role set. Matching is exact
// except for surrounding whitespace; "sd" is not "SD".
func ParseRole(s string) (Role, error) {
	r := Role(strings.TrimSpace(s))
	if _, ok := roleLevels[r]; !ok {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown role")
	}
	return r, nil
}

// LevelAdministrative is the lowest level above counter staff.
const LevelAdministrative = 2

// Level returns the privilege level, 0 for an unknown role.
func (r Role) Level() int { return roleLevels[r] }

func (r Role) IsValid() bool {
	_, ok := roleLevels[r]
	return ok
}

func (r Role) String() string { return string(r) }

// Actor is the verified identity performing an operation.
type Actor struct {
	UserID       UserID
	Role         Role
	DepartmentID DepartmentID
	Name         string
}

// IsZero reports whether no actor was established.
func (a Actor) IsZero() bool { return a.UserID.IsNil() && a.Role == "" }
