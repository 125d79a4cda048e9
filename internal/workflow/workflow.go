// Package workflow holds the dossier lifecycle stages and the single table
// deciding which role may move a dossier between them.
package workflow

import (
	"immat/pkg/domain"
	dErrors "immat/pkg/domain-errors"
)

// Stage is the shared workflow stage of a dossier. Both persisted views of a
// dossier map their own vocabulary onto it.
type Stage string

const (
	StageNone                     Stage = ""
	StageEnAttente                Stage = "en_attente"
	StageEnAttenteOfficialisation Stage = "en_attente_officialisation"
	StageValide                   Stage = "validé"
)

// Rank orders stages along the lifecycle. Unknown stages rank below StageNone.
func (s Stage) Rank() int {
	switch s {
	case StageNone:
		return 0
	case StageEnAttente:
		return 1
	case StageEnAttenteOfficialisation:
		return 2
	case StageValide:
		return 3
	default:
		return -1
	}
}

func (s Stage) IsValid() bool {
	return s.Rank() > 0
}

func (s Stage) String() string {
	if s == StageNone {
		return "none"
	}
	return string(s)
}

// ParseStage accepts the persisted stage names.
func ParseStage(s string) (Stage, error) {
	st := Stage(s)
	if !st.IsValid() {
		return StageNone, dErrors.New(dErrors.CodeValidation, "unknown dossier status")
	}
	return st, nil
}

type Action string

const (
	ActionSubmit    Action = "submit"
	ActionAttribute Action = "attribute"
	ActionValidate  Action = "validate"
)

// Scope says whether a role is bound to its own department for a transition.
type Scope int

const (
	ScopeOwnDepartment Scope = iota + 1
	ScopeGlobal
)

// Transition is one row of the lifecycle table.
type Transition struct {
	From   Stage
	Action Action
	To     Stage
	Roles  map[domain.Role]Scope
}

var transitions = []Transition{
	{
		From:   StageNone,
		Action: ActionSubmit,
		To:     StageEnAttente,
		Roles: map[domain.Role]Scope{
			domain.RoleAgent:       ScopeOwnDepartment,
			domain.RoleAgentSaisie: ScopeOwnDepartment,
			domain.RoleAdmin:       ScopeOwnDepartment,
		},
	},
	{
		From:   StageEnAttente,
		Action: ActionAttribute,
		To:     StageEnAttenteOfficialisation,
		Roles: map[domain.Role]Scope{
			domain.RoleAdmin:          ScopeGlobal,
			domain.RoleSD:             ScopeGlobal,
			domain.RoleSuperDirecteur: ScopeGlobal,
		},
	},
	{
		From:   StageEnAttenteOfficialisation,
		Action: ActionValidate,
		To:     StageValide,
		Roles: map[domain.Role]Scope{
			domain.RoleDirecteurDepartemental: ScopeOwnDepartment,
			domain.RoleAdmin:                  ScopeGlobal,
			domain.RoleSD:                     ScopeGlobal,
			domain.RoleSuperDirecteur:         ScopeGlobal,
		},
	},
}

// Lookup returns the transition for action, if any.
func Lookup(action Action) (Transition, bool) {
	for _, t := range transitions {
		if t.Action == action {
			return t, true
		}
	}
	return Transition{}, false
}

// CanAct checks the role and department half of a transition without looking
// at the current stage. Callers use it before loading state they should not
// see when the role is wrong.
func CanAct(actor domain.Actor, action Action, department domain.DepartmentID) error {
	t, ok := Lookup(action)
	if !ok {
		return dErrors.New(dErrors.CodeForbidden, "unknown action")
	}
	scope, ok := t.Roles[actor.Role]
	if !ok {
		return dErrors.New(dErrors.CodeForbidden, "role "+actor.Role.String()+" may not "+string(action))
	}
	if scope == ScopeOwnDepartment && actor.DepartmentID != department {
		return dErrors.New(dErrors.CodeForbidden, "dossier belongs to another department")
	}
	return nil
}

// Authorize checks the whole row: role, department scope and current stage.
// It returns the stage the dossier moves to.
func Authorize(actor domain.Actor, action Action, from Stage, department domain.DepartmentID) (Stage, error) {
	if err := CanAct(actor, action, department); err != nil {
		return StageNone, err
	}
	t, _ := Lookup(action)
	if t.From != from {
		return StageNone, dErrors.New(dErrors.CodeForbidden,
			"cannot "+string(action)+" a dossier in status "+from.String())
	}
	return t.To, nil
}

// AdministrativeRoles may reach the administrative surface at all. Finer
// scoping happens in ListScope and CanRepair.
var AdministrativeRoles = []domain.Role{
	domain.RoleAdmin,
	domain.RoleDirecteurDepartemental,
	domain.RoleSD,
	domain.RoleSuperDirecteur,
}

// HasGlobalScope reports whether the role acts across departments for reads
// and repairs: level 2 and above, except the departmental director who is
// bound to its own department whatever its level.
func HasGlobalScope(role domain.Role) bool {
	return role.Level() >= domain.LevelAdministrative && role != domain.RoleDirecteurDepartemental
}

// CanView gates reads of a single dossier.
func CanView(actor domain.Actor, department domain.DepartmentID) error {
	if !actor.Role.IsValid() {
		return dErrors.New(dErrors.CodeForbidden, "unknown role")
	}
	if HasGlobalScope(actor.Role) || actor.DepartmentID == department {
		return nil
	}
	return dErrors.New(dErrors.CodeForbidden, "dossier belongs to another department")
}

// CanRepair gates the reconciliation pass.
func CanRepair(actor domain.Actor) error {
	if HasGlobalScope(actor.Role) {
		return nil
	}
	return dErrors.New(dErrors.CodeForbidden, "role "+actor.Role.String()+" may not reconcile dossiers")
}

// ListScope returns the department filter to apply to administrative listings.
// ok is false when the role may not list at all; department is zero for a
// global listing.
func ListScope(actor domain.Actor) (department domain.DepartmentID, ok bool) {
	switch {
	case HasGlobalScope(actor.Role):
		return 0, true
	case actor.Role == domain.RoleDirecteurDepartemental:
		return actor.DepartmentID, true
	default:
		return 0, false
	}
}
