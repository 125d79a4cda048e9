package models

import (
	"time"

	"github.com/google/uuid"

	"immat/pkg/domain"
)

// Allocation binds a vehicle to the mark it was given and the user who gave it.
type Allocation struct {
	ID          uuid.UUID
	VehicleID   domain.VehicleID
	Mark        Mark
	Key         CounterKey
	AllocatedBy domain.UserID
	AllocatedAt time.Time
}

// Department is an entry of the departments registry.
type Department struct {
	ID   domain.DepartmentID
	Name string
}

// DefaultDepartments seeds the in-memory registry. The database carries the
// same rows through its migrations.
var DefaultDepartments = []Department{
	{ID: 1, Name: "Alibori"},
	{ID: 2, Name: "Atacora"},
	{ID: 3, Name: "Atlantique"},
	{ID: 4, Name: "Borgou"},
	{ID: 5, Name: "Collines"},
	{ID: 6, Name: "Couffo"},
	{ID: 7, Name: "Donga"},
	{ID: 8, Name: "Littoral"},
	{ID: 9, Name: "Mono"},
	{ID: 10, Name: "Ouémé"},
	{ID: 11, Name: "Plateau"},
	{ID: 12, Name: "Zou"},
}
