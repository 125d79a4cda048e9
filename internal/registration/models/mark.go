package models

import (
	"fmt"

	"immat/pkg/domain"
)

// Mark is a formatted registration mark such as "TAXI 001 A4".
type Mark string

// FormatMark renders "{class} {cursor:03d} {suffix}{department}".
func FormatMark(class VehicleClass, cursor int, suffix byte, department domain.DepartmentID) Mark {
	return Mark(fmt.Sprintf("%s %03d %c%d", class, cursor, suffix, department))
}

func (m Mark) String() string { return string(m) }

func (m Mark) IsZero() bool { return m == "" }
