package domain

import "time"

// PermissionLevel orders employee privileges from lowest to highest.
type PermissionLevel int

const (
	LevelTechnician PermissionLevel = 1
	LevelDispatcher PermissionLevel = 2
	LevelApprover   PermissionLevel = 3
	LevelSuperadmin PermissionLevel = 4
)

// CanApprove reports whether the level carries appointment-approval privilege.
func (l PermissionLevel) CanApprove() bool {
	return l >= LevelApprover
}

// Employee models a dispatcher, approver or field technician.
type Employee struct {
	ID           string
	Name         string
	Nickname     string
	Email        string
	PasswordHash string
	Level        PermissionLevel
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
