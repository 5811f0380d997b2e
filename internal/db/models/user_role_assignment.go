package models

import (
	"time"

	"gorm.io/gorm"
)

// AssignmentScope is the boundary at which a role assignment applies.
type AssignmentScope string

const (
	// ScopeOrg scopes an assignment to a whole organization; ScopeID holds
	// the organization id.
	ScopeOrg AssignmentScope = "org"
	// ScopeBranch scopes an assignment to a single branch; ScopeID holds the
	// branch id. Branch assignments count toward the owning organization's
	// compiled facts.
	ScopeBranch AssignmentScope = "branch"
)

// UserRoleAssignment grants a role to a user within a scope.
// At most one non-deleted assignment may exist per (user, role, scope,
// scope_id); the assignment controller rejects duplicates. Revocation
// soft-deletes the row, after which the compiler must be rerun for the
// affected (user, organization) pair.
type UserRoleAssignment struct {
	// ID is the unique identifier for the assignment.
	ID uint `gorm:"primaryKey"`
	// UserID is the ID of the user receiving the role.
	UserID uint64 `gorm:"column:user_id;not null;index"`
	// RoleID is the ID of the granted role.
	RoleID uint `gorm:"column:role_id;not null;index"`
	// Scope discriminates between organization and branch scoped grants.
	Scope AssignmentScope `gorm:"type:varchar(10);not null"`
	// ScopeID is the organization id (scope=org) or branch id (scope=branch).
	ScopeID uint `gorm:"column:scope_id;not null"`
	// Role is the associated role (loaded via foreign key).
	Role Role `gorm:"foreignKey:RoleID;constraint:OnDelete:RESTRICT"`
	// User is the associated user (loaded via foreign key).
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	// CreatedAt is the timestamp when the assignment was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the assignment was last updated (managed by GORM).
	UpdatedAt time.Time
	// DeletedAt is the soft delete timestamp (managed by GORM).
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the database table name for the UserRoleAssignment model.
// This overrides GORM's default pluralized table naming.
func (UserRoleAssignment) TableName() string {
	return "user_role_assignments"
}
