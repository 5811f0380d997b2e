package models

import (
	"time"

	"gorm.io/gorm"
)

// Role represents a named bundle of permissions in the role-based access
// control (RBAC) system. Roles are assigned to users at organization or
// branch scope and expanded into flattened permission facts by the compiler.
type Role struct {
	// ID is the unique identifier for the role.
	ID uint `gorm:"primaryKey"`
	// Name is the name of the role (e.g., "org_owner", "warehouse_manager").
	Name string `gorm:"size:100;not null"`
	// Description provides a human-readable description of the role's purpose.
	Description string `gorm:"size:255"`
	// IsBasic indicates a system-defined role that cannot be edited or deleted.
	IsBasic bool `gorm:"column:is_basic;default:false"`
	// OrganizationID is the owning organization for custom roles.
	// A nil value marks a global system role available to every organization.
	OrganizationID *uint `gorm:"column:organization_id;index"`
	// CreatedAt is the timestamp when the role was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the role was last updated (managed by GORM).
	UpdatedAt time.Time
	// DeletedAt is the soft delete timestamp (managed by GORM).
	// Roles are never hard-deleted while assignments reference them.
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the database table name for the Role model.
// This overrides GORM's default pluralized table naming.
func (Role) TableName() string {
	return "roles"
}
