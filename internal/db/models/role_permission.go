package models

import (
	"time"

	"gorm.io/gorm"
)

// RolePermission represents the many-to-many relationship between roles and
// permissions. A role's effective permission set is the union of slugs across
// its non-deleted edges. Edges are soft-deleted when a permission is removed
// from a role so that compiled facts can be audited against history.
type RolePermission struct {
	// ID is the unique identifier for the edge.
	ID uint `gorm:"primaryKey"`
	// RoleID is the ID of the role in this mapping.
	RoleID uint `gorm:"column:role_id;not null;index"`
	// PermissionID is the ID of the permission in this mapping.
	PermissionID uint `gorm:"column:permission_id;not null;index"`
	// Role is the associated role (loaded via foreign key).
	Role Role `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE"`
	// Permission is the associated permission (loaded via foreign key).
	Permission Permission `gorm:"foreignKey:PermissionID;constraint:OnDelete:CASCADE"`
	// CreatedAt is the timestamp when the edge was created (managed by GORM).
	CreatedAt time.Time
	// DeletedAt is the soft delete timestamp (managed by GORM).
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the database table name for the RolePermission model.
// This overrides GORM's default pluralized table naming.
func (RolePermission) TableName() string {
	return "role_permissions"
}
