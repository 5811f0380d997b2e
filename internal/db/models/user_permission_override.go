package models

import (
	"time"

	"gorm.io/gorm"
)

// UserPermissionOverride is an explicit per-user, per-organization grant or
// denial of a single permission. Overrides take precedence over role-derived
// permissions when the snapshot is assembled; a denial hides the permission
// even if a role grants it. At most one non-deleted override exists per
// (user, permission, organization) - updates replace rather than duplicate.
type UserPermissionOverride struct {
	// ID is the unique identifier for the override.
	ID uint `gorm:"primaryKey"`
	// UserID is the ID of the affected user.
	UserID uint64 `gorm:"column:user_id;not null;index"`
	// PermissionID is the ID of the overridden permission.
	PermissionID uint `gorm:"column:permission_id;not null"`
	// OrganizationID is the organization the override applies in.
	OrganizationID uint `gorm:"column:organization_id;not null;index"`
	// IsGranted is true for an explicit grant, false for an explicit denial.
	IsGranted bool `gorm:"column:is_granted;not null"`
	// Permission is the associated permission (loaded via foreign key).
	Permission Permission `gorm:"foreignKey:PermissionID;constraint:OnDelete:CASCADE"`
	// CreatedAt is the timestamp when the override was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the override was last updated (managed by GORM).
	UpdatedAt time.Time
	// DeletedAt is the soft delete timestamp (managed by GORM).
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the database table name for the UserPermissionOverride model.
// This overrides GORM's default pluralized table naming.
func (UserPermissionOverride) TableName() string {
	return "user_permission_overrides"
}
