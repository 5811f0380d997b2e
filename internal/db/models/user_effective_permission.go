package models

import "time"

// SourceTypeRole marks compiled facts derived from role assignments.
// It is currently the only source type the compiler writes.
const SourceTypeRole = "role"

// UserEffectivePermission is a compiled permission fact: one row per
// (user, organization, permission_slug) the user currently holds through role
// assignment in that organization.
//
// This table is derived state, a hand-maintained materialized view over
// UserRoleAssignment and RolePermission. It is replaced wholesale per
// (user, organization) on every recompilation and must never be patched
// incrementally; the compiler is the single code path that writes it.
type UserEffectivePermission struct {
	// ID is the unique identifier for the fact row.
	ID uint64 `gorm:"primaryKey"`
	// UserID is the ID of the user holding the permission.
	UserID uint64 `gorm:"column:user_id;not null;index:idx_effective_user_org"`
	// OrganizationID is the organization the permission is held in.
	OrganizationID uint `gorm:"column:organization_id;not null;index:idx_effective_user_org"`
	// PermissionSlug is the denormalized permission slug. It is deliberately
	// not a foreign key so that permission checks are plain lookups.
	PermissionSlug string `gorm:"column:permission_slug;size:100;not null"`
	// SourceType records how the permission was derived (always "role").
	SourceType string `gorm:"column:source_type;size:20;not null;default:'role'"`
	// CompiledAt is the timestamp of the compilation run that produced the row.
	CompiledAt time.Time `gorm:"column:compiled_at;not null"`
}

// TableName specifies the database table name for the UserEffectivePermission model.
// This overrides GORM's default pluralized table naming.
func (UserEffectivePermission) TableName() string {
	return "user_effective_permissions"
}
