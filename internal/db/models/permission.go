package models

import "time"

// Permission represents an atomic capability in the authorization system.
// Permissions are identified by a stable machine-readable slug in
// resource.action format (e.g., "org.update"). They are seeded
// administratively and treated as immutable once compiled facts reference
// their slug.
type Permission struct {
	// ID is the unique identifier for the permission.
	ID uint `gorm:"primaryKey"`
	// Slug is the stable unique permission key (e.g., "warehouse.products.manage").
	Slug string `gorm:"unique;size:100;not null"`
	// Label provides a human-readable name for the permission.
	Label string `gorm:"size:255"`
	// CreatedAt is the timestamp when the permission was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the permission was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Permission model.
// This overrides GORM's default pluralized table naming.
func (Permission) TableName() string {
	return "permissions"
}
