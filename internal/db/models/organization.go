package models

import (
	"time"

	"gorm.io/gorm"
)

// Organization represents a tenant of the application.
// Every branch, role assignment, entitlement record and compiled permission
// fact is owned by exactly one organization.
type Organization struct {
	// ID is the unique identifier for the organization.
	ID uint `gorm:"primaryKey"`
	// Name is the display name of the organization.
	Name string `gorm:"size:255;not null"`
	// Slug is the URL-safe unique identifier of the organization.
	Slug string `gorm:"unique;size:100;not null"`
	// CreatedAt is the timestamp when the organization was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the organization was last updated (managed by GORM).
	UpdatedAt time.Time
	// DeletedAt is the soft delete timestamp (managed by GORM).
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the database table name for the Organization model.
// This overrides GORM's default pluralized table naming.
func (Organization) TableName() string {
	return "organizations"
}
