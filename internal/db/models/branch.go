package models

import (
	"time"

	"gorm.io/gorm"
)

// Branch represents a physical location (warehouse, shop, office) of an
// organization. Role assignments can be scoped to a single branch; such
// assignments still count toward the owning organization's compiled
// permission facts.
type Branch struct {
	// ID is the unique identifier for the branch.
	ID uint `gorm:"primaryKey"`
	// OrganizationID is the ID of the organization that owns this branch.
	OrganizationID uint `gorm:"column:organization_id;not null;uniqueIndex:idx_branch_org_slug"`
	// Organization is the owning organization (loaded via foreign key).
	Organization Organization `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE"`
	// Name is the display name of the branch.
	Name string `gorm:"size:255;not null"`
	// Slug is the URL-safe identifier of the branch, unique per organization.
	Slug string `gorm:"size:100;not null;uniqueIndex:idx_branch_org_slug"`
	// CreatedAt is the timestamp when the branch was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the branch was last updated (managed by GORM).
	UpdatedAt time.Time
	// DeletedAt is the soft delete timestamp (managed by GORM).
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the database table name for the Branch model.
// This overrides GORM's default pluralized table naming.
func (Branch) TableName() string {
	return "branches"
}
