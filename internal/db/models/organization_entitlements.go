package models

import (
	"time"

	"gorm.io/datatypes"
)

// OrganizationEntitlements records an organization's subscription-derived
// enabled modules, contexts and limits. It is a read-only input to the
// sidebar resolver; the billing layer owns its lifecycle.
type OrganizationEntitlements struct {
	// ID is the unique identifier for the entitlement record.
	ID uint `gorm:"primaryKey"`
	// OrganizationID is the organization the entitlements apply to.
	OrganizationID uint `gorm:"column:organization_id;not null;uniqueIndex"`
	// Plan is the subscription plan slug (e.g., "free", "pro").
	Plan string `gorm:"size:50;not null;default:'free'"`
	// EnabledModules is the set of module slugs the plan unlocks.
	EnabledModules datatypes.JSONSlice[string] `gorm:"column:enabled_modules"`
	// EnabledContexts is the set of feature context slugs the plan unlocks.
	EnabledContexts datatypes.JSONSlice[string] `gorm:"column:enabled_contexts"`
	// MemberLimit is the maximum number of active members, 0 meaning unlimited.
	MemberLimit int `gorm:"column:member_limit;default:0"`
	// CreatedAt is the timestamp when the record was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the record was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the OrganizationEntitlements model.
// This overrides GORM's default pluralized table naming.
func (OrganizationEntitlements) TableName() string {
	return "organization_entitlements"
}

// HasModule reports whether the given module slug is enabled.
func (e *OrganizationEntitlements) HasModule(slug string) bool {
	for _, m := range e.EnabledModules {
		if m == slug {
			return true
		}
	}

	return false
}
