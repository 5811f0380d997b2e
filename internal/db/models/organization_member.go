package models

import (
	"time"

	"gorm.io/gorm"
)

// MemberStatus represents the lifecycle state of an organization membership.
type MemberStatus string

const (
	// MemberStatusActive indicates a fully onboarded member.
	MemberStatusActive MemberStatus = "active"
	// MemberStatusInvited indicates an invitation that has not been accepted yet.
	MemberStatusInvited MemberStatus = "invited"
	// MemberStatusSuspended indicates a member whose access has been suspended.
	MemberStatusSuspended MemberStatus = "suspended"
)

// OrganizationMember links a user to an organization with a membership status.
// Organization-wide recompilation iterates over active members only.
type OrganizationMember struct {
	// ID is the unique identifier for the membership.
	ID uint `gorm:"primaryKey"`
	// OrganizationID is the ID of the organization.
	OrganizationID uint `gorm:"column:organization_id;not null;uniqueIndex:idx_member_org_user"`
	// UserID is the ID of the user.
	UserID uint64 `gorm:"column:user_id;not null;uniqueIndex:idx_member_org_user"`
	// Status is the membership status (active, invited, suspended).
	Status MemberStatus `gorm:"type:varchar(20);not null;default:'active'"`
	// Organization is the associated organization (loaded via foreign key).
	Organization Organization `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE"`
	// User is the associated user (loaded via foreign key).
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	// CreatedAt is the timestamp when the membership was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the membership was last updated (managed by GORM).
	UpdatedAt time.Time
	// DeletedAt is the soft delete timestamp (managed by GORM).
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the database table name for the OrganizationMember model.
// This overrides GORM's default pluralized table naming.
func (OrganizationMember) TableName() string {
	return "organization_members"
}
