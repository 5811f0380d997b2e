// Package assignment provides CRUD operations for role assignments and
// per-user permission overrides. It mutates the source of truth only; the
// permission compiler owns the derived fact table.
package assignment

import (
	"errors"

	"gorm.io/gorm"

	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/db/models"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrDuplicateAssignment is returned when the same role is already
	// assigned to the user in the same scope.
	ErrDuplicateAssignment = errors.New("role already assigned in this scope")
	// ErrAssignmentNotFound is returned when no live assignment matches.
	ErrAssignmentNotFound = errors.New("role assignment not found")
	// ErrInvalidScope is returned for a scope other than org or branch.
	ErrInvalidScope = errors.New("scope must be org or branch")
	// ErrUnknownPermission is returned when a permission slug does not exist.
	ErrUnknownPermission = errors.New("unknown permission slug")
	// ErrOverrideNotFound is returned when no live override matches.
	ErrOverrideNotFound = errors.New("permission override not found")
)

// Assign grants a role to a user within a scope. Assigning the same role
// twice in the same scope among live rows is rejected.
//
// Uniqueness is checked inside the insert transaction. Soft-deleted rows keep
// the same key, so a plain unique index would block re-assignment after a
// revoke, and mysql has no partial indexes; admin mutations go through the
// single web process, which keeps the check-then-insert window harmless.
func Assign(db *gorm.DB, userID uint64, roleID uint, scope models.AssignmentScope, scopeID uint) (*models.UserRoleAssignment, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if scope != models.ScopeOrg && scope != models.ScopeBranch {
		return nil, ErrInvalidScope
	}

	a := &models.UserRoleAssignment{
		UserID:  userID,
		RoleID:  roleID,
		Scope:   scope,
		ScopeID: scopeID,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var count int64

		err := tx.Model(&models.UserRoleAssignment{}).
			Where("user_id = ? AND role_id = ? AND scope = ? AND scope_id = ?",
				userID, roleID, scope, scopeID).
			Count(&count).Error
		if err != nil {
			return err
		}

		if count > 0 {
			return ErrDuplicateAssignment
		}

		return tx.Create(a).Error
	})
	if err != nil {
		return nil, err
	}

	return a, nil
}

// Revoke soft-deletes a live assignment matching the given key.
func Revoke(db *gorm.DB, userID uint64, roleID uint, scope models.AssignmentScope, scopeID uint) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Where("user_id = ? AND role_id = ? AND scope = ? AND scope_id = ?",
		userID, roleID, scope, scopeID).
		Delete(&models.UserRoleAssignment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAssignmentNotFound
	}

	return nil
}

// ListForUser retrieves a user's live role assignments across all scopes.
func ListForUser(db *gorm.DB, userID uint64) ([]models.UserRoleAssignment, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var assignments []models.UserRoleAssignment
	result := db.Preload("Role").
		Where("user_id = ?", userID).
		Order("id").
		Find(&assignments)
	if result.Error != nil {
		return nil, result.Error
	}

	return assignments, nil
}

// SetOverride creates or updates the explicit grant/deny of a permission for
// a user in an organization. At most one live override exists per
// (user, permission, organization); an existing row is updated in place.
func SetOverride(db *gorm.DB, userID uint64, orgID uint, slug string, isGranted bool) (*models.UserPermissionOverride, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var perm models.Permission

	err := db.Where("slug = ?", slug).First(&perm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownPermission
		}

		return nil, err
	}

	var override models.UserPermissionOverride

	err = db.Where("user_id = ? AND permission_id = ? AND organization_id = ?",
		userID, perm.ID, orgID).
		First(&override).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		override = models.UserPermissionOverride{
			UserID:         userID,
			PermissionID:   perm.ID,
			OrganizationID: orgID,
			IsGranted:      isGranted,
		}

		if result := db.Create(&override); result.Error != nil {
			return nil, result.Error
		}
	case err != nil:
		return nil, err
	default:
		override.IsGranted = isGranted
		if result := db.Save(&override); result.Error != nil {
			return nil, result.Error
		}
	}

	override.Permission = perm

	return &override, nil
}

// ClearOverride soft-deletes the live override for (user, permission slug,
// organization).
func ClearOverride(db *gorm.DB, userID uint64, orgID uint, slug string) error {
	if db == nil {
		return ErrDBNil
	}

	var perm models.Permission

	err := db.Where("slug = ?", slug).First(&perm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUnknownPermission
		}

		return err
	}

	result := db.Where("user_id = ? AND permission_id = ? AND organization_id = ?",
		userID, perm.ID, orgID).
		Delete(&models.UserPermissionOverride{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOverrideNotFound
	}

	return nil
}
