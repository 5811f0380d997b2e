// Package role provides CRUD operations for roles and their permission edges.
package role

import (
	"errors"

	"gorm.io/gorm"

	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/db/models"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrRoleNotFound is returned when a role is not found.
	ErrRoleNotFound = errors.New("role not found")
	// ErrRoleNameEmpty is returned when attempting to create a role with an empty name.
	ErrRoleNameEmpty = errors.New("role name cannot be empty")
	// ErrRoleIsBasic is returned when attempting to modify or delete a system role.
	ErrRoleIsBasic = errors.New("system roles cannot be modified")
	// ErrUnknownPermission is returned when a permission slug does not exist.
	ErrUnknownPermission = errors.New("unknown permission slug")
)

// Create creates a custom role. A nil orgID creates a global system-owned
// role and is reserved for seeding.
func Create(db *gorm.DB, orgID *uint, name, description string) (*models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if name == "" {
		return nil, ErrRoleNameEmpty
	}

	role := &models.Role{
		Name:           name,
		Description:    description,
		OrganizationID: orgID,
	}

	if result := db.Create(role); result.Error != nil {
		return nil, result.Error
	}

	return role, nil
}

// Get retrieves a role by its ID.
func Get(db *gorm.DB, id uint) (*models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var role models.Role
	result := db.First(&role, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, result.Error
	}

	return &role, nil
}

// ListForOrganization retrieves the roles assignable within an organization:
// its own custom roles plus the global system roles.
func ListForOrganization(db *gorm.DB, orgID uint) ([]models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var roles []models.Role
	result := db.Where("organization_id = ? OR organization_id IS NULL", orgID).
		Order("id").
		Find(&roles)
	if result.Error != nil {
		return nil, result.Error
	}

	return roles, nil
}

// SetPermissions replaces a role's permission set with the given slugs.
// Edges for slugs no longer granted are soft-deleted; missing edges are
// created. The whole replacement runs in one transaction.
//
// Callers must trigger RecompileForRole afterwards; this function only
// mutates the source-of-truth edges, never the compiled facts.
func SetPermissions(db *gorm.DB, roleID uint, slugs []string) error {
	if db == nil {
		return ErrDBNil
	}

	role, err := Get(db, roleID)
	if err != nil {
		return err
	}

	if role.IsBasic {
		return ErrRoleIsBasic
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var perms []models.Permission

		if len(slugs) > 0 {
			if err := tx.Where("slug IN ?", slugs).Find(&perms).Error; err != nil {
				return err
			}

			if len(perms) != len(slugs) {
				return ErrUnknownPermission
			}
		}

		wanted := make(map[uint]struct{}, len(perms))
		for _, p := range perms {
			wanted[p.ID] = struct{}{}
		}

		var edges []models.RolePermission
		if err := tx.Where("role_id = ?", roleID).Find(&edges).Error; err != nil {
			return err
		}

		existing := make(map[uint]struct{}, len(edges))

		for _, edge := range edges {
			existing[edge.PermissionID] = struct{}{}

			if _, keep := wanted[edge.PermissionID]; !keep {
				if err := tx.Delete(&models.RolePermission{}, edge.ID).Error; err != nil {
					return err
				}
			}
		}

		for _, p := range perms {
			if _, ok := existing[p.ID]; ok {
				continue
			}

			edge := models.RolePermission{RoleID: roleID, PermissionID: p.ID}
			if err := tx.Create(&edge).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// PermissionSlugs returns the slugs granted by a role's live edges.
func PermissionSlugs(db *gorm.DB, roleID uint) ([]string, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var slugs []string
	result := db.Table("role_permissions").
		Distinct("permissions.slug").
		Joins("JOIN permissions ON permissions.id = role_permissions.permission_id").
		Where("role_permissions.role_id = ?", roleID).
		Where("role_permissions.deleted_at IS NULL").
		Order("permissions.slug").
		Pluck("permissions.slug", &slugs)
	if result.Error != nil {
		return nil, result.Error
	}

	return slugs, nil
}

// Delete soft-deletes a custom role. System roles are protected.
// Assignments referencing the role keep their rows; the role simply stops
// contributing permissions once facts are recompiled.
func Delete(db *gorm.DB, id uint) error {
	if db == nil {
		return ErrDBNil
	}

	role, err := Get(db, id)
	if err != nil {
		return err
	}

	if role.IsBasic {
		return ErrRoleIsBasic
	}

	result := db.Delete(&models.Role{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRoleNotFound
	}

	return nil
}
