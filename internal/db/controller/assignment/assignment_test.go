package assignment

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/authz"
	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(
		&models.Role{},
		&models.Permission{},
		&models.UserRoleAssignment{},
		&models.UserPermissionOverride{},
	)
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func seedRole(t *testing.T, db *gorm.DB, name string) *models.Role {
	t.Helper()

	role := &models.Role{Name: name}
	require.NoError(t, db.Create(role).Error)

	return role
}

func TestAssign(t *testing.T) {
	db := setupTestDB(t)
	role := seedRole(t, db, "viewer")

	created, err := Assign(db, 1, role.ID, models.ScopeOrg, 10)
	require.NoError(t, err)
	assert.Equal(t, models.ScopeOrg, created.Scope)
	assert.EqualValues(t, 10, created.ScopeID)

	// same role in the same scope is rejected
	_, err = Assign(db, 1, role.ID, models.ScopeOrg, 10)
	assert.ErrorIs(t, err, ErrDuplicateAssignment)

	// the same role in a different scope is a separate assignment
	_, err = Assign(db, 1, role.ID, models.ScopeBranch, 5)
	require.NoError(t, err)

	// unknown scopes are rejected
	_, err = Assign(db, 1, role.ID, "global", 1)
	assert.ErrorIs(t, err, ErrInvalidScope)
}

func TestRevoke(t *testing.T) {
	db := setupTestDB(t)
	role := seedRole(t, db, "viewer")

	_, err := Assign(db, 1, role.ID, models.ScopeOrg, 10)
	require.NoError(t, err)

	require.NoError(t, Revoke(db, 1, role.ID, models.ScopeOrg, 10))

	// the live row is gone
	assert.ErrorIs(t, Revoke(db, 1, role.ID, models.ScopeOrg, 10), ErrAssignmentNotFound)

	// re-assignment after revocation works (no duplicate among live rows)
	_, err = Assign(db, 1, role.ID, models.ScopeOrg, 10)
	require.NoError(t, err)
}

func TestListForUser(t *testing.T) {
	db := setupTestDB(t)
	viewer := seedRole(t, db, "viewer")
	manager := seedRole(t, db, "manager")

	_, err := Assign(db, 1, viewer.ID, models.ScopeOrg, 10)
	require.NoError(t, err)
	_, err = Assign(db, 1, manager.ID, models.ScopeBranch, 5)
	require.NoError(t, err)
	_, err = Assign(db, 2, viewer.ID, models.ScopeOrg, 10)
	require.NoError(t, err)

	assignments, err := ListForUser(db, 1)
	require.NoError(t, err)
	require.Len(t, assignments, 2)

	// Role association is preloaded
	assert.Equal(t, "viewer", assignments[0].Role.Name)
}

func TestSetOverride(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&models.Permission{Slug: authz.PermProductsView}).Error)

	_, err := SetOverride(db, 1, 10, "no.such.permission", true)
	assert.ErrorIs(t, err, ErrUnknownPermission)

	override, err := SetOverride(db, 1, 10, authz.PermProductsView, true)
	require.NoError(t, err)
	assert.True(t, override.IsGranted)
	assert.Equal(t, authz.PermProductsView, override.Permission.Slug)

	// flipping the override updates the row instead of duplicating it
	flipped, err := SetOverride(db, 1, 10, authz.PermProductsView, false)
	require.NoError(t, err)
	assert.False(t, flipped.IsGranted)
	assert.Equal(t, override.ID, flipped.ID)

	var count int64
	require.NoError(t, db.Model(&models.UserPermissionOverride{}).
		Where("user_id = ? AND organization_id = ?", 1, 10).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestClearOverride(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&models.Permission{Slug: authz.PermProductsView}).Error)

	_, err := SetOverride(db, 1, 10, authz.PermProductsView, false)
	require.NoError(t, err)

	require.NoError(t, ClearOverride(db, 1, 10, authz.PermProductsView))

	assert.ErrorIs(t, ClearOverride(db, 1, 10, authz.PermProductsView), ErrOverrideNotFound)
}
