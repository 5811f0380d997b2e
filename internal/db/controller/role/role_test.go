package role

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

	err = db.AutoMigrate(&models.Role{}, &models.Permission{}, &models.RolePermission{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

// seedPermissions inserts permission rows for the given slugs.
func seedPermissions(t *testing.T, db *gorm.DB, slugs ...string) {
	t.Helper()

	for _, slug := range slugs {
		require.NoError(t, db.Create(&models.Permission{Slug: slug}).Error)
	}
}

func TestCreate(t *testing.T) {
	db := setupTestDB(t)
	orgID := uint(1)

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		orgID         *uint
		roleName      string
		expectedError error
	}{
		{
			name:          "nil database",
			dbParam:       nil,
			roleName:      "viewer",
			expectedError: ErrDBNil,
		},
		{
			name:          "empty name",
			dbParam:       db,
			expectedError: ErrRoleNameEmpty,
		},
		{
			name:     "custom role",
			dbParam:  db,
			orgID:    &orgID,
			roleName: "shift-lead",
		},
		{
			name:     "global role",
			dbParam:  db,
			roleName: "auditor",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			created, err := Create(tc.dbParam, tc.orgID, tc.roleName, "desc")

			if tc.expectedError != nil {
				assert.ErrorIs(t, err, tc.expectedError)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.roleName, created.Name)
			assert.Equal(t, tc.orgID, created.OrganizationID)
		})
	}
}

func TestListForOrganization(t *testing.T) {
	db := setupTestDB(t)

	org1 := uint(1)
	org2 := uint(2)

	_, err := Create(db, nil, "global", "")
	require.NoError(t, err)
	_, err = Create(db, &org1, "org1-custom", "")
	require.NoError(t, err)
	_, err = Create(db, &org2, "org2-custom", "")
	require.NoError(t, err)

	roles, err := ListForOrganization(db, org1)
	require.NoError(t, err)

	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.Name)
	}

	// own roles plus global ones; never another organization's roles
	assert.Equal(t, []string{"global", "org1-custom"}, names)
}

func TestSetPermissions(t *testing.T) {
	db := setupTestDB(t)
	seedPermissions(t, db, authz.PermProductsView, authz.PermProductsManage, authz.PermAuditsView)

	role, err := Create(db, nil, "warehouse", "")
	require.NoError(t, err)

	// initial set
	err = SetPermissions(db, role.ID, []string{authz.PermProductsView, authz.PermProductsManage})
	require.NoError(t, err)

	slugs, err := PermissionSlugs(db, role.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{authz.PermProductsManage, authz.PermProductsView}, slugs)

	// replacement drops manage, adds audits
	err = SetPermissions(db, role.ID, []string{authz.PermProductsView, authz.PermAuditsView})
	require.NoError(t, err)

	slugs, err = PermissionSlugs(db, role.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{authz.PermAuditsView, authz.PermProductsView}, slugs)

	// empty set clears all edges
	err = SetPermissions(db, role.ID, nil)
	require.NoError(t, err)

	slugs, err = PermissionSlugs(db, role.ID)
	require.NoError(t, err)
	assert.Empty(t, slugs)
}

func TestSetPermissions_Errors(t *testing.T) {
	db := setupTestDB(t)
	seedPermissions(t, db, authz.PermProductsView)

	role, err := Create(db, nil, "custom", "")
	require.NoError(t, err)

	basic := &models.Role{Name: "org_owner", IsBasic: true}
	require.NoError(t, db.Create(basic).Error)

	err = SetPermissions(db, role.ID, []string{"no.such.permission"})
	assert.ErrorIs(t, err, ErrUnknownPermission)

	err = SetPermissions(db, basic.ID, []string{authz.PermProductsView})
	assert.ErrorIs(t, err, ErrRoleIsBasic)

	err = SetPermissions(db, 9999, []string{authz.PermProductsView})
	assert.ErrorIs(t, err, ErrRoleNotFound)
}

func TestDelete(t *testing.T) {
	db := setupTestDB(t)

	role, err := Create(db, nil, "temp", "")
	require.NoError(t, err)

	basic := &models.Role{Name: "org_owner", IsBasic: true}
	require.NoError(t, db.Create(basic).Error)

	assert.ErrorIs(t, Delete(db, basic.ID), ErrRoleIsBasic)
	assert.ErrorIs(t, Delete(db, 9999), ErrRoleNotFound)

	require.NoError(t, Delete(db, role.ID))

	_, err = Get(db, role.ID)
	assert.ErrorIs(t, err, ErrRoleNotFound, "soft-deleted roles are invisible")
}
