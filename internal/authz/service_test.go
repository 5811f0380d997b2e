package authz_test

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/authz"
	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/authz/compiler"
	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/db/models"
)

type fixture struct {
	db   *gorm.DB
	svc  *authz.Service
	comp *compiler.Compiler
	org  *models.Organization
	user *models.User
	role *models.Role
}

// newFixture seeds one organization, one user and one role granting the
// given permission slugs, with an org-scoped assignment between them.
func newFixture(t *testing.T, slugs ...string) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Organization{},
		&models.OrganizationEntitlements{},
		&models.Branch{},
		&models.User{},
		&models.Role{},
		&models.Permission{},
		&models.RolePermission{},
		&models.UserRoleAssignment{},
		&models.UserPermissionOverride{},
		&models.UserEffectivePermission{},
	)
	require.NoError(t, err)

	org := &models.Organization{Name: "Acme", Slug: "acme"}
	require.NoError(t, db.Create(org).Error)

	user := &models.User{Active: true, Email: "a@example.com"}
	require.NoError(t, db.Create(user).Error)

	role := &models.Role{Name: "tester"}
	require.NoError(t, db.Create(role).Error)

	for _, slug := range slugs {
		perm := models.Permission{Slug: slug}
		require.NoError(t, db.Where("slug = ?", slug).FirstOrCreate(&perm).Error)
		require.NoError(t, db.Create(&models.RolePermission{RoleID: role.ID, PermissionID: perm.ID}).Error)
	}

	assignment := &models.UserRoleAssignment{
		UserID:  user.ID,
		RoleID:  role.ID,
		Scope:   models.ScopeOrg,
		ScopeID: org.ID,
	}
	require.NoError(t, db.Create(assignment).Error)

	return &fixture{
		db:   db,
		svc:  authz.NewService(db),
		comp: compiler.New(db),
		org:  org,
		user: user,
		role: role,
	}
}

func (f *fixture) compile(t *testing.T) {
	t.Helper()

	res := f.comp.CompileForUser(context.Background(), f.user.ID, f.org.ID)
	require.True(t, res.Success, "compile failed: %v", res.Err)
}

func TestSnapshot_ReadsCompiledFacts(t *testing.T) {
	f := newFixture(t, authz.PermProductsView, authz.PermHomeView)
	f.compile(t)

	snap, err := f.svc.Snapshot(context.Background(), f.user.ID, f.org.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{authz.PermHomeView, authz.PermProductsView}, snap.AllowList())
	assert.Empty(t, snap.DenyList())
}

func TestSnapshot_StaleUntilCompiled(t *testing.T) {
	f := newFixture(t, authz.PermProductsView)

	// the assignment exists but was never compiled: checks read only the
	// fact table, so nothing is granted yet
	snap, err := f.svc.Snapshot(context.Background(), f.user.ID, f.org.ID)
	require.NoError(t, err)
	assert.Empty(t, snap.AllowList())

	f.compile(t)

	snap, err = f.svc.Snapshot(context.Background(), f.user.ID, f.org.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{authz.PermProductsView}, snap.AllowList())
}

func TestSnapshot_OverrideGrantAddsToAllow(t *testing.T) {
	f := newFixture(t, authz.PermProductsView)
	f.compile(t)

	perm := models.Permission{Slug: authz.PermLabelsGenerate}
	require.NoError(t, f.db.Create(&perm).Error)

	override := models.UserPermissionOverride{
		UserID:         f.user.ID,
		OrganizationID: f.org.ID,
		PermissionID:   perm.ID,
		IsGranted:      true,
	}
	require.NoError(t, f.db.Create(&override).Error)

	snap, err := f.svc.Snapshot(context.Background(), f.user.ID, f.org.ID)
	require.NoError(t, err)

	assert.True(t, snap.Has(authz.PermLabelsGenerate))
	assert.True(t, snap.Has(authz.PermProductsView))
}

func TestSnapshot_OverrideDenialWinsOverRoleGrant(t *testing.T) {
	f := newFixture(t, authz.PermProductsView)
	f.compile(t)

	var perm models.Permission
	require.NoError(t, f.db.Where("slug = ?", authz.PermProductsView).First(&perm).Error)

	override := models.UserPermissionOverride{
		UserID:         f.user.ID,
		OrganizationID: f.org.ID,
		PermissionID:   perm.ID,
		IsGranted:      false,
	}
	require.NoError(t, f.db.Create(&override).Error)

	snap, err := f.svc.Snapshot(context.Background(), f.user.ID, f.org.ID)
	require.NoError(t, err)

	assert.False(t, snap.Has(authz.PermProductsView))
	assert.Equal(t, []string{authz.PermProductsView}, snap.DenyList())
}

func TestHasPermission(t *testing.T) {
	f := newFixture(t, authz.PermOrgUpdate)
	f.compile(t)

	ok, err := f.svc.HasPermission(context.Background(), f.user.ID, f.org.ID, authz.PermOrgUpdate)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.svc.HasPermission(context.Background(), f.user.ID, f.org.ID, authz.PermBillingView)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasPermission_ScopedPerOrganization(t *testing.T) {
	f := newFixture(t, authz.PermOrgUpdate)
	f.compile(t)

	other := &models.Organization{Name: "Other", Slug: "other"}
	require.NoError(t, f.db.Create(other).Error)

	ok, err := f.svc.HasPermission(context.Background(), f.user.ID, other.ID, authz.PermOrgUpdate)
	require.NoError(t, err)
	assert.False(t, ok, "facts are per organization")
}

func TestEntitlements(t *testing.T) {
	f := newFixture(t)

	// missing record: nil, nil so callers fail closed
	ent, err := f.svc.Entitlements(context.Background(), f.org.ID)
	require.NoError(t, err)
	assert.Nil(t, ent)

	record := models.OrganizationEntitlements{
		OrganizationID: f.org.ID,
		Plan:           "pro",
		EnabledModules: []string{authz.ModuleWarehouse},
	}
	require.NoError(t, f.db.Create(&record).Error)

	ent, err = f.svc.Entitlements(context.Background(), f.org.ID)
	require.NoError(t, err)
	require.NotNil(t, ent)
	assert.True(t, ent.HasModule(authz.ModuleWarehouse))
	assert.False(t, ent.HasModule(authz.ModuleAnalytics))
}
