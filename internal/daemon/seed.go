package daemon

import (
	"context"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/authz"
	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/authz/compiler"
	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/config"
	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/db/models"
)

// systemRoles maps the built-in global roles to the permission slugs they
// grant. These roles are marked basic and cannot be edited or deleted
// through the admin api.
var systemRoles = map[string][]string{
	"org_owner": allPermissionSlugs(),
	"warehouse_manager": {
		authz.PermHomeView,
		authz.PermBranchView,
		authz.PermProductsView,
		authz.PermProductsManage,
		authz.PermLocationsView,
		authz.PermLocationsManage,
		authz.PermLabelsGenerate,
		authz.PermAuditsView,
		authz.PermAuditsPerform,
	},
	"member": {
		authz.PermHomeView,
		authz.PermChatView,
		authz.PermAnnouncementsView,
	},
}

func allPermissionSlugs() []string {
	catalog := authz.Catalog()
	slugs := make([]string, 0, len(catalog))

	for _, entry := range catalog {
		slugs = append(slugs, entry.Slug)
	}

	return slugs
}

// seed brings the database to a usable state: the permission catalog, the
// global system roles and, on a completely empty install, a demo
// organization with one owner account.
func seed(_ *config.Config, db *gorm.DB, comp *compiler.Compiler) {
	seedPermissions(db)
	seedSystemRoles(db)
	seedInitialOrganization(db, comp)
}

// seedPermissions upserts the permission catalog. Labels follow the catalog
// on every start so a renamed label propagates without a migration.
func seedPermissions(db *gorm.DB) {
	for _, entry := range authz.Catalog() {
		perm := models.Permission{Slug: entry.Slug, Label: entry.Label}

		err := db.Where("slug = ?", entry.Slug).
			Assign(models.Permission{Label: entry.Label}).
			FirstOrCreate(&perm).Error
		if err != nil {
			log.Fatal().Err(err).Str("slug", entry.Slug).Msg("failed to seed permission")
		}
	}
}

func seedSystemRoles(db *gorm.DB) {
	for name, slugs := range systemRoles {
		role := models.Role{Name: name, IsBasic: true}

		err := db.Where("name = ? AND organization_id IS NULL", name).
			FirstOrCreate(&role).Error
		if err != nil {
			log.Fatal().Err(err).Str("role", name).Msg("failed to seed role")
		}

		seedRolePermissions(db, role.ID, slugs)
	}
}

// seedRolePermissions attaches missing edges only; it never removes edges,
// so a locally customized system role survives a restart.
func seedRolePermissions(db *gorm.DB, roleID uint, slugs []string) {
	var perms []models.Permission

	if err := db.Where("slug IN ?", slugs).Find(&perms).Error; err != nil {
		log.Fatal().Err(err).Msg("failed to load permissions for role seed")
	}

	for _, perm := range perms {
		edge := models.RolePermission{RoleID: roleID, PermissionID: perm.ID}

		err := db.Where("role_id = ? AND permission_id = ?", roleID, perm.ID).
			FirstOrCreate(&edge).Error
		if err != nil {
			log.Fatal().Err(err).Uint("role", roleID).Msg("failed to seed role permission")
		}
	}
}

// seedInitialOrganization creates a demo organization with an owner account
// when the install has no users at all.
func seedInitialOrganization(db *gorm.DB, comp *compiler.Compiler) {
	var count int64

	db.Model(&models.User{}).Count(&count)

	if count > 0 {
		return
	}

	org := models.Organization{Name: "Demo Organization", Slug: "demo"}
	if err := db.Create(&org).Error; err != nil {
		log.Fatal().Err(err).Msg("failed to seed organization")
	}

	ent := models.OrganizationEntitlements{
		OrganizationID: org.ID,
		Plan:           "pro",
		EnabledModules: []string{
			authz.ModuleHome,
			authz.ModuleWarehouse,
			authz.ModuleTeams,
			authz.ModuleOrgManagement,
			authz.ModuleAnalytics,
			authz.ModuleSupport,
		},
	}
	if err := db.Create(&ent).Error; err != nil {
		log.Fatal().Err(err).Msg("failed to seed entitlements")
	}

	branch := models.Branch{OrganizationID: org.ID, Name: "Main", Slug: "main"}
	if err := db.Create(&branch).Error; err != nil {
		log.Fatal().Err(err).Msg("failed to seed branch")
	}

	owner := models.User{
		Active:                true,
		Email:                 "owner@example.com",
		Password:              models.HashPassword("changeme"),
		FirstName:             "Demo",
		LastName:              "Owner",
		DefaultOrganizationID: &org.ID,
		DefaultBranchID:       &branch.ID,
	}
	if err := db.Create(&owner).Error; err != nil {
		log.Fatal().Err(err).Msg("failed to seed owner user")
	}

	member := models.OrganizationMember{
		OrganizationID: org.ID,
		UserID:         owner.ID,
		Status:         models.MemberStatusActive,
	}
	if err := db.Create(&member).Error; err != nil {
		log.Fatal().Err(err).Msg("failed to seed membership")
	}

	var ownerRole models.Role
	if err := db.Where("name = ? AND organization_id IS NULL", "org_owner").First(&ownerRole).Error; err != nil {
		log.Fatal().Err(err).Msg("owner role missing after seed")
	}

	assignment := models.UserRoleAssignment{
		UserID:  owner.ID,
		RoleID:  ownerRole.ID,
		Scope:   models.ScopeOrg,
		ScopeID: org.ID,
	}
	if err := db.Create(&assignment).Error; err != nil {
		log.Fatal().Err(err).Msg("failed to seed role assignment")
	}

	res := comp.CompileForUser(context.Background(), owner.ID, org.ID)
	if !res.Success {
		log.Fatal().Err(res.Err).Msg("failed to compile seeded owner permissions")
	}

	log.Info().
		Str("email", owner.Email).
		Int("permissions", res.PermissionCount).
		Msg("seeded demo organization; change the owner password after first login")
}
