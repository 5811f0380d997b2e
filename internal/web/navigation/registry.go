package navigation

import (
	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/authz"
)

// Default returns the application sidebar registry.
//
// Every permission and module slug below is a named constant from the authz
// package; inline string literals are forbidden here so slug renames surface
// at compile time instead of silently hiding entries.
func Default() Registry {
	return Registry{
		Main: []Item{
			{
				ID:      "home",
				Title:   "Home",
				IconKey: "house",
				Href:    "/dashboard",
				Match:   "/dashboard",
			},
			{
				ID:      "warehouse",
				Title:   "Warehouse",
				IconKey: "package",
				Match:   "/warehouse",
				Visibility: &Visibility{
					RequiresModules: []string{authz.ModuleWarehouse},
				},
				Children: []Item{
					{
						ID:      "warehouse-products",
						Title:   "Products",
						IconKey: "boxes",
						Href:    "/warehouse/products",
						Match:   "/warehouse/products",
						Visibility: &Visibility{
							RequiresPermissions: []string{authz.PermProductsView},
						},
					},
					{
						ID:      "warehouse-locations",
						Title:   "Locations",
						IconKey: "map-pin",
						Href:    "/warehouse/locations",
						Match:   "/warehouse/locations",
						Visibility: &Visibility{
							RequiresPermissions: []string{authz.PermLocationsView},
						},
					},
					{
						ID:      "warehouse-labels",
						Title:   "Labels",
						IconKey: "qr-code",
						Href:    "/warehouse/labels",
						Match:   "/warehouse/labels",
						Visibility: &Visibility{
							RequiresPermissions: []string{authz.PermLabelsGenerate},
						},
					},
					{
						ID:      "warehouse-audits",
						Title:   "Audits",
						IconKey: "clipboard-check",
						Href:    "/warehouse/audits",
						Match:   "/warehouse/audits",
						Visibility: &Visibility{
							RequiresPermissions: []string{authz.PermAuditsView},
						},
					},
				},
			},
			{
				ID:      "teams",
				Title:   "Teams",
				IconKey: "users",
				Match:   "/teams",
				Visibility: &Visibility{
					RequiresModules: []string{authz.ModuleTeams},
				},
				Children: []Item{
					{
						ID:      "teams-chat",
						Title:   "Chat",
						IconKey: "message-circle",
						Href:    "/teams/chat",
						Match:   "/teams/chat",
						Visibility: &Visibility{
							RequiresPermissions: []string{authz.PermChatView},
						},
					},
					{
						ID:      "teams-announcements",
						Title:   "Announcements",
						IconKey: "megaphone",
						Href:    "/teams/announcements",
						Match:   "/teams/announcements",
						Visibility: &Visibility{
							RequiresPermissions: []string{authz.PermAnnouncementsView},
						},
					},
				},
			},
			{
				ID:      "org-management",
				Title:   "Organization",
				IconKey: "building",
				Match:   "/org",
				Visibility: &Visibility{
					RequiresModules: []string{authz.ModuleOrgManagement},
				},
				Children: []Item{
					{
						ID:      "org-users",
						Title:   "Users",
						IconKey: "user-cog",
						Href:    "/org/users",
						Match:   "/org/users",
						Visibility: &Visibility{
							RequiresPermissions: []string{authz.PermUsersView},
						},
					},
					{
						ID:      "org-roles",
						Title:   "Roles",
						IconKey: "shield",
						Href:    "/org/roles",
						Match:   "/org/roles",
						Visibility: &Visibility{
							RequiresPermissions: []string{authz.PermRolesView},
						},
					},
					{
						ID:      "org-branches",
						Title:   "Branches",
						IconKey: "git-branch",
						Href:    "/org/branches",
						Match:   "/org/branches",
						Visibility: &Visibility{
							RequiresPermissions: []string{authz.PermBranchView},
						},
					},
					{
						ID:      "org-billing",
						Title:   "Billing",
						IconKey: "credit-card",
						Href:    "/org/billing",
						Match:   "/org/billing",
						Visibility: &Visibility{
							RequiresPermissions: []string{authz.PermBillingView},
						},
					},
				},
			},
			{
				ID:      "analytics",
				Title:   "Analytics",
				IconKey: "bar-chart",
				Href:    "/analytics",
				Match:   "/analytics",
				Visibility: &Visibility{
					RequiresModules: []string{authz.ModuleAnalytics},
				},
			},
		},
		Footer: []Item{
			{
				ID:      "support",
				Title:   "Support",
				IconKey: "life-buoy",
				Href:    "/support",
				Match:   "/support",
				Visibility: &Visibility{
					RequiresModules: []string{authz.ModuleSupport},
				},
			},
			{
				ID:      "account-settings",
				Title:   "Account",
				IconKey: "settings",
				Href:    "/account",
				Match:   "/account",
			},
		},
	}
}
