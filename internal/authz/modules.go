package authz

// Module slug constants identify the subscription-gated application modules.
// An organization's entitlement record lists the modules its plan unlocks;
// the sidebar resolver hides registry items whose module requirements are not
// covered. Like permission slugs, module slugs in the registry must be these
// named constants.
const (
	// ModuleHome is the always-on landing module.
	ModuleHome = "home"
	// ModuleWarehouse covers products, locations, labels and audits.
	ModuleWarehouse = "warehouse"
	// ModuleTeams covers chat and announcements.
	ModuleTeams = "teams"
	// ModuleOrgManagement covers users, roles and billing administration.
	ModuleOrgManagement = "org-management"
	// ModuleAnalytics covers reporting dashboards (paid plans only).
	ModuleAnalytics = "analytics"
	// ModuleSupport covers the in-app support center.
	ModuleSupport = "support"
)
