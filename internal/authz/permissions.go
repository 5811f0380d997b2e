package authz

// Permission slug constants define the available permissions in the system.
// Every slug referenced by the navigation registry or a route guard must be
// one of these named constants, never an inline string literal, so that a
// renamed slug breaks the build instead of silently hiding a sidebar entry.
const (
	// PermHomeView allows viewing the organization home dashboard.
	PermHomeView = "home.view"

	// PermOrgUpdate allows editing organization profile and settings.
	PermOrgUpdate = "org.update"
	// PermOrgMembersView allows viewing the organization member list.
	PermOrgMembersView = "org.members.view"
	// PermOrgMembersManage allows inviting, suspending and removing members.
	PermOrgMembersManage = "org.members.manage"

	// PermBranchView allows viewing branches of the active organization.
	PermBranchView = "branch.view"
	// PermBranchManage allows creating, editing and deleting branches.
	PermBranchManage = "branch.manage"

	// PermProductsView allows browsing the product catalog.
	PermProductsView = "warehouse.products.view"
	// PermProductsManage allows creating and editing products and variants.
	PermProductsManage = "warehouse.products.manage"
	// PermLocationsView allows browsing warehouse storage locations.
	PermLocationsView = "warehouse.locations.view"
	// PermLocationsManage allows reorganizing warehouse storage locations.
	PermLocationsManage = "warehouse.locations.manage"
	// PermLabelsGenerate allows generating QR/barcode labels.
	PermLabelsGenerate = "warehouse.labels.generate"
	// PermAuditsView allows viewing stock audit history.
	PermAuditsView = "warehouse.audits.view"
	// PermAuditsPerform allows performing stock audits.
	PermAuditsPerform = "warehouse.audits.perform"

	// PermChatView allows access to team chat.
	PermChatView = "teams.chat.view"
	// PermAnnouncementsView allows reading organization announcements.
	PermAnnouncementsView = "teams.announcements.view"
	// PermAnnouncementsManage allows publishing organization announcements.
	PermAnnouncementsManage = "teams.announcements.manage"

	// PermUsersView allows viewing user accounts in organization management.
	PermUsersView = "org-management.users.view"
	// PermUsersManage allows managing user accounts in organization management.
	PermUsersManage = "org-management.users.manage"
	// PermRolesView allows viewing roles and their permission sets.
	PermRolesView = "org-management.roles.view"
	// PermRolesManage allows creating roles, editing role permissions,
	// assigning roles and setting permission overrides.
	PermRolesManage = "org-management.roles.manage"
	// PermBillingView allows viewing subscription and billing state.
	PermBillingView = "org-management.billing.view"
)

// CatalogEntry pairs a permission slug with its human readable label.
type CatalogEntry struct {
	Slug  string
	Label string
}

// Catalog returns every known permission with its label, in a stable order.
// The daemon seeds the permissions table from this list on startup.
func Catalog() []CatalogEntry {
	return []CatalogEntry{
		{PermHomeView, "View home dashboard"},
		{PermOrgUpdate, "Edit organization settings"},
		{PermOrgMembersView, "View organization members"},
		{PermOrgMembersManage, "Manage organization members"},
		{PermBranchView, "View branches"},
		{PermBranchManage, "Manage branches"},
		{PermProductsView, "View products"},
		{PermProductsManage, "Manage products"},
		{PermLocationsView, "View warehouse locations"},
		{PermLocationsManage, "Manage warehouse locations"},
		{PermLabelsGenerate, "Generate labels"},
		{PermAuditsView, "View stock audits"},
		{PermAuditsPerform, "Perform stock audits"},
		{PermChatView, "Access team chat"},
		{PermAnnouncementsView, "Read announcements"},
		{PermAnnouncementsManage, "Publish announcements"},
		{PermUsersView, "View user accounts"},
		{PermUsersManage, "Manage user accounts"},
		{PermRolesView, "View roles"},
		{PermRolesManage, "Manage roles"},
		{PermBillingView, "View billing"},
	}
}
