package navigation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/authz"
	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/db/models"
)

func allModulesEntitlements() *models.OrganizationEntitlements {
	return &models.OrganizationEntitlements{
		Plan: "pro",
		EnabledModules: []string{
			authz.ModuleHome,
			authz.ModuleWarehouse,
			authz.ModuleTeams,
			authz.ModuleOrgManagement,
			authz.ModuleAnalytics,
			authz.ModuleSupport,
		},
	}
}

func ids(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}

	return out
}

func findItem(items []Item, id string) *Item {
	for i := range items {
		if items[i].ID == id {
			return &items[i]
		}
	}

	return nil
}

func TestResolve_NilEntitlementsFailClosed(t *testing.T) {
	snap := authz.NewSnapshot([]string{authz.PermProductsView, authz.PermChatView}, nil)

	resolved := Resolve(Default(), snap, nil, Context{})

	// every module-gated item is hidden, rule-less items survive
	assert.Equal(t, []string{"home"}, ids(resolved.Main))
	assert.Equal(t, []string{"account-settings"}, ids(resolved.Footer))
}

func TestResolve_EmptyAllowFailClosed(t *testing.T) {
	snap := authz.NewSnapshot(nil, nil)

	resolved := Resolve(Default(), snap, allModulesEntitlements(), Context{})

	// modules are all enabled but no permission-gated child survives, so all
	// module parents with children are pruned; analytics is a module-gated
	// leaf and stays
	assert.Equal(t, []string{"home", "analytics"}, ids(resolved.Main))
}

func TestResolve_DenyWinsOverAllow(t *testing.T) {
	allow := []string{authz.PermProductsView, authz.PermLocationsView}
	deny := []string{authz.PermProductsView}
	snap := authz.NewSnapshot(allow, deny)

	resolved := Resolve(Default(), snap, allModulesEntitlements(), Context{})

	warehouse := findItem(resolved.Main, "warehouse")
	require.NotNil(t, warehouse, "warehouse must survive via the locations child")
	assert.Equal(t, []string{"warehouse-locations"}, ids(warehouse.Children))
}

func TestResolve_ParentPrunedWhenAllChildrenFiltered(t *testing.T) {
	// warehouse module enabled, but no warehouse permission granted
	snap := authz.NewSnapshot([]string{authz.PermChatView}, nil)

	resolved := Resolve(Default(), snap, allModulesEntitlements(), Context{})

	assert.Nil(t, findItem(resolved.Main, "warehouse"))

	teams := findItem(resolved.Main, "teams")
	require.NotNil(t, teams)
	assert.Equal(t, []string{"teams-chat"}, ids(teams.Children))
}

func TestResolve_OrderPreserved(t *testing.T) {
	snap := authz.NewSnapshot([]string{
		authz.PermProductsView,
		authz.PermLocationsView,
		authz.PermLabelsGenerate,
		authz.PermAuditsView,
	}, nil)

	resolved := Resolve(Default(), snap, allModulesEntitlements(), Context{})

	warehouse := findItem(resolved.Main, "warehouse")
	require.NotNil(t, warehouse)
	assert.Equal(t,
		[]string{"warehouse-products", "warehouse-locations", "warehouse-labels", "warehouse-audits"},
		ids(warehouse.Children),
	)
}

func TestResolve_EmptyChildrenSliceIsLeaf(t *testing.T) {
	reg := Registry{
		Main: []Item{
			{ID: "empty-parent", Title: "Empty", Children: []Item{}},
			{ID: "nil-parent", Title: "Nil"},
		},
	}

	resolved := Resolve(reg, authz.NewSnapshot(nil, nil), allModulesEntitlements(), Context{})

	// a defined-but-empty children slice does not trigger parent pruning
	assert.Equal(t, []string{"empty-parent", "nil-parent"}, ids(resolved.Main))
}

func TestResolve_DoesNotMutateSource(t *testing.T) {
	source := Default()
	snap := authz.NewSnapshot([]string{authz.PermProductsView}, nil)

	_ = Resolve(source, snap, allModulesEntitlements(), Context{})

	warehouse := findItem(source.Main, "warehouse")
	require.NotNil(t, warehouse)
	assert.Len(t, warehouse.Children, 4, "source registry children must stay intact")
}

func TestResolve_Deterministic(t *testing.T) {
	snap := authz.NewSnapshot([]string{authz.PermProductsView, authz.PermAuditsView}, nil)
	ent := allModulesEntitlements()

	first, err := json.Marshal(Resolve(Default(), snap, ent, Context{}))
	require.NoError(t, err)

	second, err := json.Marshal(Resolve(Default(), snap, ent, Context{}))
	require.NoError(t, err)

	assert.JSONEq(t, string(first), string(second))
}

func TestResolve_VisibilityRulesNeverSerialized(t *testing.T) {
	snap := authz.NewSnapshot([]string{authz.PermProductsView}, nil)

	out, err := json.Marshal(Resolve(Default(), snap, allModulesEntitlements(), Context{}))
	require.NoError(t, err)

	assert.NotContains(t, string(out), "Visibility")
	assert.NotContains(t, string(out), "RequiresPermissions")
	assert.NotContains(t, string(out), "RequiresModules")
}

func TestDefault_RegistryShape(t *testing.T) {
	reg := Default()

	require.NotEmpty(t, reg.Main)
	require.NotEmpty(t, reg.Footer)

	// the home entry carries no visibility rule and is always first
	assert.Equal(t, "home", reg.Main[0].ID)
	assert.Nil(t, reg.Main[0].Visibility)
}
