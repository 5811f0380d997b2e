// Package navigation defines the static sidebar registry and the pure
// resolver that filters it against a permission snapshot and organization
// entitlements.
package navigation

// Item is a static, code-defined sidebar tree node. Items are authored once
// at build time and never mutated at runtime; the resolver filters copies.
//
// IconKey is a string lookup key resolved by the presentation layer, not a
// renderable object.
type Item struct {
	// ID is the stable identifier of the item.
	ID string `json:"id"`
	// Title is the display title of the item.
	Title string `json:"title"`
	// IconKey is the icon identifier string for the presentation layer.
	IconKey string `json:"iconKey,omitempty"`
	// Href is the optional navigation target.
	Href string `json:"href,omitempty"`
	// Match is the optional route-matching rule (path prefix).
	Match string `json:"match,omitempty"`
	// Children is the optional ordered list of child items.
	Children []Item `json:"children,omitempty"`
	// Visibility is the optional visibility rule; absence means always
	// visible, subject to parent pruning.
	Visibility *Visibility `json:"-"`
}

// Visibility is a conjunction of permission and module requirements.
// Every listed permission must be granted by the snapshot and every listed
// module must be enabled by the organization's entitlements.
type Visibility struct {
	RequiresPermissions []string
	RequiresModules     []string
}

// Registry is the static sidebar tree, split into main and footer sections.
type Registry struct {
	Main   []Item `json:"main"`
	Footer []Item `json:"footer"`
}

// Context carries auxiliary scoping data for a resolution. It is not used
// for active/selected state; that is a client-side, pathname-driven concern.
type Context struct {
	ActiveOrgID    uint
	ActiveBranchID uint
	UserModules    []string
}
