package navigation

import (
	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/authz"
	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/db/models"
)

// Resolve filters the registry against the permission snapshot and the
// organization's entitlements, returning a new tree containing only the
// items the user/organization combination is entitled to see.
//
// Resolve is a pure function: it reads no clock, no globals and no request
// state, never mutates the source registry, and identical inputs always
// produce deep-equal output. Callers may memoize it per request but must
// never share a memoized result across users or organizations.
//
// All ambiguity is fail-closed: nil entitlements hide every module-gated
// item and an empty allow-set hides every permission-gated item.
func Resolve(reg Registry, snap authz.Snapshot, ent *models.OrganizationEntitlements, _ Context) Registry {
	return Registry{
		Main:   filterItems(reg.Main, snap, ent),
		Footer: filterItems(reg.Footer, snap, ent),
	}
}

// filterItems filters a sibling list depth-first, preserving order.
func filterItems(items []Item, snap authz.Snapshot, ent *models.OrganizationEntitlements) []Item {
	out := make([]Item, 0, len(items))

	for _, item := range items {
		if !visible(item.Visibility, snap, ent) {
			continue
		}

		if item.Children == nil {
			// Leaf: its own rule alone decides.
			out = append(out, item)
			continue
		}

		if len(item.Children) == 0 {
			// A defined-but-empty children slice behaves like a leaf.
			out = append(out, item)
			continue
		}

		children := filterItems(item.Children, snap, ent)
		if len(children) == 0 {
			// Parent with all children filtered out is pruned entirely,
			// even if its own rule passes.
			continue
		}

		item.Children = children
		out = append(out, item)
	}

	return out
}

// visible evaluates an item's own visibility rule.
func visible(rule *Visibility, snap authz.Snapshot, ent *models.OrganizationEntitlements) bool {
	if rule == nil {
		return true
	}

	if len(rule.RequiresModules) > 0 {
		// Missing entitlement data must never read as "allow everything".
		if ent == nil {
			return false
		}

		for _, module := range rule.RequiresModules {
			if !ent.HasModule(module) {
				return false
			}
		}
	}

	for _, slug := range rule.RequiresPermissions {
		if !snap.Has(slug) {
			return false
		}
	}

	return true
}
