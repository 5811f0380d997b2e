// Package authz implements the read side of the "compile, don't evaluate"
// authorization model: permission snapshots assembled from compiled facts
// plus per-user overrides, and fast boolean checks against them.
package authz

import "sort"

// Snapshot is the per-request materialization of a user's effective
// permissions in the active organization. Allow holds role-derived grants
// (from compiled facts) merged with explicit override grants; Deny holds
// explicit override denials. Deny always wins over Allow.
type Snapshot struct {
	Allow map[string]struct{}
	Deny  map[string]struct{}
}

// NewSnapshot builds a snapshot from allow and deny slug lists.
func NewSnapshot(allow, deny []string) Snapshot {
	s := Snapshot{
		Allow: make(map[string]struct{}, len(allow)),
		Deny:  make(map[string]struct{}, len(deny)),
	}

	for _, slug := range allow {
		s.Allow[slug] = struct{}{}
	}

	for _, slug := range deny {
		s.Deny[slug] = struct{}{}
	}

	return s
}

// Has reports whether the snapshot grants the permission slug.
// A slug present in Deny is never granted, regardless of Allow.
func (s Snapshot) Has(slug string) bool {
	if _, denied := s.Deny[slug]; denied {
		return false
	}

	_, ok := s.Allow[slug]

	return ok
}

// HasAll reports whether every given slug is granted.
// An empty slug list is trivially satisfied.
func (s Snapshot) HasAll(slugs ...string) bool {
	for _, slug := range slugs {
		if !s.Has(slug) {
			return false
		}
	}

	return true
}

// HasAny reports whether at least one of the given slugs is granted.
func (s Snapshot) HasAny(slugs ...string) bool {
	for _, slug := range slugs {
		if s.Has(slug) {
			return true
		}
	}

	return false
}

// AllowList returns the granted slugs (allow minus deny) in sorted order.
func (s Snapshot) AllowList() []string {
	out := make([]string, 0, len(s.Allow))

	for slug := range s.Allow {
		if _, denied := s.Deny[slug]; denied {
			continue
		}

		out = append(out, slug)
	}

	sort.Strings(out)

	return out
}

// DenyList returns the explicitly denied slugs in sorted order.
func (s Snapshot) DenyList() []string {
	out := make([]string, 0, len(s.Deny))

	for slug := range s.Deny {
		out = append(out, slug)
	}

	sort.Strings(out)

	return out
}
