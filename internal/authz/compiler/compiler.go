// Package compiler implements the write side of the "compile, don't
// evaluate" authorization model. It flattens the role-assignment graph
// (user_role_assignments -> role_permissions -> permissions) into explicit
// per-user facts in user_effective_permissions, so that permission checks at
// read time are plain existence lookups.
//
// The fact table is derived state. The compiler is its only writer and always
// replaces the full fact set for a (user, organization) pair inside one
// transaction; incremental patching is forbidden.
package compiler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/db/models"
)

const defaultWorkers = 4

// ErrDBNil is returned when the database connection is nil.
var ErrDBNil = errors.New("database connection is nil")

// Invalidator drops any cached snapshot for a (user, organization) pair.
// The authz snapshot service satisfies this interface.
type Invalidator interface {
	InvalidateSnapshot(ctx context.Context, userID uint64, orgID uint)
}

// CompileResult is the outcome of compiling one (user, organization) pair.
type CompileResult struct {
	// Success is false iff a store operation failed.
	Success bool
	// PermissionCount is the number of distinct compiled permission slugs.
	PermissionCount int
	// Err carries the store failure when Success is false.
	Err error
}

// RecompileResult is the aggregate outcome of a batch recompilation.
type RecompileResult struct {
	// Success is true iff every individual compilation succeeded.
	Success bool
	// UsersUpdated counts the (user, organization) pairs compiled successfully.
	UsersUpdated int
	// Errors collects per-user failures; the batch never aborts early.
	Errors []error
}

// Compiler flattens role assignments into compiled permission facts.
type Compiler struct {
	db          *gorm.DB
	workers     int
	invalidator Invalidator
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithWorkers bounds the number of concurrent per-user compilations during
// batch recompilation.
func WithWorkers(n int) Option {
	return func(c *Compiler) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithInvalidator registers a snapshot cache to invalidate after each
// successful compilation.
func WithInvalidator(inv Invalidator) Option {
	return func(c *Compiler) {
		c.invalidator = inv
	}
}

// New creates a new permission compiler.
func New(db *gorm.DB, opts ...Option) *Compiler {
	c := &Compiler{
		db:      db,
		workers: defaultWorkers,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// userOrg identifies one compilation unit.
type userOrg struct {
	userID uint64
	orgID  uint
}

// CompileForUser rebuilds the compiled permission facts for one user in one
// organization. It resolves the user's live role assignments (org scope
// matching the organization directly, branch scope resolving through the
// branch's owning organization), expands them to the distinct set of granted
// permission slugs and replaces the fact rows for the pair wholesale.
//
// A user with no relevant roles is a valid zero-permission outcome: existing
// facts are removed and the result is a success with count 0.
//
// Store failures are returned inside the result, never panicked, so batch
// callers can keep processing other users.
func (c *Compiler) CompileForUser(ctx context.Context, userID uint64, orgID uint) CompileResult {
	if c.db == nil {
		return CompileResult{Err: ErrDBNil}
	}

	roleIDs, err := c.relevantRoleIDs(ctx, userID, orgID)
	if err != nil {
		return CompileResult{Err: err}
	}

	if len(roleIDs) == 0 {
		// No roles held in this organization: clear any stale facts.
		err = c.db.WithContext(ctx).
			Where("user_id = ? AND organization_id = ?", userID, orgID).
			Delete(&models.UserEffectivePermission{}).Error
		if err != nil {
			observeCompilation(false)
			return CompileResult{Err: fmt.Errorf("failed to clear compiled permissions: %w", err)}
		}

		observeCompilation(true)
		c.invalidate(ctx, userID, orgID)

		return CompileResult{Success: true}
	}

	slugs, err := c.permissionSlugs(ctx, roleIDs)
	if err != nil {
		observeCompilation(false)
		return CompileResult{Err: err}
	}

	// The replacement runs in a single transaction so a failure can never
	// leave the user in a zero-permission window between delete and insert.
	now := time.Now().UTC()
	facts := make([]models.UserEffectivePermission, 0, len(slugs))

	for _, slug := range slugs {
		facts = append(facts, models.UserEffectivePermission{
			UserID:         userID,
			OrganizationID: orgID,
			PermissionSlug: slug,
			SourceType:     models.SourceTypeRole,
			CompiledAt:     now,
		})
	}

	err = c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND organization_id = ?", userID, orgID).
			Delete(&models.UserEffectivePermission{}).Error; err != nil {
			return fmt.Errorf("failed to delete compiled permissions: %w", err)
		}

		// Roles can resolve to zero slugs (no edges, or narrowed to
		// nothing); that is a delete-only replacement, not an error.
		if len(facts) == 0 {
			return nil
		}

		if err := tx.Create(&facts).Error; err != nil {
			return fmt.Errorf("failed to insert compiled permissions: %w", err)
		}

		return nil
	})
	if err != nil {
		observeCompilation(false)
		return CompileResult{Err: err}
	}

	observeCompilation(true)
	observeCompiledPermissions(len(slugs))
	c.invalidate(ctx, userID, orgID)

	return CompileResult{Success: true, PermissionCount: len(slugs)}
}

// RecompileForRole rebuilds compiled facts for every user currently holding
// the role, in any scope. (user, organization) pairs are deduplicated and
// compiled on a bounded worker pool; per-user failures are aggregated and
// never abort the batch.
func (c *Compiler) RecompileForRole(ctx context.Context, roleID uint) RecompileResult {
	if c.db == nil {
		return RecompileResult{Errors: []error{ErrDBNil}}
	}

	var assignments []models.UserRoleAssignment

	err := c.db.WithContext(ctx).
		Where("role_id = ?", roleID).
		Find(&assignments).Error
	if err != nil {
		return RecompileResult{Errors: []error{fmt.Errorf("failed to fetch role assignments: %w", err)}}
	}

	pairs, err := c.resolvePairs(ctx, assignments)
	if err != nil {
		return RecompileResult{Errors: []error{err}}
	}

	return c.compileBatch(ctx, pairs)
}

// RecompileForOrganization rebuilds compiled facts for every active member of
// the organization, with the same aggregate-error semantics as
// RecompileForRole.
func (c *Compiler) RecompileForOrganization(ctx context.Context, orgID uint) RecompileResult {
	if c.db == nil {
		return RecompileResult{Errors: []error{ErrDBNil}}
	}

	var members []models.OrganizationMember

	err := c.db.WithContext(ctx).
		Where("organization_id = ? AND status = ?", orgID, models.MemberStatusActive).
		Find(&members).Error
	if err != nil {
		return RecompileResult{Errors: []error{fmt.Errorf("failed to fetch organization members: %w", err)}}
	}

	pairs := make([]userOrg, 0, len(members))
	for _, m := range members {
		pairs = append(pairs, userOrg{userID: m.UserID, orgID: orgID})
	}

	return c.compileBatch(ctx, pairs)
}

// relevantRoleIDs returns the distinct role ids the user holds in the
// organization, through org-scoped assignments targeting it directly or
// branch-scoped assignments whose branch belongs to it.
func (c *Compiler) relevantRoleIDs(ctx context.Context, userID uint64, orgID uint) ([]uint, error) {
	var assignments []models.UserRoleAssignment

	err := c.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&assignments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch role assignments: %w", err)
	}

	branchOrg, err := c.branchOwners(ctx, assignments)
	if err != nil {
		return nil, err
	}

	seen := make(map[uint]struct{})
	roleIDs := make([]uint, 0, len(assignments))

	for _, a := range assignments {
		switch a.Scope {
		case models.ScopeOrg:
			if a.ScopeID != orgID {
				continue
			}
		case models.ScopeBranch:
			if branchOrg[a.ScopeID] != orgID {
				continue
			}
		default:
			continue
		}

		if _, ok := seen[a.RoleID]; ok {
			continue
		}

		seen[a.RoleID] = struct{}{}
		roleIDs = append(roleIDs, a.RoleID)
	}

	return roleIDs, nil
}

// branchOwners maps the branch ids referenced by branch-scoped assignments to
// their owning organization ids.
func (c *Compiler) branchOwners(ctx context.Context, assignments []models.UserRoleAssignment) (map[uint]uint, error) {
	branchIDs := make([]uint, 0)
	seen := make(map[uint]struct{})

	for _, a := range assignments {
		if a.Scope != models.ScopeBranch {
			continue
		}

		if _, ok := seen[a.ScopeID]; ok {
			continue
		}

		seen[a.ScopeID] = struct{}{}
		branchIDs = append(branchIDs, a.ScopeID)
	}

	owners := make(map[uint]uint, len(branchIDs))
	if len(branchIDs) == 0 {
		return owners, nil
	}

	var branches []models.Branch

	err := c.db.WithContext(ctx).
		Where("id IN ?", branchIDs).
		Find(&branches).Error
	if err != nil {
		return nil, fmt.Errorf("failed to resolve branch ownership: %w", err)
	}

	for _, b := range branches {
		owners[b.ID] = b.OrganizationID
	}

	return owners, nil
}

// permissionSlugs expands the role set into the distinct, sorted set of
// granted permission slugs. A permission granted by multiple roles appears
// once; sorting keeps the insert order deterministic between runs.
func (c *Compiler) permissionSlugs(ctx context.Context, roleIDs []uint) ([]string, error) {
	var slugs []string

	err := c.db.WithContext(ctx).
		Table("role_permissions").
		Distinct("permissions.slug").
		Joins("JOIN permissions ON permissions.id = role_permissions.permission_id").
		Joins("JOIN roles ON roles.id = role_permissions.role_id").
		Where("role_permissions.role_id IN ?", roleIDs).
		Where("role_permissions.deleted_at IS NULL").
		Where("roles.deleted_at IS NULL").
		Pluck("permissions.slug", &slugs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to expand role permissions: %w", err)
	}

	sort.Strings(slugs)

	return slugs, nil
}

// resolvePairs maps assignments to deduplicated (user, organization) pairs.
// Branch-scoped assignments resolve through the branch's owning organization;
// assignments whose branch no longer exists are skipped.
func (c *Compiler) resolvePairs(ctx context.Context, assignments []models.UserRoleAssignment) ([]userOrg, error) {
	branchOrg, err := c.branchOwners(ctx, assignments)
	if err != nil {
		return nil, err
	}

	seen := make(map[userOrg]struct{})
	pairs := make([]userOrg, 0, len(assignments))

	for _, a := range assignments {
		var orgID uint

		switch a.Scope {
		case models.ScopeOrg:
			orgID = a.ScopeID
		case models.ScopeBranch:
			owner, ok := branchOrg[a.ScopeID]
			if !ok {
				log.Warn().Uint("branch_id", a.ScopeID).Uint("assignment_id", a.ID).
					Msg("branch-scoped assignment references missing branch")

				continue
			}

			orgID = owner
		default:
			continue
		}

		pair := userOrg{userID: a.UserID, orgID: orgID}
		if _, ok := seen[pair]; ok {
			continue
		}

		seen[pair] = struct{}{}
		pairs = append(pairs, pair)
	}

	return pairs, nil
}

// compileBatch runs CompileForUser for each pair on a bounded worker pool.
// Each worker reports success or failure independently; a failure never
// cancels sibling compilations.
func (c *Compiler) compileBatch(ctx context.Context, pairs []userOrg) RecompileResult {
	var (
		mu     sync.Mutex
		result = RecompileResult{}
		g      errgroup.Group
	)

	g.SetLimit(c.workers)

	for _, pair := range pairs {
		g.Go(func() error {
			res := c.CompileForUser(ctx, pair.userID, pair.orgID)

			mu.Lock()
			defer mu.Unlock()

			if res.Success {
				result.UsersUpdated++
			} else {
				result.Errors = append(result.Errors,
					fmt.Errorf("user %d org %d: %w", pair.userID, pair.orgID, res.Err))
			}

			// Failures are recorded, not returned, so the pool keeps going.
			return nil
		})
	}

	_ = g.Wait()

	result.Success = len(result.Errors) == 0

	return result
}

func (c *Compiler) invalidate(ctx context.Context, userID uint64, orgID uint) {
	if c.invalidator == nil {
		return
	}

	c.invalidator.InvalidateSnapshot(ctx, userID, orgID)
}
