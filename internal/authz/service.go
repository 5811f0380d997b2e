package authz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/db/models"
)

// ErrDBNil is returned when the database connection is nil.
var ErrDBNil = errors.New("database connection is nil")

// Service assembles permission snapshots for (user, organization) pairs from
// the compiled fact table and override rows. Snapshots can optionally be
// cached in Redis; the cache is invalidated after every successful
// compilation, so a snapshot is never staler than the latest compile.
type Service struct {
	db       *gorm.DB
	cache    *redis.Client
	cacheTTL time.Duration
}

// NewService creates a new snapshot service without caching.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// WithCache enables Redis-backed snapshot caching with the given TTL.
func (s *Service) WithCache(client *redis.Client, ttl time.Duration) *Service {
	s.cache = client
	s.cacheTTL = ttl

	return s
}

// cachedSnapshot is the JSON shape stored in Redis.
type cachedSnapshot struct {
	Allow []string `json:"allow"`
	Deny  []string `json:"deny"`
}

func snapshotCacheKey(userID uint64, orgID uint) string {
	return fmt.Sprintf("authz:snapshot:%d:%d", orgID, userID)
}

// Snapshot builds the {allow, deny} permission snapshot for a user in an
// organization. Role-derived grants come from the compiled fact table;
// overrides are applied on top (an override grant adds to allow, an override
// denial lands in deny and wins over any role-derived grant).
func (s *Service) Snapshot(ctx context.Context, userID uint64, orgID uint) (Snapshot, error) {
	if s.db == nil {
		return Snapshot{}, ErrDBNil
	}

	if cached, ok := s.cacheGet(ctx, userID, orgID); ok {
		return cached, nil
	}

	var allow []string

	err := s.db.WithContext(ctx).
		Model(&models.UserEffectivePermission{}).
		Where("user_id = ? AND organization_id = ?", userID, orgID).
		Pluck("permission_slug", &allow).Error
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read compiled permissions: %w", err)
	}

	var overrides []models.UserPermissionOverride

	err = s.db.WithContext(ctx).
		Preload("Permission").
		Where("user_id = ? AND organization_id = ?", userID, orgID).
		Find(&overrides).Error
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read permission overrides: %w", err)
	}

	var deny []string

	for _, o := range overrides {
		if o.IsGranted {
			allow = append(allow, o.Permission.Slug)
		} else {
			deny = append(deny, o.Permission.Slug)
		}
	}

	snap := NewSnapshot(allow, deny)
	s.cacheSet(ctx, userID, orgID, snap)

	return snap, nil
}

// HasPermission reports whether the user holds the permission in the
// organization. It is a lookup against the snapshot, not a join across the
// role graph.
func (s *Service) HasPermission(ctx context.Context, userID uint64, orgID uint, slug string) (bool, error) {
	snap, err := s.Snapshot(ctx, userID, orgID)
	if err != nil {
		return false, err
	}

	return snap.Has(slug), nil
}

// InvalidateSnapshot drops the cached snapshot for a (user, organization)
// pair. The compiler calls this after every successful compilation.
func (s *Service) InvalidateSnapshot(ctx context.Context, userID uint64, orgID uint) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Del(ctx, snapshotCacheKey(userID, orgID)).Err(); err != nil {
		log.Warn().Err(err).
			Uint64("user_id", userID).
			Uint("organization_id", orgID).
			Msg("failed to invalidate snapshot cache")
	}
}

// Entitlements loads the organization's entitlement record.
// A missing record yields (nil, nil); callers must treat nil entitlements as
// fail-closed for module-gated surfaces.
func (s *Service) Entitlements(ctx context.Context, orgID uint) (*models.OrganizationEntitlements, error) {
	if s.db == nil {
		return nil, ErrDBNil
	}

	var ent models.OrganizationEntitlements

	err := s.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		First(&ent).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to read entitlements: %w", err)
	}

	return &ent, nil
}

func (s *Service) cacheGet(ctx context.Context, userID uint64, orgID uint) (Snapshot, bool) {
	if s.cache == nil {
		return Snapshot{}, false
	}

	raw, err := s.cache.Get(ctx, snapshotCacheKey(userID, orgID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Msg("snapshot cache read failed")
		}

		return Snapshot{}, false
	}

	var cached cachedSnapshot
	if err := json.Unmarshal(raw, &cached); err != nil {
		log.Warn().Err(err).Msg("snapshot cache entry is corrupt")
		return Snapshot{}, false
	}

	return NewSnapshot(cached.Allow, cached.Deny), true
}

func (s *Service) cacheSet(ctx context.Context, userID uint64, orgID uint, snap Snapshot) {
	if s.cache == nil {
		return
	}

	raw, err := json.Marshal(cachedSnapshot{
		Allow: snap.AllowList(),
		Deny:  snap.DenyList(),
	})
	if err != nil {
		return
	}

	if err := s.cache.Set(ctx, snapshotCacheKey(userID, orgID), raw, s.cacheTTL).Err(); err != nil {
		log.Warn().Err(err).Msg("snapshot cache write failed")
	}
}
