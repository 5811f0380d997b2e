// Package daemon wires the application together: database, session store,
// snapshot cache, permission compiler and the web service.
package daemon

import (
	"fmt"

	sessionpostgres "github.com/gofiber/storage/postgres/v3"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/authz"
	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/authz/compiler"
	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/config"
	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/db/dsn"
	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/db/models"
	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/web"
	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/web/session"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
}

// Start starts the Daemon's web service.
func (d *Daemon) Start() error {
	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

// WaitShutdown blocks until the web service finished its graceful shutdown.
func (d *Daemon) WaitShutdown() {
	d.webService.WaitShutdown()
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) *Daemon {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil
	}

	db := OpenDB(cfg)

	if err := db.AutoMigrate(
		&models.Organization{},
		&models.OrganizationEntitlements{},
		&models.OrganizationMember{},
		&models.Branch{},
		&models.User{},
		&models.Role{},
		&models.Permission{},
		&models.RolePermission{},
		&models.UserRoleAssignment{},
		&models.UserPermissionOverride{},
		&models.UserEffectivePermission{},
	); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	// Initialize fiber session store
	sessionStorage := sessionpostgres.New(sessionpostgres.Config{
		ConnectionURI: sessionURI(cfg),
		Table:         "sessions",
	})

	session.Init(sessionStorage)

	authService := authz.NewService(db)

	if cfg.Redis.Addr != "" {
		cache := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		authService = authService.WithCache(cache, cfg.Redis.SnapshotTTL)

		log.Info().Str("addr", cfg.Redis.Addr).Msg("snapshot caching enabled")
	}

	comp := compiler.New(db,
		compiler.WithWorkers(cfg.Compiler.Workers),
		compiler.WithInvalidator(authService),
	)

	seed(cfg, db, comp)

	return &Daemon{
		cfg:        cfg,
		webService: web.New(cfg, db, authService, comp),
	}
}

// OpenDB connects to the configured database engine.
func OpenDB(cfg *config.Config) *gorm.DB {
	var dialector gorm.Dialector

	switch cfg.DB.GormEngine {
	case "mysql":
		dialector = gormmysql.Open(dsn.Create(cfg))
	default:
		dialector = gormpostgres.Open(dsn.Create(cfg))
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	return db
}

// sessionURI builds the connection string for the session store, which
// always lives in the postgres database.
func sessionURI(cfg *config.Config) string {
	return fmt.Sprintf("postgresql://%s:%s@%s:%d/%s",
		cfg.DB.User,
		cfg.DB.Password,
		cfg.DB.Host,
		cfg.DB.Port,
		cfg.DB.Name,
	)
}
