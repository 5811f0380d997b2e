package app

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/authz"
	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/authz/compiler"
	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/config"
	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/daemon"
	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/logger"
)

const recompileTimeout = 10 * time.Minute

func init() { //nolint: gochecknoinits
	recompileCmd.Flags().Uint64Var(&recompileUser, "user", 0, "Recompile one user (requires --org)")
	recompileCmd.Flags().UintVar(&recompileOrg, "org", 0, "Recompile every active member of an organization")
	recompileCmd.Flags().UintVar(&recompileRole, "role", 0, "Recompile every holder of a role")

	rootCmd.AddCommand(recompileCmd)
}

var (
	recompileUser uint64
	recompileOrg  uint
	recompileRole uint

	recompileCmd = &cobra.Command{
		Use:   "recompile",
		Short: "Rebuild compiled permission facts",
		Long: `Rebuild compiled permission facts without starting the web service.
Use after restoring a database backup or fixing data by hand:
the fact table is derived state and can always be rebuilt from
role assignments.`,
		PreRun: func(_ *cobra.Command, _ []string) {
			if cfg, err = config.ReadConfig(configPath); err != nil {
				panic(err)
			}

			if err = logger.Init(cfg.Log); err != nil {
				panic(err)
			}
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return runRecompile()
		},
	}
)

func runRecompile() error {
	db := daemon.OpenDB(&cfg)

	authService := authz.NewService(db)

	if cfg.Redis.Addr != "" {
		cache := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		authService = authService.WithCache(cache, cfg.Redis.SnapshotTTL)
	}

	comp := compiler.New(db,
		compiler.WithWorkers(cfg.Compiler.Workers),
		compiler.WithInvalidator(authService),
	)

	ctx, cancel := context.WithTimeout(context.Background(), recompileTimeout)
	defer cancel()

	switch {
	case recompileUser != 0:
		if recompileOrg == 0 {
			return errors.New("--user requires --org")
		}

		res := comp.CompileForUser(ctx, recompileUser, recompileOrg)
		if !res.Success {
			return res.Err
		}

		log.Info().Uint64("user", recompileUser).Uint("org", recompileOrg).
			Int("permissions", res.PermissionCount).Msg("recompiled")

		return nil

	case recompileRole != 0:
		return reportBatch(comp.RecompileForRole(ctx, recompileRole))

	case recompileOrg != 0:
		return reportBatch(comp.RecompileForOrganization(ctx, recompileOrg))

	default:
		return errors.New("one of --user, --org or --role is required")
	}
}

func reportBatch(res compiler.RecompileResult) error {
	for _, batchErr := range res.Errors {
		log.Error().Err(batchErr).Msg("recompile failure")
	}

	log.Info().Int("users", res.UsersUpdated).Int("failed", len(res.Errors)).Msg("recompile finished")

	if len(res.Errors) > 0 {
		return errors.New("recompile finished with failures")
	}

	return nil
}
