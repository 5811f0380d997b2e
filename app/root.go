// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/config"
)

var (
	cfg        config.Config
	configPath string // Path to the configuration directory
	err        error

	rootCmd = &cobra.Command{
		Use:   "coreframe",
		Short: "Coreframe is a multi-tenant warehouse and organization management service",
		Long: `Coreframe is a multi-tenant warehouse and organization management service.
Role assignments are compiled into per-user permission facts at write time;
the web service and its sidebar read only those compiled facts.`,
		Args: cobra.OnlyValidArgs,
	}
)

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./etc/", "Path to the configuration directory")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
