// Package dsn provides Data Source Name construction for the supported
// database engines.
package dsn

import (
	"fmt"

	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/config"
)

// Create builds the Data Source Name from the configuration, in the format
// the configured gorm engine expects.
func Create(cfg *config.Config) string {
	if cfg.DB.GormEngine == "mysql" {
		return mysqlDSN(&cfg.DB)
	}

	return postgresDSN(&cfg.DB)
}

func mysqlDSN(db *config.DB) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		db.User,
		db.Password,
		db.Host,
		db.Port,
		db.Name,
		db.Extras,
	)
}

func postgresDSN(db *config.DB) string {
	out := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s",
		db.Host,
		db.Port,
		db.User,
		db.Password,
		db.Name,
	)

	if db.Extras != "" {
		out += " " + db.Extras
	}

	return out
}
