package config

import (
	"time"

	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/logger"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Redis     Redis
	Compiler  Compiler
	Log       logger.Log
	Title     string
	Webserver Webserver
}

// Webserver implement webserver settings.
type Webserver struct {
	BrowseStatic        bool    // enable static file browsing (for development purposes only)
	CleanPath           bool    // use clean path middleware to allow multi slash requests
	DisableRecover      bool    // disable recover middleware
	Domain              string  // domain name for the webserver
	Port                int     // listening port for the webserver
	ShutDownTime        int     // wait time for shutdown
	URL                 string  // base url for the webserver
	CookieEncryptionKey string  // encryption key for cookies
	Session             Session // session settings
}

// Redis holds the snapshot cache settings. Caching is disabled when Addr is
// empty.
type Redis struct {
	Addr        string
	Password    string
	DB          int
	SnapshotTTL time.Duration
}

// Compiler holds permission compiler settings.
type Compiler struct {
	// Workers bounds concurrent per-user compilations during batch
	// recompilation. Zero falls back to the compiler default.
	Workers int
}
