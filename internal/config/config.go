package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/novelshelf/internal/common"
)

// Store drivers understood by store.Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

// Config holds runtime settings for the shelf command.
type Config struct {
	// ConfigFile is the optional path given with --config.
	ConfigFile string

	Store StoreConfig

	// DataDir holds the sqlite database and, unless CoversDir is set,
	// the cover asset directory.
	DataDir   string
	CoversDir string

	Log    LogConfig
	Mirror MirrorConfig

	// Format selects CLI output: "text" or "json".
	Format string
}

// StoreConfig selects and parameterizes the record store backend.
//
// URI is a file path or DSN for sqlite (defaults to DataDir/novels.db),
// a pgx DSN for postgres, and a mongodb:// URI for mongo. Database and
// Collection are only used by the mongo driver. Timeout bounds every
// store call; zero disables it.
type StoreConfig struct {
	Driver     string
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

// MirrorConfig configures the optional S3-compatible cover mirror.
// The mirror is disabled while Bucket is empty.
type MirrorConfig struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Prefix    string
}

// Enabled reports whether covers should be mirrored.
func (m MirrorConfig) Enabled() bool {
	return m.Bucket != ""
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.Store = StoreConfig{
		Driver:     DriverSQLite,
		Database:   common.DefaultDatabase,
		Collection: common.DefaultCollection,
		Timeout:    10 * time.Second,
	}
	c.DataDir = "data"
	c.Log = LogConfig{Level: "info", Format: "text"}
	c.Mirror = MirrorConfig{Region: "us-east-1", Prefix: "covers/"}
	c.Format = "text"
}

// CoversPath returns the cover asset directory.
func (c *Config) CoversPath() string {
	if c.CoversDir != "" {
		return c.CoversDir
	}
	return filepath.Join(c.DataDir, common.CoversDirName)
}

// StoreURI returns the effective store location for the configured driver.
func (c *Config) StoreURI() string {
	if c.Store.URI != "" {
		return c.Store.URI
	}
	switch c.Store.Driver {
	case DriverSQLite:
		return filepath.Join(c.DataDir, "novels.db")
	case DriverMongo:
		return common.DefaultMongoURI
	}
	return ""
}

// Validate checks the fields that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverSQLite, DriverMongo, DriverMemory:
	case DriverPostgres:
		if c.Store.URI == "" {
			return fmt.Errorf("%w: postgres driver requires a DSN", common.ErrValidation)
		}
	default:
		return fmt.Errorf("%w: unknown store driver %q", common.ErrValidation, c.Store.Driver)
	}
	if c.Store.Timeout < 0 {
		return fmt.Errorf("%w: negative store timeout", common.ErrValidation)
	}
	switch strings.ToLower(c.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: invalid output format %q", common.ErrValidation, c.Format)
	}
	return nil
}
