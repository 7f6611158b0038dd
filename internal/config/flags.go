package config

import (
	"github.com/spf13/pflag"
)

// flagTargets maps every flag registered by RegisterFlags to a function
// copying that flag's field from src to dst. Load uses it to put explicitly
// set flags back on top of the file values.
var flagTargets = map[string]func(dst, src *Config){
	"driver":            func(d, s *Config) { d.Store.Driver = s.Store.Driver },
	"uri":               func(d, s *Config) { d.Store.URI = s.Store.URI },
	"database":          func(d, s *Config) { d.Store.Database = s.Store.Database },
	"collection":        func(d, s *Config) { d.Store.Collection = s.Store.Collection },
	"store-timeout":     func(d, s *Config) { d.Store.Timeout = s.Store.Timeout },
	"data-dir":          func(d, s *Config) { d.DataDir = s.DataDir },
	"covers-dir":        func(d, s *Config) { d.CoversDir = s.CoversDir },
	"log-level":         func(d, s *Config) { d.Log.Level = s.Log.Level },
	"log-format":        func(d, s *Config) { d.Log.Format = s.Log.Format },
	"mirror-bucket":     func(d, s *Config) { d.Mirror.Bucket = s.Mirror.Bucket },
	"mirror-endpoint":   func(d, s *Config) { d.Mirror.Endpoint = s.Mirror.Endpoint },
	"mirror-region":     func(d, s *Config) { d.Mirror.Region = s.Mirror.Region },
	"mirror-prefix":     func(d, s *Config) { d.Mirror.Prefix = s.Mirror.Prefix },
	"mirror-access-key": func(d, s *Config) { d.Mirror.AccessKey = s.Mirror.AccessKey },
	"mirror-secret-key": func(d, s *Config) { d.Mirror.SecretKey = s.Mirror.SecretKey },
	"format":            func(d, s *Config) { d.Format = s.Format },
}

// RegisterFlags binds cfg fields to flags on fs. Call LoadDefaults first so
// the help output shows the defaults.
//
//	-c, --config string          path to a JSON or YAML config file
//	    --driver string          store driver: sqlite, postgres, mongo, memory
//	    --uri string             store file path, DSN or mongodb:// URI
//	    --database string        mongo database name
//	    --collection string      mongo collection name
//	    --store-timeout duration per-call store timeout (0 disables)
//	    --data-dir string        directory for the database and covers
//	    --covers-dir string      cover asset directory
//	    --log-level string       debug, info, warn, error
//	    --log-format string      text or json
//	    --mirror-* ...           S3 cover mirror settings
//	    --format string          output format: text or json
func RegisterFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVarP(&cfg.ConfigFile, "config", "c", cfg.ConfigFile, "path to a JSON or YAML config file")

	fs.StringVar(&cfg.Store.Driver, "driver", cfg.Store.Driver, "store driver: sqlite, postgres, mongo, memory")
	fs.StringVar(&cfg.Store.URI, "uri", cfg.Store.URI, "store file path, DSN or mongodb:// URI")
	fs.StringVar(&cfg.Store.Database, "database", cfg.Store.Database, "mongo database name")
	fs.StringVar(&cfg.Store.Collection, "collection", cfg.Store.Collection, "mongo collection name")
	fs.DurationVar(&cfg.Store.Timeout, "store-timeout", cfg.Store.Timeout, "per-call store timeout (0 disables)")

	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "directory for the database and covers")
	fs.StringVar(&cfg.CoversDir, "covers-dir", cfg.CoversDir, "cover asset directory (default <data-dir>/Covers)")

	fs.StringVar(&cfg.Log.Level, "log-level", cfg.Log.Level, "log level: debug, info, warn, error")
	fs.StringVar(&cfg.Log.Format, "log-format", cfg.Log.Format, "log format: text or json")

	fs.StringVar(&cfg.Mirror.Bucket, "mirror-bucket", cfg.Mirror.Bucket, "S3 bucket to mirror covers to (empty disables)")
	fs.StringVar(&cfg.Mirror.Endpoint, "mirror-endpoint", cfg.Mirror.Endpoint, "S3-compatible endpoint URL")
	fs.StringVar(&cfg.Mirror.Region, "mirror-region", cfg.Mirror.Region, "S3 region")
	fs.StringVar(&cfg.Mirror.Prefix, "mirror-prefix", cfg.Mirror.Prefix, "object key prefix for mirrored covers")
	fs.StringVar(&cfg.Mirror.AccessKey, "mirror-access-key", cfg.Mirror.AccessKey, "S3 access key")
	fs.StringVar(&cfg.Mirror.SecretKey, "mirror-secret-key", cfg.Mirror.SecretKey, "S3 secret key")

	fs.StringVar(&cfg.Format, "format", cfg.Format, "output format: text or json")
}

// Load applies the config file named by cfg.ConfigFile (if any) and then
// re-applies every flag that was set explicitly on fs, so the precedence is
// defaults < file < flags. fs must already be parsed.
func Load(fs *pflag.FlagSet, cfg *Config) error {
	if cfg.ConfigFile != "" {
		explicit := *cfg
		if err := parseFile(cfg.ConfigFile, cfg); err != nil {
			return err
		}
		fs.Visit(func(f *pflag.Flag) {
			if apply, ok := flagTargets[f.Name]; ok {
				apply(cfg, &explicit)
			}
		})
	}
	return cfg.Validate()
}
