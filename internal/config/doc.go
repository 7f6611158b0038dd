// Package config loads runtime configuration for the shelf command.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with --config. Files ending in .yaml or
//     .yml are read as YAML, everything else as JSON. Keys missing from the
//     file keep their default values.
//  3. Command-line flags that were set explicitly, which override both.
//
// # File schema
//
// Durations use timex.Duration, so they can be strings like "3s" or integer
// nanoseconds:
//
//	{
//	  "store": {
//	    "driver": "mongo",
//	    "uri": "mongodb://localhost:27017",
//	    "database": "NovelEditorDb",
//	    "collection": "Novels",
//	    "timeout": "5s"
//	  },
//	  "data_dir": "~/.novelshelf",
//	  "log": {"level": "info", "format": "text"},
//	  "mirror": {"bucket": "covers", "endpoint": "http://127.0.0.1:9000"}
//	}
//
// Primary API
//
//   - type Config                         : runtime settings
//   - func (*Config) LoadDefaults()       : sets defaults
//   - func RegisterFlags(fs, cfg)         : binds flags to cfg fields
//   - func Load(fs, cfg) error            : overlays the file under explicit flags
//
// This package does not read environment variables directly.
package config
