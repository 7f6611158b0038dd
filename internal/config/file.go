package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/novelshelf/internal/timex"
	"gopkg.in/yaml.v3"
)

// fileConfig is the DTO for config files. It uses timex.Duration so
// intervals can be strings like "5s". After parsing, values are copied into
// the runtime Config.
type fileConfig struct {
	Store     fileStore  `json:"store" yaml:"store"`
	DataDir   string     `json:"data_dir" yaml:"data_dir"`
	CoversDir string     `json:"covers_dir" yaml:"covers_dir"`
	Log       fileLog    `json:"log" yaml:"log"`
	Mirror    fileMirror `json:"mirror" yaml:"mirror"`
	Format    string     `json:"format" yaml:"format"`
}

type fileStore struct {
	Driver     string         `json:"driver" yaml:"driver"`
	URI        string         `json:"uri" yaml:"uri"`
	Database   string         `json:"database" yaml:"database"`
	Collection string         `json:"collection" yaml:"collection"`
	Timeout    timex.Duration `json:"timeout" yaml:"timeout"`
}

type fileLog struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
}

type fileMirror struct {
	Bucket    string `json:"bucket" yaml:"bucket"`
	Region    string `json:"region" yaml:"region"`
	Endpoint  string `json:"endpoint" yaml:"endpoint"`
	AccessKey string `json:"access_key" yaml:"access_key"`
	SecretKey string `json:"secret_key" yaml:"secret_key"`
	Prefix    string `json:"prefix" yaml:"prefix"`
}

// parseFile overlays cfg with the values found in path. The DTO is seeded
// from cfg, so keys absent from the file keep their current values.
func parseFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	fc := toFile(cfg)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	fromFile(fc, cfg)
	return nil
}

func toFile(c *Config) fileConfig {
	return fileConfig{
		Store: fileStore{
			Driver:     c.Store.Driver,
			URI:        c.Store.URI,
			Database:   c.Store.Database,
			Collection: c.Store.Collection,
			Timeout:    timex.Duration{Duration: c.Store.Timeout},
		},
		DataDir:   c.DataDir,
		CoversDir: c.CoversDir,
		Log:       fileLog{Level: c.Log.Level, Format: c.Log.Format},
		Mirror:    fileMirror(c.Mirror),
		Format:    c.Format,
	}
}

func fromFile(fc fileConfig, c *Config) {
	c.Store = StoreConfig{
		Driver:     fc.Store.Driver,
		URI:        fc.Store.URI,
		Database:   fc.Store.Database,
		Collection: fc.Store.Collection,
		Timeout:    fc.Store.Timeout.Duration,
	}
	c.DataDir = fc.DataDir
	c.CoversDir = fc.CoversDir
	c.Log = LogConfig{Level: fc.Log.Level, Format: fc.Log.Format}
	c.Mirror = MirrorConfig(fc.Mirror)
	c.Format = fc.Format
}
