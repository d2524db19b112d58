// Package config loads leapmeta.yaml project configuration.
//
// Values come from, lowest precedence first: built-in defaults, the config
// file, LEAPMETA_* environment variables and explicitly set command-line
// flags. Relative paths resolve against the project root, which is the
// directory holding the config file.
package config

import (
	"fmt"

	"github.com/leapstack-labs/leapmeta/pkg/core"
	"github.com/leapstack-labs/leapmeta/pkg/dialect"
)

// TargetConfig holds the database connection used by apply.
type TargetConfig struct {
	// Profile names the adapter. Defaults to the top-level profile.
	Profile string `koanf:"profile"`

	// File-based databases (DuckDB, SQLite)
	Path string `koanf:"path"`

	// Network databases
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Database string `koanf:"database"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`

	Schema string `koanf:"schema"`

	// Additional driver-specific options
	Options map[string]string `koanf:"options"`

	// Params holds adapter-specific configuration (e.g., DuckDB settings)
	Params map[string]any `koanf:"params"`
}

// AdapterConfig converts t into the form adapters consume.
func (t *TargetConfig) AdapterConfig() core.AdapterConfig {
	return core.AdapterConfig{
		Profile:     t.Profile,
		Path:        t.Path,
		Host:        t.Host,
		Port:        t.Port,
		Database:    t.Database,
		Schema:      t.Schema,
		Credentials: core.Credentials{User: t.User, Password: t.Password},
		Options:     t.Options,
		Params:      t.Params,
	}
}

// URL returns the profile's connection URL for t, without credentials.
func (t *TargetConfig) URL() (string, error) {
	p, err := dialect.Lookup(t.Profile)
	if err != nil {
		return "", err
	}
	db := t.Database
	if db == "" {
		db = t.Path
	}
	return p.URL(t.Host, t.Port, db), nil
}

// EnvConfig holds environment-specific overrides.
type EnvConfig struct {
	Profile string        `koanf:"profile"`
	Target  *TargetConfig `koanf:"target"`
}

// Config holds all CLI configuration options.
type Config struct {
	// Schema lists declaration files or directories.
	Schema []string `koanf:"schema"`
	// Profile is the dialect profile used to render DDL.
	Profile string `koanf:"profile"`
	// Catalog is the path of the SQLite code-object catalog.
	Catalog      string               `koanf:"catalog"`
	Environment  string               `koanf:"environment"`
	Verbose      bool                 `koanf:"verbose"`
	Output       string               `koanf:"output"`
	Target       *TargetConfig        `koanf:"target"`
	Environments map[string]EnvConfig `koanf:"environments"`

	// ProjectRoot is the directory relative paths resolve against.
	ProjectRoot string `koanf:"-"`
	// File is the config file that was read, if any.
	File string `koanf:"-"`
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if len(c.Schema) == 0 {
		return fmt.Errorf("schema is required")
	}
	if _, err := dialect.Lookup(c.Profile); err != nil {
		return fmt.Errorf("invalid profile: %w", err)
	}
	switch c.Output {
	case OutputAuto, OutputText, OutputYAML:
	default:
		return fmt.Errorf("invalid output %q (want %s, %s or %s)", c.Output, OutputAuto, OutputText, OutputYAML)
	}
	if c.Target != nil {
		if _, err := dialect.Lookup(c.Target.Profile); err != nil {
			return fmt.Errorf("invalid target configuration: %w", err)
		}
	}
	return nil
}
