package config

import "github.com/leapstack-labs/leapmeta/pkg/dialect"

// Default configuration values.
const (
	DefaultSchemaDir = "schema"
	DefaultCatalog   = ".leapmeta/catalog.db"
	DefaultOutput    = OutputAuto
)

// Output formats.
const (
	OutputAuto = "auto" // TTY=text, non-TTY=yaml
	OutputText = "text"
	OutputYAML = "yaml"
)

// ApplyDefaults fills unset values. A target without a profile uses the
// top-level profile.
func (c *Config) ApplyDefaults() {
	if len(c.Schema) == 0 {
		c.Schema = []string{DefaultSchemaDir}
	}
	if c.Profile == "" {
		c.Profile = dialect.DefaultProfile
	}
	if c.Catalog == "" {
		c.Catalog = DefaultCatalog
	}
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if c.Target != nil {
		if c.Target.Profile == "" {
			c.Target.Profile = c.Profile
		}
		c.Target.ApplyDefaults()
	}
}

// ApplyDefaults fills the schema and port from the target's profile.
func (t *TargetConfig) ApplyDefaults() {
	p, ok := dialect.Get(t.Profile)
	if !ok {
		return
	}
	if t.Schema == "" {
		t.Schema = p.DefaultSchema
	}
	if t.Port == 0 && t.Host != "" {
		t.Port = p.DefaultPort
	}
}
