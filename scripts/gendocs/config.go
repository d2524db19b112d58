package main

import (
	"fmt"
	"log"

	"github.com/leapstack-labs/leapmeta/internal/config"
	"github.com/leapstack-labs/leapmeta/pkg/dialect"
)

// ConfigField represents a configuration key.
type ConfigField struct {
	Name        string
	Type        string
	Default     string
	Description string
	Target      bool
}

// getConfigSchema lists the keys of internal/config Config and TargetConfig.
func getConfigSchema() []ConfigField {
	return []ConfigField{
		{Name: "schema", Type: "[]string", Default: config.DefaultSchemaDir, Description: "Declaration files or directories, relative to the project root"},
		{Name: "profile", Type: "string", Default: dialect.DefaultProfile, Description: "Dialect profile used by render and describe"},
		{Name: "catalog", Type: "string", Default: config.DefaultCatalog, Description: "SQLite database holding code objects"},
		{Name: "output", Type: "string", Default: config.DefaultOutput, Description: "Output format: auto, text or yaml"},
		{Name: "verbose", Type: "bool", Default: "false", Description: "Log debug messages to stderr"},
		{Name: "environment", Type: "string", Description: "Environment applied when --env is not given"},

		{Name: "profile", Type: "string", Target: true, Description: "Connection adapter and DDL dialect of the target"},
		{Name: "path", Type: "string", Target: true, Description: "Database file for embedded targets (duckdb, sqlite)"},
		{Name: "host", Type: "string", Target: true, Description: "Database host"},
		{Name: "port", Type: "int", Target: true, Description: "Database port; defaults to the profile's port"},
		{Name: "database", Type: "string", Target: true, Description: "Database name"},
		{Name: "user", Type: "string", Target: true, Description: "Database user; ${VAR} references are expanded"},
		{Name: "password", Type: "string", Target: true, Description: "Database password; ${VAR} references are expanded"},
		{Name: "schema", Type: "string", Target: true, Description: "Database schema; defaults to the profile's schema"},
		{Name: "options", Type: "map[string]string", Target: true, Description: "Extra driver connection options"},
		{Name: "params", Type: "map[string]any", Target: true, Description: "Adapter-specific settings such as duckdb extensions"},
	}
}

// generateConfigDocs generates the configuration reference page.
func generateConfigDocs(outDir string) error {
	log.Printf("Generating configuration docs to %s", outDir)
	w := NewMarkdownWriter()

	w.Frontmatter("Configuration", "leapmeta configuration reference")
	w.GeneratedMarker()

	w.Header(1, "Configuration")
	w.Paragraph(fmt.Sprintf("leapmeta reads %s from the project root. Values are layered: defaults, the file, %s environment variables, then command-line flags.",
		InlineCode(config.ConfigFileName), InlineCode(config.EnvPrefix+"*")))

	var project, target [][]string
	for _, f := range getConfigSchema() {
		def := "-"
		if f.Default != "" {
			def = InlineCode(f.Default)
		}
		row := []string{InlineCode(f.Name), f.Type, def, f.Description}
		if f.Target {
			target = append(target, row)
		} else {
			project = append(project, row)
		}
	}

	headers := []string{"Field", "Type", "Default", "Description"}
	w.Header(2, "Project Settings")
	w.Table(headers, project)

	w.Header(2, "Target")
	w.Paragraph("The database that " + InlineCode("leapmeta apply") + " creates tables in:")
	w.Table(headers, target)

	w.Header(2, "Environments")
	w.Paragraph("Named overrides under " + InlineCode("environments") + ". An environment may replace the profile and merge fields into the target.")
	w.CodeBlock("yaml", `schema: [schema]
profile: postgres
target:
  profile: postgres
  host: localhost
  database: app
environments:
  ci:
    target:
      host: db.ci.internal
      password: ${CI_DB_PASSWORD}`)

	return writePage(outDir, "configuration.md", w)
}
