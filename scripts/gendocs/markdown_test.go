package main

import (
	"testing"

	"github.com/leapstack-labs/leapmeta/internal/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownWriter(t *testing.T) {
	w := NewMarkdownWriter()
	w.Header(2, "Usage")
	w.Table([]string{"Option", "Description"}, [][]string{{InlineCode("--output"), "auto|text|yaml"}})
	w.CodeBlock("bash", "leapmeta render\n")

	want := "## Usage\n\n" +
		"| Option | Description |\n| --- | --- |\n| `--output` | auto\\|text\\|yaml |\n\n" +
		"```bash\nleapmeta render\n```\n\n"
	assert.Equal(t, want, string(w.Bytes()))
}

func TestCleanExample(t *testing.T) {
	in := "  # Render\n  leapmeta render\n\n    indented\n"
	assert.Equal(t, "# Render\nleapmeta render\n\n  indented", cleanExample(in))
	assert.Equal(t, "one line", cleanDescription("one\n  line "))
}

func TestGeneratorsWritePages(t *testing.T) {
	dir := t.TempDir()
	for _, g := range generators {
		assert.NoError(t, g.run(dir), g.name)
	}
	for _, name := range []string{"index.md", "render.md", "catalog.md", "configuration.md", "profiles.md"} {
		assert.FileExists(t, dir+"/"+name)
	}
}

func TestCommandPageListsSubcommands(t *testing.T) {
	var catalog, render string
	for _, cmd := range documented(cli.NewRootCmd()) {
		switch cmd.Name() {
		case "catalog":
			catalog = string(commandPage(cmd).Bytes())
		case "render":
			render = string(commandPage(cmd).Bytes())
		}
	}
	require.NotEmpty(t, catalog)
	require.NotEmpty(t, render)

	assert.Contains(t, catalog, "leapmeta catalog put <kind> <code> [label...]")
	for _, sub := range []string{"### list", "### put", "### get", "### delete"} {
		assert.Contains(t, catalog, sub)
	}
	assert.Contains(t, render, "| `-w`, `--watch` | `false` |")
	assert.Contains(t, render, "## Examples")
}

func TestEnvRows(t *testing.T) {
	var names []string
	for _, row := range envRows() {
		names = append(names, row[0])
	}
	assert.Contains(t, names, "`LEAPMETA_PROFILE`")
	assert.Contains(t, names, "`LEAPMETA_TARGET__PASSWORD`")
	assert.NotContains(t, names, "`LEAPMETA_TARGET__OPTIONS`")
}
