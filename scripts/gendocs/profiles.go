package main

import (
	"log"
	"strconv"

	"github.com/leapstack-labs/leapmeta/pkg/adapter"
	"github.com/leapstack-labs/leapmeta/pkg/core"
	"github.com/leapstack-labs/leapmeta/pkg/dialect"

	_ "github.com/leapstack-labs/leapmeta/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/leapmeta/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/leapmeta/pkg/adapters/sqlite"
)

// sampleLength is the declared length shown for sized types.
const sampleLength = 10

type sampleColumn core.Variant

func (c sampleColumn) Name() string          { return "sample" }
func (c sampleColumn) Variant() core.Variant { return core.Variant(c) }
func (c sampleColumn) Length() int           { return sampleLength }

// generateProfileDocs generates the dialect profile reference page.
func generateProfileDocs(outDir string) error {
	log.Printf("Generating profile docs to %s", outDir)
	w := NewMarkdownWriter()

	w.Frontmatter("Dialect Profiles", "Schema types and connection support per dialect profile")
	w.GeneratedMarker()

	w.Header(1, "Dialect Profiles")
	w.Paragraph("A profile maps every field variant to a schema type. Profiles without a full mapping can still be connected to, but rendering against them fails. Sized types are shown for a declared length of " + strconv.Itoa(sampleLength) + ".")

	var rows [][]string
	for _, name := range dialect.List() {
		p := dialect.MustGet(name)
		rows = append(rows, []string{InlineCode(p.Name), InlineCode(p.Driver), yesNo(p.CanRender()), yesNo(adapter.IsRegistered(p.Name))})
	}
	w.Table([]string{"Profile", "Driver", "Renders", "Connects"}, rows)

	for _, name := range dialect.List() {
		p := dialect.MustGet(name)
		if !p.CanRender() {
			continue
		}
		w.Header(2, p.Name)
		var types [][]string
		for _, v := range p.Variants() {
			typ, _ := p.SchemaType(sampleColumn(v))
			n, _ := p.StorageLength(sampleColumn(v))
			types = append(types, []string{InlineCode(v.String()), InlineCode(typ), strconv.Itoa(n)})
		}
		w.Table([]string{"Variant", "Type", "Bytes"}, types)
	}

	return writePage(outDir, "profiles.md", w)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
