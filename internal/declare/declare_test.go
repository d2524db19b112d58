package declare

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/leapmeta/internal/testutil"
	"github.com/leapstack-labs/leapmeta/pkg/core"
	"github.com/leapstack-labs/leapmeta/pkg/dialect"
	"github.com/leapstack-labs/leapmeta/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// literalSpecs mirrors testdata/*.yaml as Go literals.
func literalSpecs() []schema.TypeSpec {
	return []schema.TypeSpec{
		{
			ID: 1, Name: "qa.core.Entity", Abstract: true,
			Fields: []schema.FieldSpec{{Member: "id", Variant: core.UUID}},
		},
		{
			ID: 2, Name: "qa.core.Foo", Parent: "qa.core.Entity",
			Fields: []schema.FieldSpec{
				{Member: "name", Variant: core.VARCHAR, Length: 30},
				{Member: "age", Variant: core.INT},
				{Member: "sex", Variant: core.CODEREF, Target: "sex"},
				{Member: "flag", Variant: core.BOOL},
			},
			Members:  []schema.MemberSpec{{Name: "cache", Transient: true}},
			Computed: []schema.ComputedSpec{{Name: "nameLength", Function: "length", Source: "name"}},
		},
		{
			ID: 3, Name: "qa.core.Bar", Parent: "qa.core.Foo",
			Fields: []schema.FieldSpec{
				{Member: "note", Variant: core.LONGSTR, Deferred: schema.Bool(false)},
				{Member: "photo", Column: "photo_data", Variant: core.IMAGE, Index: schema.Int(6)},
			},
		},
		{
			ID: 8, Name: "qa.core.Poo", Parent: "qa.core.Entity",
			Fields: []schema.FieldSpec{
				{Member: "foo", Variant: core.REF, Target: "qa.core.Foo", Required: schema.Bool(true)},
			},
		},
	}
}

func TestLoadMatchesLiterals(t *testing.T) {
	specs, err := Load(testutil.NewTestLogger(t), "testdata")
	require.NoError(t, err)
	assert.Equal(t, literalSpecs(), specs)
}

func TestBuildMatchesLiterals(t *testing.T) {
	fromYAML, err := Build(testutil.NewTestLogger(t), "testdata/core.yaml", "testdata/more.yml")
	require.NoError(t, err)
	fromGo, err := schema.Build(literalSpecs())
	require.NoError(t, err)

	h2 := dialect.MustGet("h2")
	want, err := fromGo.RenderAll(h2)
	require.NoError(t, err)
	got, err := fromYAML.RenderAll(h2)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	for _, tbl := range fromGo.Tables() {
		other, ok := fromYAML.ByID(tbl.ID())
		require.True(t, ok)
		assert.Equal(t, tbl.String(), other.String())
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{
			name:    "unknown variant",
			content: "types:\n  - {id: 1, name: a.A, fields: [{member: x, variant: BLOB}]}\n",
			errMsg:  `unknown variant "BLOB"`,
		},
		{
			name:    "unknown key",
			content: "types:\n  - {id: 1, name: a.A, colour: red}\n",
			errMsg:  "colour",
		},
		{
			name:    "malformed yaml",
			content: "types: [\n",
			errMsg:  "error reading declarations",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "types.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			_, err := LoadFile(path)
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}
}

func TestLoadMissingPath(t *testing.T) {
	_, err := Load(nil, filepath.Join(t.TempDir(), "absent"))
	assert.ErrorContains(t, err, "failed to read declarations")
}

func TestBuildReportsDeclarationErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "types.yaml")
	content := "types:\n  - {id: 1, name: a.A, fields: [{member: s, variant: VARCHAR}]}\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	_, err := Build(nil, path)
	assert.ErrorIs(t, err, core.ErrDeclaration)
}
