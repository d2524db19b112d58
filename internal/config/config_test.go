package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/leapmeta/pkg/core"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const projectYAML = `
schema:
  - types
  - extra/more.yaml
profile: h2
catalog: codes.db
target:
  profile: postgres
  host: db.local
  database: meta
  user: ${LEAPMETA_TEST_USER}
  password: ${LEAPMETA_TEST_UNSET}
  options:
    sslmode: require
environments:
  ci:
    profile: sqlite
    target:
      profile: sqlite
      path: ci.db
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func testFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("config", "", "")
	fs.String("env", "", "")
	fs.StringSlice("schema", nil, "")
	fs.String("profile", "", "")
	fs.String("catalog", "", "")
	fs.String("output", "", "")
	fs.Bool("verbose", false, "")
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoadFile(t *testing.T) {
	t.Setenv("LEAPMETA_TEST_USER", "meta_owner")
	path := writeConfig(t, projectYAML)
	root := filepath.Dir(path)

	cfg, err := Load(path, "", nil)
	require.NoError(t, err)

	assert.Equal(t, root, cfg.ProjectRoot)
	assert.Equal(t, path, cfg.File)
	assert.Equal(t, []string{filepath.Join(root, "types"), filepath.Join(root, "extra/more.yaml")}, cfg.Schema)
	assert.Equal(t, "h2", cfg.Profile)
	assert.Equal(t, filepath.Join(root, "codes.db"), cfg.Catalog)
	assert.Equal(t, OutputAuto, cfg.Output)

	require.NotNil(t, cfg.Target)
	assert.Equal(t, "meta_owner", cfg.Target.User, "${VAR} expanded")
	assert.Equal(t, "${LEAPMETA_TEST_UNSET}", cfg.Target.Password, "unset vars are kept")
	assert.Equal(t, "public", cfg.Target.Schema, "schema from profile")
	assert.Equal(t, 5432, cfg.Target.Port, "port from profile")

	ac := cfg.Target.AdapterConfig()
	assert.Equal(t, core.AdapterConfig{
		Profile:     "postgres",
		Host:        "db.local",
		Port:        5432,
		Database:    "meta",
		Schema:      "public",
		Credentials: core.Credentials{User: "meta_owner", Password: "${LEAPMETA_TEST_UNSET}"},
		Options:     map[string]string{"sslmode": "require"},
	}, ac)

	url, err := cfg.Target.URL()
	require.NoError(t, err)
	assert.Equal(t, "postgres://db.local:5432/meta", url)
}

func TestLoadEnvironment(t *testing.T) {
	path := writeConfig(t, projectYAML)
	root := filepath.Dir(path)

	cfg, err := Load(path, "ci", nil)
	require.NoError(t, err)
	assert.Equal(t, "ci", cfg.Environment)
	assert.Equal(t, "sqlite", cfg.Profile)
	assert.Equal(t, "sqlite", cfg.Target.Profile)
	assert.Equal(t, filepath.Join(root, "ci.db"), cfg.Target.Path)
	assert.Equal(t, "db.local", cfg.Target.Host, "inherited from the base target")

	_, err = Load(path, "prod", nil)
	assert.ErrorContains(t, err, `unknown environment "prod"`)
}

func TestLoadPrecedence(t *testing.T) {
	path := writeConfig(t, "profile: h2\noutput: text\n")

	t.Run("env over file", func(t *testing.T) {
		t.Setenv("LEAPMETA_PROFILE", "duckdb")
		t.Setenv("LEAPMETA_SCHEMA", "a.yaml, b.yaml")
		cfg, err := Load(path, "", nil)
		require.NoError(t, err)
		assert.Equal(t, "duckdb", cfg.Profile)
		root := filepath.Dir(path)
		assert.Equal(t, []string{filepath.Join(root, "a.yaml"), filepath.Join(root, "b.yaml")}, cfg.Schema)
	})

	t.Run("flag over env", func(t *testing.T) {
		t.Setenv("LEAPMETA_PROFILE", "duckdb")
		cfg, err := Load(path, "", testFlags(t, "--profile", "sqlite", "--output", "yaml"))
		require.NoError(t, err)
		assert.Equal(t, "sqlite", cfg.Profile)
		assert.Equal(t, OutputYAML, cfg.Output)
	})

	t.Run("unset flag uses env", func(t *testing.T) {
		t.Setenv("LEAPMETA_PROFILE", "duckdb")
		cfg, err := Load(path, "", testFlags(t, "--verbose"))
		require.NoError(t, err)
		assert.Equal(t, "duckdb", cfg.Profile)
		assert.True(t, cfg.Verbose)
		assert.Equal(t, OutputText, cfg.Output)
	})

	t.Run("nested env keys", func(t *testing.T) {
		t.Setenv("LEAPMETA_TARGET__HOST", "envhost")
		t.Setenv("LEAPMETA_TARGET__PROFILE", "postgres")
		cfg, err := Load(path, "", nil)
		require.NoError(t, err)
		require.NotNil(t, cfg.Target)
		assert.Equal(t, "envhost", cfg.Target.Host)
	})

	t.Run("schema flag is relative to the working directory", func(t *testing.T) {
		cfg, err := Load(path, "", testFlags(t, "--schema", "x.yaml,y.yaml"))
		require.NoError(t, err)
		cwd, err := os.Getwd()
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(cwd, "x.yaml"), filepath.Join(cwd, "y.yaml")}, cfg.Schema)
	})
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "{}\n")
	cfg, err := Load(path, "", nil)
	require.NoError(t, err)

	root := filepath.Dir(path)
	assert.Equal(t, []string{filepath.Join(root, DefaultSchemaDir)}, cfg.Schema)
	assert.Equal(t, "postgres", cfg.Profile)
	assert.Equal(t, filepath.Join(root, DefaultCatalog), cfg.Catalog)
	assert.Nil(t, cfg.Target)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{name: "unknown profile", content: "profile: mysql\n", errMsg: `unknown profile "mysql"`},
		{name: "bad output", content: "output: html\n", errMsg: `invalid output "html"`},
		{name: "bad target", content: "target: {profile: mysql}\n", errMsg: "invalid target configuration"},
		{name: "malformed yaml", content: "profile: [\n", errMsg: "error reading config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content), "", nil)
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}
}

func TestFindProjectRoot(t *testing.T) {
	path := writeConfig(t, "{}\n")
	root := filepath.Dir(path)
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	assert.Equal(t, root, FindProjectRoot(nested))
	assert.Equal(t, "", FindProjectRoot(t.TempDir()))
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_VAR_ONE", "value_one")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "no vars", input: "plain", expected: "plain"},
		{name: "single var", input: "${TEST_VAR_ONE}", expected: "value_one"},
		{name: "empty string", input: "", expected: ""},
		{name: "mixed set and unset", input: "${TEST_VAR_ONE}:${UNSET_VAR}", expected: "value_one:${UNSET_VAR}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, expandEnvVars(tt.input))
		})
	}
}

func TestMergeTargetConfig(t *testing.T) {
	t.Run("nil handling", func(t *testing.T) {
		target := &TargetConfig{Profile: "duckdb"}
		assert.Same(t, target, MergeTargetConfig(nil, target))
		assert.Same(t, target, MergeTargetConfig(target, nil))
		assert.Nil(t, MergeTargetConfig(nil, nil))
	})

	t.Run("override replaces base fields", func(t *testing.T) {
		base := &TargetConfig{
			Profile: "duckdb",
			Path:    "base.db",
			Host:    "localhost",
			Options: map[string]string{"key1": "base_value1", "key2": "base_value2"},
		}
		override := &TargetConfig{
			Path:    "override.db",
			Options: map[string]string{"key2": "override_value2"},
		}

		result := MergeTargetConfig(base, override)
		assert.Equal(t, "duckdb", result.Profile)
		assert.Equal(t, "override.db", result.Path)
		assert.Equal(t, "localhost", result.Host)
		assert.Equal(t, map[string]string{"key1": "base_value1", "key2": "override_value2"}, result.Options)
		assert.Equal(t, "base_value2", base.Options["key2"], "base is not modified")
	})
}
