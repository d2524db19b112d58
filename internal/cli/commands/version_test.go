package commands

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVersionCommand(t *testing.T) {
	tests := []struct {
		name    string
		version string
		want    string
	}{
		{"default version", "0.1.0", "leapmeta v0.1.0\n"},
		{"custom version", "1.2.3", "leapmeta v1.2.3\n"},
		{"dev version", "dev", "leapmeta vdev\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewVersionCommand(tt.version)
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)

			require.NoError(t, cmd.Execute())
			assert.Contains(t, buf.String(), tt.want)
			assert.Contains(t, buf.String(), "DDL renderer")
		})
	}
}

func TestCommandMetadata(t *testing.T) {
	tests := []struct {
		name string
		cmd  *cobra.Command
	}{
		{"version", NewVersionCommand("test")},
		{"render", NewRenderCommand()},
		{"describe", NewDescribeCommand()},
		{"profiles", NewProfilesCommand()},
		{"deps", NewDepsCommand()},
		{"apply", NewApplyCommand()},
		{"catalog", NewCatalogCommand()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.cmd.Name())
			assert.NotEmpty(t, tt.cmd.Short)
			assert.NotEmpty(t, tt.cmd.Long)
		})
	}

	var subs []string
	for _, c := range NewCatalogCommand().Commands() {
		subs = append(subs, c.Name())
	}
	assert.ElementsMatch(t, []string{"list", "put", "get", "delete"}, subs)
}
