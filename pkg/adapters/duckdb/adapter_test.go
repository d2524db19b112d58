package duckdb

import (
	"context"
	"testing"

	"github.com/leapstack-labs/leapmeta/pkg/adapter"
	"github.com/leapstack-labs/leapmeta/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdapter_Connect(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{name: "explicit memory", path: ":memory:"},
		{name: "empty path defaults to memory", path: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New(nil)
			require.NoError(t, a.Connect(context.Background(), core.AdapterConfig{Path: tt.path}))
			defer func() { _ = a.Close() }()
			assert.True(t, a.IsConnected())
		})
	}
}

func TestAdapter_NotConnected(t *testing.T) {
	a := New(nil)
	ctx := context.Background()

	assert.EqualError(t, a.Exec(ctx, "SELECT 1"), "database connection not established")
	_, err := a.TableExists(ctx, "Foo")
	assert.Error(t, err)
	assert.NoError(t, a.Close())
}

func TestConnect_WithSettings(t *testing.T) {
	ctx := context.Background()
	a := New(nil)

	cfg := core.AdapterConfig{
		Path: ":memory:",
		Params: map[string]any{
			"settings": map[string]any{"threads": "2"},
		},
	}
	require.NoError(t, a.Connect(ctx, cfg))
	defer func() { _ = a.Close() }()

	rows, err := a.Query(ctx, "SELECT current_setting('threads')")
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()
	require.True(t, rows.Next())

	var threads string
	require.NoError(t, rows.Scan(&threads))
	assert.Equal(t, "2", threads)
}

func TestConnect_WithBadSetting(t *testing.T) {
	a := New(nil)
	err := a.Connect(context.Background(), core.AdapterConfig{
		Params: map[string]any{"settings": map[string]any{"no_such_setting": "1"}},
	})
	assert.ErrorContains(t, err, "failed to apply duckdb param")
	assert.False(t, a.IsConnected())
}

func TestAdapter_TableExists(t *testing.T) {
	ctx := context.Background()
	a := New(nil)
	require.NoError(t, a.Connect(ctx, core.AdapterConfig{}))
	defer func() { _ = a.Close() }()

	ok, err := a.TableExists(ctx, "Foo")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, a.Exec(ctx, "CREATE TABLE Foo (id UUID NOT NULL)"))

	ok, err = a.TableExists(ctx, "foo")
	require.NoError(t, err)
	assert.True(t, ok, "lookup ignores case")
}

func TestRegistration(t *testing.T) {
	a, err := adapter.NewAdapter(adapter.Config{Profile: "DuckDB"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &Adapter{}, a)
	assert.Equal(t, "duckdb", a.Profile().Name)
}
