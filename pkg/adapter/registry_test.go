package adapter

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnknownAdapterError_Error(t *testing.T) {
	err := &UnknownAdapterError{
		Profile:   "oracle",
		Available: []string{"duckdb", "postgres"},
	}

	msg := err.Error()
	assert.Contains(t, msg, `"oracle"`)
	assert.Contains(t, msg, "[duckdb postgres]")
	assert.Contains(t, msg, "leapmeta render", "should hint at rendering instead")
}

func TestRegister(t *testing.T) {
	Register("Test_Adapter_Internal", func(_ *slog.Logger) Adapter { return nil })

	assert.True(t, IsRegistered("test_adapter_internal"), "names are case-insensitive")
	assert.Contains(t, ListAdapters(), "test_adapter_internal")

	factory, ok := Get("TEST_ADAPTER_INTERNAL")
	assert.True(t, ok)
	assert.NotNil(t, factory)

	assert.False(t, IsRegistered("unknown_db"))
}

func TestNewAdapter(t *testing.T) {
	Register("test_factory", func(_ *slog.Logger) Adapter { return &fakeAdapter{} })

	tests := []struct {
		name    string
		profile string
		errMsg  string
	}{
		{name: "registered", profile: "test_factory"},
		{name: "empty profile", profile: "", errMsg: "adapter profile not specified"},
		{name: "unknown profile", profile: "db2", errMsg: `no connection adapter for profile "db2"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewAdapter(Config{Profile: tt.profile}, nil)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.ErrorContains(t, err, tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, &fakeAdapter{}, a)
		})
	}
}
