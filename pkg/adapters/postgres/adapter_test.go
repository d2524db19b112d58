package postgres

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/leapstack-labs/leapmeta/pkg/adapter"
	"github.com/leapstack-labs/leapmeta/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPostgresDSN(t *testing.T) {
	tests := []struct {
		name     string
		config   adapter.Config
		params   *Params
		expected string
	}{
		{
			name: "basic connection",
			config: adapter.Config{
				Host:        "localhost",
				Port:        5432,
				Database:    "testdb",
				Credentials: core.Credentials{User: "user", Password: "pass"},
			},
			expected: "host=localhost port=5432 dbname=testdb sslmode=disable user=user password=pass",
		},
		{
			name: "with custom sslmode",
			config: adapter.Config{
				Host:        "prod.example.com",
				Database:    "proddb",
				Credentials: core.Credentials{User: "admin"},
				Options:     map[string]string{"sslmode": "require"},
			},
			expected: "host=prod.example.com port=5432 dbname=proddb sslmode=require user=admin",
		},
		{
			name:     "defaults",
			config:   adapter.Config{Database: "mydb"},
			expected: "host=localhost port=5432 dbname=mydb sslmode=disable",
		},
		{
			name: "quoted password",
			config: adapter.Config{
				Database:    "mydb",
				Credentials: core.Credentials{User: "u", Password: "it's secret"},
			},
			expected: `host=localhost port=5432 dbname=mydb sslmode=disable user=u password='it\'s secret'`,
		},
		{
			name:   "params and extra options",
			config: adapter.Config{Host: "db", Port: 6432, Database: "meta", Options: map[string]string{"timezone": "UTC", "statement_timeout": "5s"}},
			params: &Params{SearchPath: "meta,public", ApplicationName: "leapmeta", ConnectTimeout: 10},
			expected: "host=db port=6432 dbname=meta sslmode=disable search_path=meta,public application_name=leapmeta connect_timeout=10" +
				" statement_timeout=5s timezone=UTC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dsn := buildPostgresDSN(tt.config, 5432, tt.params)
			assert.Equal(t, tt.expected, dsn)
		})
	}
}

func TestParseParams(t *testing.T) {
	tests := []struct {
		name    string
		input   map[string]any
		want    *Params
		wantErr bool
	}{
		{name: "nil params returns empty struct", input: nil, want: &Params{}},
		{
			name: "all fields",
			input: map[string]any{
				"search_path":      "meta",
				"application_name": "leapmeta",
				"connect_timeout":  5,
			},
			want: &Params{SearchPath: "meta", ApplicationName: "leapmeta", ConnectTimeout: 5},
		},
		{
			name:  "timeout from string",
			input: map[string]any{"connect_timeout": "30"},
			want:  &Params{ConnectTimeout: 30},
		},
		{
			name:    "invalid timeout",
			input:   map[string]any{"connect_timeout": "soon"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseParams(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAdapter_ConnectAndTableExists(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	a := New(nil)
	var gotDriver, gotDSN string
	a.Opener = func(driver, dsn string) (*sql.DB, error) {
		gotDriver, gotDSN = driver, dsn
		return db, nil
	}

	ctx := context.Background()
	require.NoError(t, a.Connect(ctx, adapter.Config{Profile: "postgres", Database: "meta", Schema: "app"}))
	assert.Equal(t, "pgx", gotDriver)
	assert.Equal(t, "host=localhost port=5432 dbname=meta sslmode=disable", gotDSN)
	assert.Equal(t, "postgres", a.Profile().Name)

	mock.ExpectQuery("FROM information_schema.tables").WithArgs("app", "Foo").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	ok, err := a.TableExists(ctx, "Foo")
	require.NoError(t, err)
	assert.True(t, ok)

	mock.ExpectClose()
	require.NoError(t, a.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_ConnectRejectsBadParams(t *testing.T) {
	a := New(nil)
	err := a.Connect(context.Background(), adapter.Config{Params: map[string]any{"connect_timeout": "soon"}})
	assert.ErrorContains(t, err, "failed to parse postgres params")
	assert.False(t, a.IsConnected())
}

func TestRegistration(t *testing.T) {
	for _, name := range []string{"postgres", "greenplum"} {
		a, err := adapter.NewAdapter(adapter.Config{Profile: name}, nil)
		require.NoError(t, err, name)
		assert.Equal(t, name, a.Profile().Name)
		assert.Equal(t, "pgx", a.Profile().Driver)
	}
}
