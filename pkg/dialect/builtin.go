package dialect

import "github.com/leapstack-labs/leapmeta/pkg/core"

// builtinH2 is the fully-populated reference profile. Text is stored as UTF-16,
// hence two bytes per declared character.
var builtinH2 = NewProfile("h2").
	Driver("h2").
	URLTemplate("tcp://%s:%d/%s").
	DefaultPort(9092).
	DefaultSchema("PUBLIC").
	Adapters(map[core.Variant]TypeAdapter{
		core.UUID:      Fixed("uuid", 16),
		core.INT:       Fixed("int", 4),
		core.LONG:      Fixed("bigint", 8),
		core.NUMERIC:   Fixed("numeric", 16),
		core.DATE:      Fixed("date", 8),
		core.TIME:      Fixed("time", 8),
		core.TIMESTAMP: Fixed("timestamp", 8),
		core.BOOL:      Fixed("boolean", 1),
		core.STR:       Sized("varchar(%d)", 2),
		core.VARCHAR:   Sized("varchar(%d)", 2),
		core.CHAR:      Sized("varchar(%d)", 2),
		core.LONGSTR:   Scaled("ntext", 2),
		core.IMAGE:     Scaled("OID", 2),
		core.REF:       Scaled("int8", 2),
		core.CODEREF:   Fixed("varchar(20)", 20),
	}).
	Build()

var builtinPostgres = NewProfile("postgres").
	Driver("pgx").
	URLTemplate("postgres://%s:%d/%s").
	DefaultPort(5432).
	DefaultSchema("public").
	Adapters(map[core.Variant]TypeAdapter{
		core.UUID:      Fixed("uuid", 16),
		core.INT:       Fixed("integer", 4),
		core.LONG:      Fixed("bigint", 8),
		core.NUMERIC:   Fixed("numeric", 16),
		core.DATE:      Fixed("date", 4),
		core.TIME:      Fixed("time", 8),
		core.TIMESTAMP: Fixed("timestamptz", 8),
		core.BOOL:      Fixed("boolean", 1),
		core.STR:       Sized("varchar(%d)", 4),
		core.VARCHAR:   Sized("varchar(%d)", 4),
		core.CHAR:      Sized("char(%d)", 4),
		core.LONGSTR:   Scaled("text", 4),
		core.IMAGE:     Scaled("bytea", 1),
		core.REF:       Fixed("uuid", 16),
		core.CODEREF:   Fixed("varchar(20)", 20),
	}).
	Build()

var builtinDuckDB = NewProfile("duckdb").
	Driver("duckdb").
	URLTemplate("%[3]s").
	DefaultSchema("main").
	Adapters(map[core.Variant]TypeAdapter{
		core.UUID:      Fixed("UUID", 16),
		core.INT:       Fixed("INTEGER", 4),
		core.LONG:      Fixed("BIGINT", 8),
		core.NUMERIC:   Fixed("DECIMAL(18,4)", 8),
		core.DATE:      Fixed("DATE", 4),
		core.TIME:      Fixed("TIME", 8),
		core.TIMESTAMP: Fixed("TIMESTAMP", 8),
		core.BOOL:      Fixed("BOOLEAN", 1),
		core.STR:       Sized("VARCHAR(%d)", 1),
		core.VARCHAR:   Sized("VARCHAR(%d)", 1),
		core.CHAR:      Sized("VARCHAR(%d)", 1),
		core.LONGSTR:   Scaled("VARCHAR", 1),
		core.IMAGE:     Scaled("BLOB", 1),
		core.REF:       Fixed("UUID", 16),
		core.CODEREF:   Fixed("VARCHAR(20)", 20),
	}).
	Build()

var builtinSQLite = NewProfile("sqlite").
	Driver("sqlite3").
	URLTemplate("file:%[3]s").
	Adapters(map[core.Variant]TypeAdapter{
		core.UUID:      Fixed("TEXT", 36),
		core.INT:       Fixed("INTEGER", 4),
		core.LONG:      Fixed("INTEGER", 8),
		core.NUMERIC:   Fixed("REAL", 8),
		core.DATE:      Fixed("TEXT", 10),
		core.TIME:      Fixed("TEXT", 8),
		core.TIMESTAMP: Fixed("TEXT", 30),
		core.BOOL:      Fixed("INTEGER", 1),
		core.STR:       Sized("VARCHAR(%d)", 1),
		core.VARCHAR:   Sized("VARCHAR(%d)", 1),
		core.CHAR:      Sized("CHAR(%d)", 1),
		core.LONGSTR:   Scaled("TEXT", 1),
		core.IMAGE:     Scaled("BLOB", 1),
		core.REF:       Fixed("TEXT", 36),
		core.CODEREF:   Fixed("VARCHAR(20)", 20),
	}).
	Build()

var builtinGreenplum = NewProfile("greenplum").
	Driver("pgx").
	URLTemplate("postgres://%s:%d/%s").
	DefaultPort(5432).
	DefaultSchema("public").
	Extends(builtinPostgres).
	Build()

// Connection-only profiles. Rendering against them fails with NoAdapterError.
var connectionOnly = []*Profile{
	NewProfile("oracle").Driver("oracle").URLTemplate("oracle://%s:%d/%s").DefaultPort(1521).Build(),
	NewProfile("mssql").Driver("sqlserver").URLTemplate("sqlserver://%s:%d?database=%s").DefaultPort(1433).DefaultSchema("dbo").Build(),
	NewProfile("sybase").Driver("tds").URLTemplate("tds://%s:%d/%s").DefaultPort(5000).Build(),
	NewProfile("netezza").Driver("nzgo").URLTemplate("netezza://%s:%d/%s").DefaultPort(5480).Build(),
	NewProfile("db2").Driver("go_ibm_db").URLTemplate("db2://%s:%d/%s").DefaultPort(50000).Build(),
}

// DefaultProfile is used when configuration names none.
const DefaultProfile = "postgres"

func init() {
	Register(builtinH2)
	Register(builtinPostgres)
	Register(builtinDuckDB)
	Register(builtinSQLite)
	Register(builtinGreenplum)
	for _, p := range connectionOnly {
		Register(p)
	}
}
