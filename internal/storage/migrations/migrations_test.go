package migrations

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EmbeddedFiles(t *testing.T) {
	pg, err := load(PostgresFS, "postgres")
	require.NoError(t, err)
	require.Len(t, pg, 2)
	assert.Equal(t, "001_solar_days.sql", pg[0].name)
	assert.Equal(t, "002_search_runs.sql", pg[1].name)
	assert.Contains(t, pg[0].sql, "CREATE TABLE IF NOT EXISTS solar_days")

	ch, err := load(ClickhouseFS, "clickhouse")
	require.NoError(t, err)
	require.Len(t, ch, 1)
	assert.Contains(t, ch[0].sql, "planet_positions")
}

func TestLoad_SortsAndSkipsBlank(t *testing.T) {
	fsys := fstest.MapFS{
		"m/002_b.sql":  {Data: []byte("SELECT 2;")},
		"m/001_a.sql":  {Data: []byte("SELECT 1;")},
		"m/003_c.sql":  {Data: []byte("   \n")},
		"m/readme.txt": {Data: []byte("ignored")},
	}

	got, err := load(fsys, "m")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "001_a.sql", got[0].name)
	assert.Equal(t, "002_b.sql", got[1].name)
}

func TestSplitStatements(t *testing.T) {
	sql := `-- header
CREATE TABLE a (x UInt8) ENGINE = Memory;

-- second
CREATE TABLE b (y UInt8) ENGINE = Memory;
`
	stmts := splitStatements(sql)
	require.Len(t, stmts, 2)
	assert.Equal(t, "CREATE TABLE a (x UInt8) ENGINE = Memory", stmts[0])
	assert.Equal(t, "CREATE TABLE b (y UInt8) ENGINE = Memory", stmts[1])
}

func TestSplitStatements_EmbeddedClickhouse(t *testing.T) {
	ch, err := load(ClickhouseFS, "clickhouse")
	require.NoError(t, err)

	for _, m := range ch {
		require.NoError(t, validateNoSemicolonInStrings(m.sql), m.name)
		for _, stmt := range splitStatements(m.sql) {
			assert.NotContains(t, stmt, ";")
			assert.NotEmpty(t, stmt)
		}
	}
}

func TestValidateNoSemicolonInStrings(t *testing.T) {
	assert.NoError(t, validateNoSemicolonInStrings("SELECT 'a''b'; SELECT 1;"))
	assert.ErrorIs(t, validateNoSemicolonInStrings("SELECT 'a;b';"), ErrSemicolonInLiteral)
}

func TestDatabaseFromDSN(t *testing.T) {
	db, err := databaseFromDSN("clickhouse://default:@localhost:9000/rectify")
	require.NoError(t, err)
	assert.Equal(t, "rectify", db)

	_, err = databaseFromDSN("clickhouse://localhost:9000")
	assert.ErrorIs(t, err, ErrMissingDatabase)
}
