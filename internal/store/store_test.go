package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	regerrors "github.com/telicent-oss/go-json-register/errors"
)

func testConfig() Config {
	return Config{
		Driver:      DriverSQLite,
		DSN:         ":memory:",
		Table:       "json_objects",
		IDColumn:    "id",
		ValueColumn: "json_object",
		PoolSize:    10,
	}
}

func openTestStore(t *testing.T) *SQL {
	t.Helper()
	ctx := context.Background()

	s, err := Open(ctx, testConfig())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	require.NoError(t, s.EnsureSchema(ctx))
	return s
}

func TestOpen_UnknownDriver(t *testing.T) {
	cfg := testConfig()
	cfg.Driver = "oracle"

	_, err := Open(context.Background(), cfg)
	require.Error(t, err)
	assert.True(t, regerrors.IsConfigurationError(err))
}

func TestOpen_UnreachableDatabase(t *testing.T) {
	cfg := testConfig()
	cfg.DSN = "file:/nonexistent-dir/no/such/path.db?mode=rw"

	_, err := Open(context.Background(), cfg)
	require.Error(t, err)
	assert.True(t, regerrors.IsConnectionError(err))
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.EnsureSchema(context.Background()))
	require.NoError(t, s.EnsureSchema(context.Background()))
}

func TestGetOrInsert_AssignsAndReusesIDs(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, err := s.GetOrInsert(ctx, `{"name":"Alice"}`)
	require.NoError(t, err)
	assert.Positive(t, first)

	again, err := s.GetOrInsert(ctx, `{"name":"Alice"}`)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	other, err := s.GetOrInsert(ctx, `{"name":"Bob"}`)
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestGetOrInsertBatch_PreservesOrderAndDedupes(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	a, b, c := `{"v":"a"}`, `{"v":"b"}`, `{"v":"c"}`
	ids, err := s.GetOrInsertBatch(ctx, []string{a, b, a, c, b})
	require.NoError(t, err)
	require.Len(t, ids, 5)

	assert.Equal(t, ids[0], ids[2], "duplicate inputs must resolve to the same id")
	assert.Equal(t, ids[1], ids[4], "duplicate inputs must resolve to the same id")
	assert.NotEqual(t, ids[0], ids[1])
	assert.NotEqual(t, ids[0], ids[3])
	assert.NotEqual(t, ids[1], ids[3])
}

func TestGetOrInsertBatch_DuplicatesOfStoredValues(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	a := `{"v":"a"}`
	stored, err := s.GetOrInsert(ctx, a)
	require.NoError(t, err)

	// Repeats of an already stored value must each resolve to its id,
	// one result row per input position.
	ids, err := s.GetOrInsertBatch(ctx, []string{a, a, `{"v":"b"}`, a})
	require.NoError(t, err)
	require.Len(t, ids, 4)
	assert.Equal(t, stored, ids[0])
	assert.Equal(t, stored, ids[1])
	assert.Equal(t, stored, ids[3])
	assert.NotEqual(t, stored, ids[2])
}

func TestGetOrInsertBatch_Empty(t *testing.T) {
	s := openTestStore(t)

	ids, err := s.GetOrInsertBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestGetOrInsertBatch_ConsistentWithSingle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	ids, err := s.GetOrInsertBatch(ctx, []string{`{"v":1}`, `{"v":2}`})
	require.NoError(t, err)

	single, err := s.GetOrInsert(ctx, `{"v":1}`)
	require.NoError(t, err)
	assert.Equal(t, ids[0], single)
}

func TestPing(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Ping(context.Background()))
}

func TestClose_Idempotent(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
}

func TestQueryError_IsConnectionError(t *testing.T) {
	cfg := testConfig()
	s, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer s.Close()

	// Schema never created: the query fails at the store level.
	_, err = s.GetOrInsert(context.Background(), `{"v":1}`)
	require.Error(t, err)
	assert.True(t, regerrors.IsConnectionError(err))
}

func TestNewPostgresDialect_BuildsStatementsFromIdentifiers(t *testing.T) {
	d := newPostgresDialect(names{table: "reg_table", idCol: "reg_id", valCol: "reg_value"})

	for _, stmt := range []string{d.registerQuery, d.batchQuery, d.selectQuery, d.ddl} {
		assert.Contains(t, stmt, "reg_table")
		assert.Contains(t, stmt, "reg_id")
		assert.Contains(t, stmt, "reg_value")
	}
	assert.Contains(t, d.batchQuery, "WITH ORDINALITY")
	assert.Contains(t, d.registerQuery, "ON CONFLICT (reg_value) DO NOTHING")
}

func TestNewPostgresDialect_BatchJoinsDistinctValues(t *testing.T) {
	d := newPostgresDialect(names{table: "reg_table", idCol: "reg_id", valCol: "reg_value"})

	// Both resolution CTEs must be keyed by distinct input values. Joining
	// raw input occurrences multiplies result rows for repeated values that
	// already exist in the table, breaking the one-row-per-position shape.
	assert.Contains(t, d.batchQuery, "SELECT DISTINCT json_value FROM input_objects")
	assert.Contains(t, d.batchQuery, "SELECT json_value FROM distinct_objects")
	assert.Contains(t, d.batchQuery, "JOIN distinct_objects d ON t.reg_value = d.json_value")
	assert.NotContains(t, d.batchQuery, "JOIN input_objects io ON t.reg_value")
}
