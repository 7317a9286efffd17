package migrate

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", "file:"+filepath.Join(t.TempDir(), "storage.db")+"?_busy_timeout=5000")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestUpAppliesOnceAndIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)

	applied, err := Up(ctx, db, "sqlite")
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, applied)

	applied, err = Up(ctx, db, "sqlite")
	require.NoError(t, err)
	assert.Empty(t, applied)

	version, err := Version(ctx, db, "sqlite")
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	_, err = db.ExecContext(ctx, "INSERT INTO local_storage (storage_key, value) VALUES ('token', 'abc')")
	require.NoError(t, err)
}

func TestDialectFor(t *testing.T) {
	_, err := DialectFor("postgres")
	assert.NoError(t, err)
	_, err = DialectFor("mysql")
	assert.Error(t, err)
}
