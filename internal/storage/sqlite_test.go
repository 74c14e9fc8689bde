package storage

import (
	"context"
	"database/sql"
	"testing"

	"github.com/safehold-app/safehold/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *SQLite {
	t.Helper()
	db, err := sql.Open("sqlite", "file:storagetest?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE IF NOT EXISTS vault_records (
  key TEXT PRIMARY KEY,
  value BLOB NOT NULL,
  updated_at TIMESTAMP NOT NULL
);
DELETE FROM vault_records;
`)
	require.NoError(t, err)
	return NewSQLite(db)
}

func TestSQLite_GetMissingKeyIsNotFound(t *testing.T) {
	s := setupDB(t)
	ctx := context.Background()

	_, err := s.Get(ctx, "absent")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSQLite_SetGetRoundTrip(t *testing.T) {
	s := setupDB(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte{0x01, 0x02}))

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02}, got)
}

func TestSQLite_SetOverwrites(t *testing.T) {
	s := setupDB(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("old")))
	require.NoError(t, s.Set(ctx, "k", []byte("new")))

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), got)
}

func TestSQLite_DeleteAndExists(t *testing.T) {
	s := setupDB(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v")))

	ok, err := s.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.Delete(ctx, "k"))

	ok, err = s.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting an absent key is not an error.
	assert.NoError(t, s.Delete(ctx, "k"))
}

func TestOpen_AppliesMigrations(t *testing.T) {
	ctx := context.Background()

	db, err := Open(ctx, "file:"+t.TempDir()+"/device.db")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s := NewSQLite(db)
	require.NoError(t, s.Set(ctx, "k", []byte("v")))

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}
