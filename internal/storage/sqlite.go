package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/safehold-app/safehold/internal/common"
	"github.com/safehold-app/safehold/internal/dbx"
	"github.com/safehold-app/safehold/internal/storage/migrations"
)

// SQLite implements Storage on a local SQLite database, one row per vault
// record. The upsert in Set is a single statement, so a concurrent Get on the
// same key observes either the old or the new blob, never a torn write.
type SQLite struct {
	db dbx.DBTX
}

// NewSQLite returns a SQLite storage bound to the given DBTX.
func NewSQLite(db dbx.DBTX) *SQLite {
	return &SQLite{db: db}
}

// Open opens (creating if needed) the device database at dsn and applies
// pending migrations. The caller owns closing the returned handle.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open device db: %w", err)
	}

	if err := runMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate device db: %w", err)
	}

	return db, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

func (s *SQLite) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM vault_records WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("vault record %q: %w", key, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get vault record %q: %w", common.ErrStorageFailure, key, err)
	}
	return value, nil
}

func (s *SQLite) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO vault_records (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("%w: set vault record %q: %w", common.ErrStorageFailure, key, err)
	}
	return nil
}

func (s *SQLite) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM vault_records WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("%w: delete vault record %q: %w", common.ErrStorageFailure, key, err)
	}
	return nil
}

func (s *SQLite) Exists(ctx context.Context, key string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM vault_records WHERE key = ?`, key).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: check vault record %q: %w", common.ErrStorageFailure, key, err)
	}
	return true, nil
}
