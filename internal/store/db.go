// Package store persists users, tweets and follow edges in SQLite.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schema string

// DB wraps the SQLite handle shared by the stores.
type DB struct {
	*sql.DB
}

// Open opens the database at path and applies the schema.
func Open(ctx context.Context, path string) (*DB, error) {
	conn, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows one writer; a single connection keeps writes serialized.
	conn.SetMaxOpenConns(1)

	db := New(conn)
	if err := db.Migrate(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// New wraps an already opened handle.
func New(conn *sql.DB) *DB {
	return &DB{DB: conn}
}

// Migrate creates missing tables and indexes.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// constraint reports which SQLite constraint err violated, if any.
func constraint(err error) sqlite3.ErrNoExtended {
	var serr sqlite3.Error
	if errors.As(err, &serr) && serr.Code == sqlite3.ErrConstraint {
		return serr.ExtendedCode
	}
	return 0
}

func isUniqueViolation(err error) bool {
	c := constraint(err)
	return c == sqlite3.ErrConstraintUnique || c == sqlite3.ErrConstraintPrimaryKey
}

func isForeignKeyViolation(err error) bool {
	return constraint(err) == sqlite3.ErrConstraintForeignKey
}
