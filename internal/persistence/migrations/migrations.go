// Package migrations embeds the schema for each supported database and
// applies it with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed sql/sqlite/*.sql sql/postgres/*.sql
var files embed.FS

// Dialect selects the schema variant to apply.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// Migrator applies embedded migrations to a database handle.
type Migrator struct {
	provider *goose.Provider
}

// NewMigrator prepares a migrator for db. The caller keeps ownership of db.
func NewMigrator(db *sql.DB, dialect Dialect) (*Migrator, error) {
	var gooseDialect goose.Dialect
	switch dialect {
	case DialectSQLite:
		gooseDialect = goose.DialectSQLite3
	case DialectPostgres:
		gooseDialect = goose.DialectPostgres
	default:
		return nil, fmt.Errorf("migrations: unsupported dialect %q", dialect)
	}

	fsys, err := fs.Sub(files, "sql/"+string(dialect))
	if err != nil {
		return nil, fmt.Errorf("migrations: open %s scripts: %w", dialect, err)
	}

	provider, err := goose.NewProvider(gooseDialect, db, fsys)
	if err != nil {
		return nil, fmt.Errorf("migrations: create provider: %w", err)
	}
	return &Migrator{provider: provider}, nil
}

// Run applies every pending migration.
func (m *Migrator) Run(ctx context.Context) error {
	if _, err := m.provider.Up(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Version reports the latest applied migration version.
func (m *Migrator) Version(ctx context.Context) (int64, error) {
	version, err := m.provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("get version: %w", err)
	}
	return version, nil
}

// Up is a convenience for NewMigrator followed by Run.
func Up(ctx context.Context, db *sql.DB, dialect Dialect) error {
	migrator, err := NewMigrator(db, dialect)
	if err != nil {
		return err
	}
	return migrator.Run(ctx)
}
